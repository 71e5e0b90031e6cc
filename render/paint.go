// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/gputypes"
)

// PaintContext carries per-tick information from the host to a Renderer.
type PaintContext struct {
	// Device is the host's GPU device. Never nil inside Render.
	Device DeviceHandle

	// Frame is the host frame number, incremented once per frame by the driver.
	Frame uint64

	// Scale is the host's device pixel ratio (1 when unknown).
	Scale float64
}

// SurfaceFormat returns the host surface format, or Undefined without a device.
func (c PaintContext) SurfaceFormat() gputypes.TextureFormat {
	if c.Device == nil {
		return gputypes.TextureFormatUndefined
	}
	return c.Device.SurfaceFormat()
}
