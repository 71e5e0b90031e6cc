// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"github.com/gogpu/viewhost/message"
)

// Renderer is the capability an embedded engine adapter implements.
//
// One implementation exists per embedded use case (a 3D scene, a simulation,
// a browser view). viewhost constructs it through a [Factory] and owns its
// lifetime from then on.
type Renderer interface {
	// Render produces a frame at the given target size.
	//
	// Called once per tick while the instance is Active, after every pending
	// message was delivered. It may advance simulation or animation state and
	// must finish within a frame budget; longer work is pipelined internally.
	//
	// A nil texture with a nil error means no frame is ready (for example
	// the engine is still warming up). A non-nil error terminates the
	// instance: viewhost shuts it down and reports the failure to the tick's
	// caller without crashing the host.
	//
	// Ownership of a returned texture passes to viewhost. Return the same
	// texture again to keep using it; once a different texture supersedes it,
	// the old one is destroyed by viewhost.
	Render(ctx PaintContext, width, height int) (*Texture, error)

	// HandleMessage receives one message. Must not block.
	HandleMessage(msg message.Message)

	// Shutdown releases every GPU and engine resource. It is called exactly
	// once and never concurrently with Render or HandleMessage. A returned
	// error is logged; the renderer is dropped either way.
	Shutdown() error
}

// Suspender is an optional interface for renderers that want to release
// transient resources while no component displays them.
//
// Suspend is called once when the last reference is released. The renderer
// keeps its state; it may be resumed within the grace window.
type Suspender interface {
	Suspend()
}

// Resumer is an optional interface paired with Suspender.
//
// Resume is called on the first tick after a suspended instance is acquired
// again, before any message is delivered.
type Resumer interface {
	Resume(dev DeviceHandle)
}
