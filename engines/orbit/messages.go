// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package orbit

// SetSpeed changes the rotation speed. The change is eased.
type SetSpeed struct {
	RadiansPerSecond float32
}

// ResetRotation returns the cube to its initial orientation.
type ResetRotation struct{}

// Signal names understood by the engine.
const (
	SignalSpeed  = "speed"  // float32 or float64 radians per second
	SignalPaused = "paused" // bool
)
