// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package orbit is a reference engine: a spinning wireframe cube drawn with
// gg into a CPU texture, driven entirely by messages.
//
// The engine understands SetSpeed, ResetRotation and the "speed" and
// "paused" property signals. Speed changes are eased over a short
// transition. Time advances with the host frame counter, so two viewports
// of the same instance see identical frames.
//
//	factory := orbit.Factory(orbit.WithFrameRate(60))
//	h, _ := mgr.Acquire("cube-scene", instance.WithFactory(factory))
//	_ = h.Send(message.Of(orbit.SetSpeed{RadiansPerSecond: 2}))
package orbit
