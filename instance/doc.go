// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package instance manages the lifetime of embedded engine instances.
//
// A [Manager] is a registry mapping an identity (a stable string chosen by the
// application) to one managed record. The record owns the engine's
// render.Renderer, a reference count, a lifecycle [State], a bounded message
// queue and the last texture the engine produced.
//
// # Lifecycle
//
//	Initializing --tick with device--> Active --last release--> Suspended
//	     ^                               ^                          |
//	     |                               +------acquire in grace----+
//	  acquire/send                                                   |
//	                                           grace expired (EndFrame)
//	                                                                 v
//	              Destroyed <--Shutdown returned-- ShuttingDown <----+
//
// Any state moves to ShuttingDown on [Manager.Teardown] or [Manager.Close].
//
// Releasing the last reference never destroys an engine directly. The record
// waits in Suspended for a grace window so that a component remounted by the
// UI framework (a panel swap, a re-keyed list) finds the same engine and the
// same last frame, with no re-initialization.
//
// # Driving frames
//
// The host calls Tick (usually through a Handle) for every mounted component
// in its paint pass, then [Manager.EndFrame] once per frame. EndFrame is where
// expired grace windows are processed, so engine shutdown always happens on
// the frame driver and never inside Release.
//
// # Thread Safety
//
// Manager is safe for concurrent use. Acquire, Release and Send are O(1) map
// operations and never wait for a tick. Calls into one renderer are
// serialized: Shutdown never overlaps Render or HandleMessage.
package instance
