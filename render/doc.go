// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package render defines the contract between viewhost and an embedded engine.
//
// An engine adapter implements [Renderer]. viewhost drives it: messages are
// delivered through HandleMessage, a frame is requested through Render once per
// tick, and Shutdown is called exactly once when the instance is torn down.
// Side effects are entirely internal to the engine; viewhost only guarantees
// call ordering and cardinality:
//
//	HandleMessage* -> Render      (every tick, messages first)
//	Shutdown                      (exactly once, never during a tick)
//
// # Key Principle
//
// The engine RECEIVES a GPU device from the host, it does NOT create one. A
// [Factory] is invoked lazily, the first time the host supplies a non-nil
// [DeviceHandle]. Until then the instance stays Initializing and messages queue.
//
// # Textures
//
// Render returns a [Texture]: either a GPU-resident native texture (for
// example a gpucontext.Texture or an *ebiten.Image) or CPU pixels that the
// paint bridge uploads. Returning nil means no new frame is ready and the
// previously cached texture is presented again.
//
// # Usage
//
//	type Sim struct{ ... }
//
//	func NewSim(dev render.DeviceHandle) (*Sim, error) { ... }
//
//	func (s *Sim) Render(ctx render.PaintContext, w, h int) (*render.Texture, error) { ... }
//	func (s *Sim) HandleMessage(msg message.Message)                                   { ... }
//	func (s *Sim) Shutdown() error                                                     { ... }
//
//	factory := render.FactoryFor(NewSim)
//
// # Thread Safety
//
// Renderers are never called concurrently. viewhost serializes every call for
// one instance, so implementations need no locking of their own.
package render
