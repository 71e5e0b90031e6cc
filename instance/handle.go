// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// Handle is one counted reference to a managed instance.
//
// A Handle is held by exactly one embedding component for its mounted
// lifetime and is the capability that permits ticking the instance. Release
// must be called exactly once; a second call panics. A handle that becomes
// unreachable without being released is released by the garbage collector
// with a warning, so a lost handle cannot pin an engine forever.
type Handle struct {
	m        *Manager
	rec      *record
	released *atomic.Bool
	cleanup  runtime.Cleanup
}

// leakGuard is the cleanup argument of a Handle. It must not reference the
// Handle itself.
type leakGuard struct {
	m        *Manager
	rec      *record
	released *atomic.Bool
}

func newHandle(m *Manager, rec *record) *Handle {
	h := &Handle{m: m, rec: rec, released: new(atomic.Bool)}
	h.cleanup = runtime.AddCleanup(h, func(g leakGuard) {
		if g.released.CompareAndSwap(false, true) {
			viewhost.Logger().Warn("instance: handle garbage collected without Release", "identity", g.rec.identity)
			g.m.release(g.rec)
		}
	}, leakGuard{m: m, rec: rec, released: h.released})
	return h
}

// Identity returns the identity this handle refers to.
func (h *Handle) Identity() string {
	return h.rec.identity
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h.released.Load()
}

// Release drops this reference. When it was the last one the instance is
// suspended, not destroyed; it is shut down by EndFrame once its grace
// window expires.
//
// Release panics with an error wrapping ErrDoubleRelease if called twice.
func (h *Handle) Release() {
	if !h.released.CompareAndSwap(false, true) {
		panic(fmt.Errorf("%w: %q", ErrDoubleRelease, h.rec.identity))
	}
	h.cleanup.Stop()
	h.m.release(h.rec)
}

// Tick runs one render tick for the referenced instance. See Manager.Tick.
func (h *Handle) Tick(dev render.DeviceHandle, width, height int) (*render.Texture, error) {
	return h.TickContext(render.PaintContext{Device: dev, Scale: 1}, width, height)
}

// TickContext is like Tick with a full paint context.
func (h *Handle) TickContext(ctx render.PaintContext, width, height int) (*render.Texture, error) {
	if h.released.Load() {
		return nil, fmt.Errorf("%w: %q", ErrHandleReleased, h.rec.identity)
	}
	return h.m.tick(h.rec, ctx, width, height)
}

// Send enqueues msg for the referenced identity. See Manager.Send.
func (h *Handle) Send(msg message.Message) error {
	if h.released.Load() {
		return fmt.Errorf("%w: %q", ErrHandleReleased, h.rec.identity)
	}
	return h.m.Send(h.rec.identity, msg)
}

// State returns the lifecycle state of the referenced record.
func (h *Handle) State() State {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return h.rec.state
}

// Cached returns the last texture the instance produced, or nil.
// The texture is borrowed; do not retain it past the current frame.
func (h *Handle) Cached() *render.Texture {
	h.rec.mu.Lock()
	defer h.rec.mu.Unlock()
	return h.rec.cached
}
