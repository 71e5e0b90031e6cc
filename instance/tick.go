// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"reflect"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// Tick runs one render tick for identity with the host's device.
//
// Valid for Initializing and Active records. A tick:
//  1. constructs the renderer if this is the first tick with a non-nil device,
//  2. delivers every message queued so far, in send order,
//  3. calls Render (at most once per frame and size with WithFrameDedupe),
//  4. caches and returns the new texture, or the previous one if Render
//     produced none. A superseded texture is destroyed by a later EndFrame.
//
// A nil device is not an error: the record stays Initializing and the cached
// texture (usually nil) is returned. If the renderer panics or Render returns
// an error, the instance is shut down and Tick returns ErrInstanceFailed; the
// host keeps running.
func (m *Manager) Tick(identity string, dev render.DeviceHandle, width, height int) (*render.Texture, error) {
	return m.TickContext(identity, render.PaintContext{Device: dev, Scale: 1}, width, height)
}

// TickContext is like Tick with a full paint context. The context's Frame is
// overwritten with the manager's frame number.
func (m *Manager) TickContext(identity string, ctx render.PaintContext, width, height int) (*render.Texture, error) {
	rec := m.lookup(identity)
	if rec == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownIdentity, identity)
	}
	return m.tick(rec, ctx, width, height)
}

func (m *Manager) tick(rec *record, ctx render.PaintContext, width, height int) (*render.Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", render.ErrInvalidDimensions, width, height)
	}

	rec.tickMu.Lock()
	defer rec.tickMu.Unlock()

	frame := m.Frame()
	ctx.Frame = frame
	if ctx.Scale <= 0 {
		ctx.Scale = 1
	}

	rec.mu.Lock()
	if !rec.state.Tickable() {
		state := rec.state
		rec.mu.Unlock()
		return nil, fmt.Errorf("%w: %q is %v", ErrNotTickable, rec.identity, state)
	}
	if ctx.Device == nil {
		cached := rec.cached
		rec.mu.Unlock()
		return cached, nil
	}
	r := rec.renderer
	factory := rec.factory
	resume := rec.resumePending
	rec.resumePending = false
	rec.mu.Unlock()

	if r == nil {
		if factory.IsZero() {
			viewhost.Logger().Debug("instance: no factory yet, staying Initializing", "identity", rec.identity)
			return nil, nil
		}
		var err error
		if r, err = m.construct(rec, factory, ctx.Device, frame); err != nil {
			return nil, m.fail(rec, err)
		}
		resume = false
	}

	msgs := rec.queue.Drain()
	if err := deliver(r, ctx.Device, resume, msgs); err != nil {
		return nil, m.fail(rec, err)
	}

	rec.mu.Lock()
	if rec.state != StateActive {
		cached := rec.cached
		rec.mu.Unlock()
		return cached, nil
	}
	if m.cfg.dedupe && rec.renderedFrame == frame+1 && rec.lastW == width && rec.lastH == height {
		cached := rec.cached
		rec.mu.Unlock()
		return cached, nil
	}
	rec.mu.Unlock()

	tex, err := renderSafe(r, ctx, width, height)
	if err != nil {
		return nil, m.fail(rec, err)
	}

	rec.mu.Lock()
	rec.frames++
	rec.renderedFrame = frame + 1
	rec.lastW, rec.lastH = width, height
	if tex != nil {
		if old := rec.cached; old != nil && !old.SameResource(tex) {
			// Another viewport may still composite it this frame.
			rec.retired = append(rec.retired, retiredTexture{tex: old, frame: frame})
		}
		rec.generation++
		tex.Generation = rec.generation
		rec.cached = tex
	}
	out := rec.cached
	rec.mu.Unlock()
	return out, nil
}

// construct invokes the factory and installs the renderer. The caller holds
// rec.tickMu.
func (m *Manager) construct(rec *record, factory render.Factory, dev render.DeviceHandle, frame uint64) (render.Renderer, error) {
	var r render.Renderer
	err := guard(func() error {
		var err error
		r, err = factory.New(dev)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("construct %s: %w", factory.TypeName(), err)
	}

	rec.mu.Lock()
	rec.renderer = r
	rec.rendererType = reflect.TypeOf(r)
	rec.constructions++
	switch {
	case rec.state != StateInitializing:
		// A teardown started while the factory ran. It is waiting for
		// tickMu and will shut the new renderer down.
	case rec.refs > 0:
		rec.state = StateActive
	default:
		// Constructed for a tick issued without a reference (for example
		// through Manager.Tick after every component unmounted).
		rec.state = StateSuspended
		rec.suspendPending = true
		rec.markIdleLocked(frame, m.cfg.now())
	}
	state := rec.state
	rec.mu.Unlock()

	viewhost.Logger().Info("instance: renderer constructed",
		"identity", rec.identity, "type", rec.rendererType.String(), "state", state.String(), "gpu", render.IsGPU(dev))
	return r, nil
}

// deliver resumes the renderer if owed and hands it every message in order.
func deliver(r render.Renderer, dev render.DeviceHandle, resume bool, msgs []message.Message) error {
	return guard(func() error {
		if resume {
			if rs, ok := r.(render.Resumer); ok {
				rs.Resume(dev)
			}
		}
		for _, msg := range msgs {
			r.HandleMessage(msg)
		}
		return nil
	})
}

func renderSafe(r render.Renderer, ctx render.PaintContext, width, height int) (*render.Texture, error) {
	var tex *render.Texture
	err := guard(func() error {
		var err error
		tex, err = r.Render(ctx, width, height)
		return err
	})
	return tex, err
}

// fail shuts down a record whose tick terminated unexpectedly. The caller
// holds rec.tickMu.
func (m *Manager) fail(rec *record, cause error) error {
	viewhost.Logger().Warn("instance: tick failed, shutting down", "identity", rec.identity, "err", cause)

	rec.mu.Lock()
	started := rec.beginShutdownLocked()
	rec.mu.Unlock()
	if started {
		if err := m.shutdownLocked(rec); err != nil {
			viewhost.Logger().Warn("instance: shutdown after failure", "identity", rec.identity, "err", err)
		}
	}
	return fmt.Errorf("%w: %q: %w", ErrInstanceFailed, rec.identity, cause)
}

// panicError carries a recovered panic value.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// guard runs fn and converts a panic into an error.
func guard(fn func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &panicError{value: v}
		}
	}()
	return fn()
}

func destroySafe(identity string, tex *render.Texture) {
	if err := guard(func() error { tex.Destroy(); return nil }); err != nil {
		viewhost.Logger().Warn("instance: texture destroy failed", "identity", identity, "err", err)
	}
}
