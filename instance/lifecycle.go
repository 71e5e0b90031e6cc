// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/render"
)

// EndFrame finishes the current frame.
//
// It advances the frame counter, runs owed Suspend hooks, destroys textures
// superseded before the frame that just ended and shuts down every
// unreferenced record whose grace window has expired. Call it once per
// host frame, after all ticks, from the frame driver. It returns the number
// of records destroyed.
func (m *Manager) EndFrame() int {
	frame := m.frame.Add(1)
	now := m.cfg.now()

	destroyed := 0
	for _, rec := range m.all() {
		rec.mu.Lock()
		expired := rec.expiredLocked(frame, now)
		if expired {
			rec.beginShutdownLocked()
		}
		suspend := !expired && rec.state == StateSuspended && rec.suspendPending
		var retired []*render.Texture
		if !expired {
			retired = rec.takeRetiredLocked(frame)
		}
		rec.mu.Unlock()

		for _, tex := range retired {
			destroySafe(rec.identity, tex)
		}

		switch {
		case expired:
			viewhost.Logger().Info("instance: grace window expired", "identity", rec.identity, "frame", frame)
			rec.tickMu.Lock()
			if err := m.shutdownLocked(rec); err != nil {
				viewhost.Logger().Warn("instance: shutdown error", "identity", rec.identity, "err", err)
			}
			rec.tickMu.Unlock()
			destroyed++
		case suspend:
			m.suspend(rec)
		}
	}
	return destroyed
}

// suspend runs the renderer's Suspend hook if the record is still suspended.
func (m *Manager) suspend(rec *record) {
	rec.tickMu.Lock()
	defer rec.tickMu.Unlock()

	rec.mu.Lock()
	if rec.state != StateSuspended || !rec.suspendPending {
		rec.mu.Unlock()
		return
	}
	rec.suspendPending = false
	rec.suspendNotified = true
	r := rec.renderer
	rec.mu.Unlock()

	s, ok := r.(render.Suspender)
	if !ok {
		return
	}
	if err := guard(func() error { s.Suspend(); return nil }); err != nil {
		_ = m.fail(rec, fmt.Errorf("suspend: %w", err))
	}
}

// Teardown forces identity into ShuttingDown regardless of its references
// and shuts it down. Outstanding handles stay valid for Release but can no
// longer tick. Teardown waits for an in-flight tick of the same record.
func (m *Manager) Teardown(identity string) error {
	rec := m.lookup(identity)
	if rec == nil {
		return fmt.Errorf("%w: %q", ErrUnknownIdentity, identity)
	}

	rec.mu.Lock()
	started := rec.beginShutdownLocked()
	rec.mu.Unlock()
	if !started {
		return nil
	}

	viewhost.Logger().Info("instance: teardown requested", "identity", identity)
	rec.tickMu.Lock()
	defer rec.tickMu.Unlock()
	return m.shutdownLocked(rec)
}

// Close tears down every instance, for example on host application exit.
//
// Shutdowns run concurrently, one goroutine per record. Close returns when
// all of them finished, or with ctx.Err() when ctx is done first; in that
// case the remaining shutdowns continue in the background and the caller is
// not blocked. After Close, Acquire and Send return ErrClosed.
func (m *Manager) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	var g errgroup.Group
	for _, rec := range m.all() {
		rec.mu.Lock()
		started := rec.beginShutdownLocked()
		rec.mu.Unlock()
		if !started {
			continue
		}
		g.Go(func() error {
			rec.tickMu.Lock()
			defer rec.tickMu.Unlock()
			return m.shutdownLocked(rec)
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case err := <-done:
		viewhost.Logger().Info("instance: manager closed")
		return err
	case <-ctx.Done():
		viewhost.Logger().Warn("instance: close deadline reached, shutdowns continue in background", "err", ctx.Err())
		return ctx.Err()
	}
}

// shutdownLocked completes ShuttingDown -> Destroyed. The record must already
// be ShuttingDown and the caller must hold rec.tickMu.
func (m *Manager) shutdownLocked(rec *record) error {
	rec.mu.Lock()
	r := rec.renderer
	cached := rec.cached
	retired := rec.retired
	rec.renderer = nil
	rec.cached = nil
	rec.retired = nil
	pending := rec.queue.Len()
	rec.mu.Unlock()

	var err error
	if r != nil {
		if gerr := guard(r.Shutdown); gerr != nil {
			err = fmt.Errorf("instance: shutdown %q: %w", rec.identity, gerr)
		}
	}
	for _, rt := range retired {
		destroySafe(rec.identity, rt.tex)
	}
	if cached != nil {
		destroySafe(rec.identity, cached)
	}

	rec.mu.Lock()
	rec.state = StateDestroyed
	rec.mu.Unlock()
	m.remove(rec)

	viewhost.Logger().Info("instance: destroyed", "identity", rec.identity, "constructed", r != nil, "undelivered", pending)
	return err
}
