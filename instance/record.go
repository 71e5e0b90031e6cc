// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// record is the managed state of one identity.
//
// Lock order: Manager.mu before record.mu. tickMu is taken before mu and is
// held for the whole of a tick, a suspend hook or a shutdown, which is what
// keeps renderer calls serialized.
type record struct {
	identity string
	queue    *message.Queue // created with the record, never replaced

	tickMu sync.Mutex

	mu           sync.Mutex
	state        State
	refs         int
	everAcquired bool
	grace        Grace

	factory      render.Factory
	renderer     render.Renderer
	rendererType reflect.Type

	idleFrame uint64
	idleSince time.Time

	suspendPending  bool // Suspend hook owed by the driver
	suspendNotified bool // Suspend ran; Resume owed on reacquire
	resumePending   bool

	cached        *render.Texture
	retired       []retiredTexture
	generation    uint64
	renderedFrame uint64 // frame+1 of the last Render call, 0 if none
	lastW, lastH  int

	constructions int
	frames        uint64
}

// retiredTexture is a superseded texture the host may still composite in
// the frame it was replaced in.
type retiredTexture struct {
	tex   *render.Texture
	frame uint64
}

func newRecord(identity string, capacity int, grace Grace) *record {
	return &record{
		identity: identity,
		queue:    message.NewQueue(capacity),
		grace:    grace,
	}
}

// compatible reports whether a renderer of type have can serve a caller
// that expects want.
func compatible(have, want reflect.Type) bool {
	switch {
	case have == want:
		return true
	case want.Kind() == reflect.Interface:
		return have.Implements(want)
	case have.Kind() == reflect.Interface:
		return want.Implements(have)
	default:
		return false
	}
}

// checkFactoryLocked returns ErrIdentityConflict when f builds a type that
// cannot share this identity. Untyped factories are always accepted.
func (r *record) checkFactoryLocked(f render.Factory) error {
	want := f.Type()
	if f.IsZero() || want == nil {
		return nil
	}
	have := r.rendererType
	if have == nil {
		have = r.factory.Type()
	}
	if have == nil || compatible(have, want) {
		return nil
	}
	return fmt.Errorf("%w: %q holds %v, factory builds %v", ErrIdentityConflict, r.identity, have, want)
}

// markIdleLocked records the moment the last reference went away.
func (r *record) markIdleLocked(frame uint64, now time.Time) {
	r.idleFrame = frame
	r.idleSince = now
}

// expiredLocked reports whether an unreferenced record outlived its grace
// window. Records that were never acquired hold messages for a future mount
// and do not expire.
func (r *record) expiredLocked(frame uint64, now time.Time) bool {
	if r.refs > 0 {
		return false
	}
	switch r.state {
	case StateSuspended:
	case StateInitializing:
		if !r.everAcquired {
			return false
		}
	default:
		return false
	}
	if frame-r.idleFrame < uint64(max(r.grace.Frames, 0)) {
		return false
	}
	if r.grace.Duration > 0 && now.Sub(r.idleSince) < r.grace.Duration {
		return false
	}
	return true
}

// takeRetiredLocked removes and returns the retired textures that were
// superseded before the frame that just ended.
func (r *record) takeRetiredLocked(frame uint64) []*render.Texture {
	var due []*render.Texture
	keep := r.retired[:0]
	for _, rt := range r.retired {
		if frame-rt.frame >= 2 {
			due = append(due, rt.tex)
		} else {
			keep = append(keep, rt)
		}
	}
	clear(r.retired[len(keep):])
	r.retired = keep
	return due
}

// beginShutdownLocked moves the record to ShuttingDown. It reports false if
// the record was already closing.
func (r *record) beginShutdownLocked() bool {
	if r.state.Closing() {
		return false
	}
	r.state = StateShuttingDown
	return true
}

func (r *record) statsLocked(frame uint64) Stats {
	s := Stats{
		Identity:      r.identity,
		State:         r.state,
		Refs:          r.refs,
		Pending:       r.queue.Len(),
		Dropped:       r.queue.Dropped(),
		Constructions: r.constructions,
		Frames:        r.frames,
		Generation:    r.generation,
		HasTexture:    r.cached != nil,
		Grace:         r.grace,
	}
	if r.rendererType != nil {
		s.RendererType = r.rendererType.String()
	} else if t := r.factory.Type(); t != nil {
		s.RendererType = t.String()
	}
	if r.refs == 0 && r.everAcquired {
		s.IdleFrames = frame - r.idleFrame
	}
	return s
}
