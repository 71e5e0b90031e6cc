// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/message"
)

// Manager is the process-wide registry of embedded engine instances.
//
// A Manager is usually created once by the host application and shared by
// every embedding component. The zero value is not usable; call NewManager.
type Manager struct {
	cfg   config
	frame atomic.Uint64

	mu      sync.Mutex
	records map[string]*record
	closed  bool
}

// NewManager creates an empty registry.
func NewManager(opts ...Option) *Manager {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{
		cfg:     cfg,
		records: make(map[string]*record),
	}
}

// Frame returns the current frame number (the number of EndFrame calls).
func (m *Manager) Frame() uint64 {
	return m.frame.Load()
}

// lockRecord looks up or creates the record for identity and returns it
// locked. The first caller for a new identity creates the record; racing
// callers find it and proceed as on any existing record.
func (m *Manager) lockRecord(identity string) (*record, bool, error) {
	if identity == "" {
		return nil, false, ErrEmptyIdentity
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil, false, ErrClosed
	}
	rec, ok := m.records[identity]
	if !ok {
		rec = newRecord(identity, m.cfg.capacity, m.cfg.grace)
		m.records[identity] = rec
	}
	rec.mu.Lock()
	m.mu.Unlock()
	return rec, !ok, nil
}

// lookup returns the live record for identity, or nil.
func (m *Manager) lookup(identity string) *record {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.records[identity]
}

// remove deletes rec from the registry if it is still the record for its
// identity.
func (m *Manager) remove(rec *record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[rec.identity] == rec {
		delete(m.records, rec.identity)
	}
}

func (m *Manager) all() []*record {
	m.mu.Lock()
	defer m.mu.Unlock()
	recs := make([]*record, 0, len(m.records))
	for _, rec := range m.records {
		recs = append(recs, rec)
	}
	return recs
}

// Acquire returns a reference to the instance named identity, creating the
// record if needed.
//
// The factory supplied with WithFactory is stored when the identity has no
// renderer or factory yet; it runs at the first tick that supplies a device.
// Acquiring a Suspended instance reactivates it with its renderer and cached
// texture unchanged.
//
// The returned Handle must be released exactly once.
func (m *Manager) Acquire(identity string, opts ...AcquireOption) (*Handle, error) {
	var ao acquireOptions
	for _, opt := range opts {
		opt(&ao)
	}

	rec, created, err := m.lockRecord(identity)
	if err != nil {
		return nil, err
	}
	defer rec.mu.Unlock()

	if rec.state.Closing() {
		return nil, fmt.Errorf("%w: %q", ErrShuttingDown, identity)
	}
	if err := rec.checkFactoryLocked(ao.factory); err != nil {
		viewhost.Logger().Warn("instance: acquire rejected", "identity", identity, "err", err)
		return nil, err
	}
	if rec.renderer == nil && rec.factory.IsZero() && !ao.factory.IsZero() {
		rec.factory = ao.factory
	}
	if ao.hasGrace {
		rec.grace = ao.grace
	}

	rec.refs++
	rec.everAcquired = true
	if rec.state == StateSuspended {
		rec.state = StateActive
		rec.suspendPending = false
		if rec.suspendNotified {
			rec.suspendNotified = false
			rec.resumePending = true
		}
		viewhost.Logger().Info("instance: reactivated", "identity", identity, "idle_frames", m.Frame()-rec.idleFrame)
	} else if created {
		viewhost.Logger().Debug("instance: record created", "identity", identity, "factory", ao.factory.TypeName())
	}

	return newHandle(m, rec), nil
}

// release drops one reference. Called only by Handle.Release.
func (m *Manager) release(rec *record) {
	rec.mu.Lock()
	defer rec.mu.Unlock()

	if rec.refs <= 0 {
		viewhost.Logger().Error("instance: refcount underflow", "identity", rec.identity)
		return
	}
	rec.refs--
	if rec.refs > 0 {
		return
	}

	rec.markIdleLocked(m.Frame(), m.cfg.now())
	if rec.state == StateActive {
		rec.state = StateSuspended
		rec.suspendPending = true
		rec.resumePending = false
		viewhost.Logger().Info("instance: suspended", "identity", rec.identity, "grace_frames", rec.grace.Frames, "grace", rec.grace.Duration)
	}
}

// With acquires identity, calls fn with the handle and releases the handle
// on every exit path, including a panic in fn.
func (m *Manager) With(identity string, fn func(*Handle) error, opts ...AcquireOption) error {
	h, err := m.Acquire(identity, opts...)
	if err != nil {
		return err
	}
	defer h.Release()
	return fn(h)
}

// Send enqueues msg for identity without blocking.
//
// The record is created in Initializing state if it does not exist, so
// messages sent before any component mounts, or before the renderer is
// constructed, are delivered in order before its first Render. When the
// queue is full the oldest message is dropped.
func (m *Manager) Send(identity string, msg message.Message) error {
	rec, created, err := m.lockRecord(identity)
	if err != nil {
		return err
	}
	defer rec.mu.Unlock()

	if rec.state.Closing() {
		return fmt.Errorf("%w: %q", ErrShuttingDown, identity)
	}
	if created {
		viewhost.Logger().Debug("instance: record created by send", "identity", identity)
	}
	if !rec.queue.Push(msg) {
		viewhost.Logger().Debug("instance: message queue full, oldest dropped",
			"identity", identity, "capacity", rec.queue.Cap(), "dropped", rec.queue.Dropped())
	}
	return nil
}

// State returns the lifecycle state of identity. Unknown identities report
// StateDestroyed and false.
func (m *Manager) State(identity string) (State, bool) {
	rec := m.lookup(identity)
	if rec == nil {
		return StateDestroyed, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.state, true
}

// Stats returns a snapshot of identity's record.
func (m *Manager) Stats(identity string) (Stats, bool) {
	rec := m.lookup(identity)
	if rec == nil {
		return Stats{}, false
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.statsLocked(m.Frame()), true
}

// Snapshot returns stats for every live record, sorted by identity.
func (m *Manager) Snapshot() []Stats {
	frame := m.Frame()
	recs := m.all()
	out := make([]Stats, 0, len(recs))
	for _, rec := range recs {
		rec.mu.Lock()
		out = append(out, rec.statsLocked(frame))
		rec.mu.Unlock()
	}
	slices.SortFunc(out, func(a, b Stats) int {
		return strings.Compare(a.Identity, b.Identity)
	})
	return out
}

// Len returns the number of live records.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.records)
}
