// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package component

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/instance"
	"github.com/gogpu/viewhost/render"
)

// Props configure a Component.
type Props struct {
	// Identity names the engine instance. Components with the same identity
	// share one engine. Empty means a fresh identity private to this
	// component.
	Identity string

	// Factory builds the engine on first tick.
	Factory render.Factory

	// Grace overrides the manager's grace window for this identity.
	Grace *instance.Grace

	// Scale is the device pixel ratio passed to the engine. Zero means 1.
	Scale float64
}

// Component mounts an engine identity into a UI tree.
type Component struct {
	m *instance.Manager

	mu     sync.Mutex
	props  Props
	handle *instance.Handle
}

// New returns an unmounted component.
func New(m *instance.Manager, props Props) *Component {
	if props.Identity == "" {
		props.Identity = uuid.NewString()
	}
	return &Component{m: m, props: props}
}

// Identity returns the engine identity this component shows.
func (c *Component) Identity() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.props.Identity
}

// Mounted reports whether the component holds a reference.
func (c *Component) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.handle != nil
}

// Mount acquires the component's identity.
func (c *Component) Mount() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mountLocked()
}

// OnMount is the host callback form of Mount. A non-empty identity or a
// non-zero factory replaces the corresponding prop first.
func (c *Component) OnMount(identity string, factory render.Factory) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.handle != nil {
		return fmt.Errorf("%w: %q", ErrAlreadyMounted, c.props.Identity)
	}
	if identity != "" {
		c.props.Identity = identity
	}
	if !factory.IsZero() {
		c.props.Factory = factory
	}
	return c.mountLocked()
}

func (c *Component) mountLocked() error {
	if c.handle != nil {
		return fmt.Errorf("%w: %q", ErrAlreadyMounted, c.props.Identity)
	}
	opts := []instance.AcquireOption{instance.WithFactory(c.props.Factory)}
	if c.props.Grace != nil {
		opts = append(opts, instance.WithGrace(*c.props.Grace))
	}
	h, err := c.m.Acquire(c.props.Identity, opts...)
	if err != nil {
		return err
	}
	c.handle = h
	viewhost.Logger().Debug("component: mounted", "identity", c.props.Identity)
	return nil
}

// Unmount releases the component's reference. The handle is dropped, so a
// second Unmount returns ErrNotMounted and leaves the refcount alone.
func (c *Component) Unmount() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unmountLocked()
}

// OnUnmount is the host callback form of Unmount.
func (c *Component) OnUnmount(identity string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if identity != "" && identity != c.props.Identity {
		return fmt.Errorf("%w: %q", ErrNotMounted, identity)
	}
	return c.unmountLocked()
}

func (c *Component) unmountLocked() error {
	h := c.handle
	if h == nil {
		return fmt.Errorf("%w: %q", ErrNotMounted, c.props.Identity)
	}
	c.handle = nil
	h.Release()
	viewhost.Logger().Debug("component: unmounted", "identity", c.props.Identity)
	return nil
}

// MountScoped mounts, runs fn and unmounts on every exit path.
func (c *Component) MountScoped(fn func(*Component) error) error {
	if err := c.Mount(); err != nil {
		return err
	}
	defer func() { _ = c.Unmount() }()
	return fn(c)
}

// Paint ticks the engine and hands the resulting texture to p.
//
// A nil texture (no device yet, or no frame produced so far) is an empty
// paint and returns nil without calling p.
func (c *Component) Paint(dev render.DeviceHandle, width, height int, p Presenter) error {
	c.mu.Lock()
	h := c.handle
	scale := c.props.Scale
	id := c.props.Identity
	c.mu.Unlock()
	if h == nil {
		return fmt.Errorf("%w: %q", ErrNotMounted, id)
	}

	tex, err := h.TickContext(render.PaintContext{Device: dev, Scale: scale}, width, height)
	if err != nil {
		return err
	}
	if tex == nil || p == nil {
		return nil
	}
	return p.Present(tex, width, height)
}

// Sender returns a Sender for the component's identity. It stays valid
// across remounts.
func (c *Component) Sender() Sender {
	return NewSender(c.m, c.Identity())
}

// State reports the lifecycle state of the component's instance.
func (c *Component) State() instance.State {
	c.mu.Lock()
	h := c.handle
	id := c.props.Identity
	c.mu.Unlock()
	if h != nil {
		return h.State()
	}
	s, _ := c.m.State(id)
	return s
}
