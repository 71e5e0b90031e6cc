// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"time"

	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// Grace is how long an unreferenced instance is kept for reuse.
//
// Both thresholds must be reached before the instance is shut down: Frames
// counts EndFrame calls since the last release, Duration is wall-clock time
// since the last release. A zero Duration disables the time threshold.
type Grace struct {
	Frames   int
	Duration time.Duration
}

// DefaultGrace keeps an unreferenced instance alive for two frames, enough
// to survive an unmount/remount pair issued by one UI update.
var DefaultGrace = Grace{Frames: 2}

// Option configures a Manager during creation.
//
// Example:
//
//	mgr := instance.NewManager(
//	    instance.WithQueueCapacity(64),
//	    instance.WithDefaultGrace(instance.Grace{Frames: 30, Duration: time.Second}),
//	)
type Option func(*config)

// config holds Manager configuration.
type config struct {
	capacity int
	grace    Grace
	now      func() time.Time
	dedupe   bool
}

// defaultConfig returns the default manager configuration.
func defaultConfig() config {
	return config{
		capacity: message.DefaultCapacity,
		grace:    DefaultGrace,
		now:      time.Now,
	}
}

// WithQueueCapacity bounds each instance's message queue. When the bound is
// exceeded the oldest message is dropped.
func WithQueueCapacity(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.capacity = n
		}
	}
}

// WithDefaultGrace sets the grace window used by identities that do not
// specify one at acquire time.
func WithDefaultGrace(g Grace) Option {
	return func(c *config) {
		c.grace = g
	}
}

// WithClock replaces time.Now, for deterministic tests of time-based grace.
func WithClock(now func() time.Time) Option {
	return func(c *config) {
		if now != nil {
			c.now = now
		}
	}
}

// WithFrameDedupe renders each instance at most once per frame and size.
// Further ticks in the same frame (a second viewport of the same identity)
// deliver pending messages and return the cached texture. Frames are
// delimited by EndFrame, so only hosts that call it should enable this.
func WithFrameDedupe() Option {
	return func(c *config) {
		c.dedupe = true
	}
}

// AcquireOption configures a single Acquire call.
type AcquireOption func(*acquireOptions)

type acquireOptions struct {
	factory  render.Factory
	grace    Grace
	hasGrace bool
}

// WithFactory supplies the renderer constructor. It is stored if the
// identity has no renderer and no factory yet, and invoked lazily at the
// first tick that supplies a device.
func WithFactory(f render.Factory) AcquireOption {
	return func(o *acquireOptions) {
		o.factory = f
	}
}

// WithGrace overrides the grace window for this identity.
func WithGrace(g Grace) AcquireOption {
	return func(o *acquireOptions) {
		o.grace = g
		o.hasGrace = true
	}
}
