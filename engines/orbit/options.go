// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package orbit

import (
	"time"

	"github.com/gogpu/gg"
	"github.com/tanema/gween/ease"
)

// Option configures an Engine.
type Option func(*options)

type options struct {
	frameRate  float32
	speed      float32
	easeFor    time.Duration
	easing     ease.TweenFunc
	background gg.RGBA
	stroke     gg.RGBA
	hud        bool
	assetDir   string
}

func defaultOptions() options {
	return options{
		frameRate:  60,
		speed:      1,
		easeFor:    300 * time.Millisecond,
		easing:     ease.OutCubic,
		background: gg.Hex("#34495e"),
		stroke:     gg.Hex("#ecf0f1"),
		hud:        true,
	}
}

// WithFrameRate sets how many host frames make one second of engine time.
func WithFrameRate(fps float32) Option {
	return func(o *options) {
		if fps > 0 {
			o.frameRate = fps
		}
	}
}

// WithInitialSpeed sets the rotation speed in radians per second.
func WithInitialSpeed(radiansPerSecond float32) Option {
	return func(o *options) {
		o.speed = radiansPerSecond
	}
}

// WithEasing sets the transition used for speed changes. A zero duration
// applies changes immediately.
func WithEasing(d time.Duration, fn ease.TweenFunc) Option {
	return func(o *options) {
		o.easeFor = d
		if fn != nil {
			o.easing = fn
		}
	}
}

// WithColors sets the background and line colors.
func WithColors(background, stroke gg.RGBA) Option {
	return func(o *options) {
		o.background = background
		o.stroke = stroke
	}
}

// WithHUD toggles the speed readout.
func WithHUD(enabled bool) Option {
	return func(o *options) {
		o.hud = enabled
	}
}

// WithAssetDir sets the directory engine assets are loaded from. A file
// named hud.ttf there replaces the built-in HUD font.
func WithAssetDir(dir string) Option {
	return func(o *options) {
		o.assetDir = dir
	}
}
