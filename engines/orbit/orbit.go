// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package orbit

import (
	"errors"
	"fmt"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"github.com/tanema/gween"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// ErrClosed is returned by Render after Shutdown.
var ErrClosed = errors.New("orbit: engine is shut down")

// Engine renders the spinning cube. It implements render.Renderer,
// render.Suspender and render.Resumer.
type Engine struct {
	opts options

	dc   *gg.Context
	font *text.FontSource
	face text.Face
	tex  *render.Texture

	angle  float32
	speed  float32
	target float32
	tween  *gween.Tween
	paused bool

	started   bool
	lastFrame uint64
	closed    bool
}

var (
	_ render.Renderer  = (*Engine)(nil)
	_ render.Suspender = (*Engine)(nil)
	_ render.Resumer   = (*Engine)(nil)
)

// New creates an engine with default options. Its signature fits
// render.FactoryFor.
func New(dev render.DeviceHandle) (*Engine, error) {
	return NewWithOptions(dev)
}

// NewWithOptions creates an engine.
func NewWithOptions(dev render.DeviceHandle, opts ...Option) (*Engine, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &Engine{opts: o, speed: o.speed, target: o.speed}
	if o.hud {
		src, err := loadHUDFont(o.assetDir)
		if err != nil {
			return nil, err
		}
		e.font = src
	}
	viewhost.Logger().Debug("orbit: engine created", "gpu", render.IsGPU(dev), "hud", o.hud)
	return e, nil
}

// Factory returns a render.Factory building engines with opts.
func Factory(opts ...Option) render.Factory {
	return render.FactoryFor(func(dev render.DeviceHandle) (*Engine, error) {
		return NewWithOptions(dev, opts...)
	})
}

// Angle returns the current rotation in radians, in [0, 2π).
func (e *Engine) Angle() float32 { return e.angle }

// Speed returns the current, possibly mid-transition, rotation speed.
func (e *Engine) Speed() float32 { return e.speed }

// Paused reports whether rotation is paused.
func (e *Engine) Paused() bool { return e.paused }

// HandleMessage applies one message. Unknown messages are ignored.
func (e *Engine) HandleMessage(msg message.Message) {
	if sig, ok := message.AsSignal(msg); ok {
		e.handleSignal(sig)
		return
	}
	switch m := msg.Payload.(type) {
	case SetSpeed:
		e.setSpeed(m.RadiansPerSecond)
	case *SetSpeed:
		e.setSpeed(m.RadiansPerSecond)
	case ResetRotation, *ResetRotation:
		e.angle = 0
	default:
		viewhost.Logger().Debug("orbit: ignoring message", "msg", msg.String())
	}
}

func (e *Engine) handleSignal(sig message.SignalUpdate) {
	switch sig.Name {
	case SignalSpeed:
		switch v := sig.Value.(type) {
		case float32:
			e.setSpeed(v)
		case float64:
			e.setSpeed(float32(v))
		}
	case SignalPaused:
		if v, ok := sig.Value.(bool); ok {
			e.paused = v
		}
	}
}

func (e *Engine) setSpeed(v float32) {
	if v == e.target {
		return
	}
	e.target = v
	secs := float32(e.opts.easeFor.Seconds())
	if secs <= 0 {
		e.speed = v
		e.tween = nil
		return
	}
	e.tween = gween.New(e.speed, v, secs, e.opts.easing)
}

// advance moves engine time to the host frame.
func (e *Engine) advance(frame uint64) {
	if !e.started {
		e.started = true
		e.lastFrame = frame
		return
	}
	if frame <= e.lastFrame {
		return
	}
	dt := float32(frame-e.lastFrame) / e.opts.frameRate
	e.lastFrame = frame

	if e.tween != nil {
		v, done := e.tween.Update(dt)
		e.speed = v
		if done {
			e.speed = e.target
			e.tween = nil
		}
	}
	if !e.paused {
		a := math.Mod(float64(e.angle+e.speed*dt), 2*math.Pi)
		if a < 0 {
			a += 2 * math.Pi
		}
		e.angle = float32(a)
	}
}

// Render draws one frame at width x height.
func (e *Engine) Render(ctx render.PaintContext, width, height int) (*render.Texture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	if err := e.ensureContext(width, height, ctx.Scale); err != nil {
		return nil, err
	}
	e.advance(ctx.Frame)

	dc := e.dc
	dc.ClearWithColor(e.opts.background)

	pts := project(float64(e.angle), width, height)
	dc.SetColor(e.opts.stroke)
	dc.SetLineWidth(2 * ctx.Scale)
	for _, edge := range cubeEdges {
		a, b := pts[edge[0]], pts[edge[1]]
		dc.DrawLine(a[0], a[1], b[0], b[1])
	}
	if err := dc.Stroke(); err != nil {
		return nil, fmt.Errorf("orbit: stroke: %w", err)
	}

	if e.face != nil {
		dc.DrawString(e.hudText(), 10*ctx.Scale, 22*ctx.Scale)
	}

	if err := dc.FlushGPU(); err != nil {
		viewhost.Logger().Debug("orbit: FlushGPU failed, using CPU pixels", "err", err)
	}

	pm := dc.ResizeTarget()
	if e.tex == nil || len(e.tex.Pixels) == 0 || &e.tex.Pixels[0] != &pm.Data()[0] {
		tex, err := render.NewPixelTexture(pm.Width(), pm.Height(), pm.Data())
		if err != nil {
			return nil, err
		}
		e.tex = tex
	}
	return e.tex, nil
}

func (e *Engine) hudText() string {
	state := ""
	if e.paused {
		state = " (paused)"
	}
	return fmt.Sprintf("speed %.2f rad/s%s", e.speed, state)
}

func (e *Engine) ensureContext(width, height int, scale float64) error {
	if e.dc == nil {
		e.dc = gg.NewContext(width, height)
	} else if e.dc.Width() != width || e.dc.Height() != height {
		if err := e.dc.Resize(width, height); err != nil {
			return fmt.Errorf("orbit: resize: %w", err)
		}
		e.tex = nil
	}
	if e.font != nil && e.face == nil {
		e.face = e.font.Face(14 * scale)
		e.dc.SetFont(e.face)
	}
	return nil
}

// Suspend freezes engine time while no component shows the cube.
func (e *Engine) Suspend() {
	e.started = false
	viewhost.Logger().Debug("orbit: suspended", "angle", e.angle)
}

// Resume restarts engine time from the next rendered frame so the cube does
// not jump by the time spent suspended.
func (e *Engine) Resume(render.DeviceHandle) {
	e.started = false
}

// Shutdown releases the drawing context and font.
func (e *Engine) Shutdown() error {
	if e.closed {
		return nil
	}
	e.closed = true
	var errs []error
	if e.dc != nil {
		errs = append(errs, e.dc.Close())
		e.dc = nil
	}
	if e.font != nil {
		errs = append(errs, e.font.Close())
		e.font = nil
	}
	e.face = nil
	e.tex = nil
	return errors.Join(errs...)
}
