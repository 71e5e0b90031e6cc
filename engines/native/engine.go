// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

var (
	// ErrUnsupportedPlatform is returned by Open where purego cannot load
	// shared libraries.
	ErrUnsupportedPlatform = errors.New("native: plugins are not supported on this platform")

	// ErrPlugin wraps negative status codes returned by a plugin.
	ErrPlugin = errors.New("native: plugin call failed")

	// ErrClosed is returned by Render after Shutdown.
	ErrClosed = errors.New("native: engine is shut down")
)

// Symbol names every plugin must export.
const (
	symCreate   = "vh_engine_create"
	symMessage  = "vh_engine_message"
	symRender   = "vh_engine_render"
	symPixels   = "vh_engine_pixels"
	symShutdown = "vh_engine_shutdown"
)

// abi is the plugin's function table.
type abi struct {
	create   func(width, height int32) int32
	message  func(id int32, tag string, data []byte, n int32) int32
	render   func(id int32, width, height int32, frame uint64) int32
	pixels   func(id int32, dst []byte, n int32, stride int32) int32
	shutdown func(id int32)
}

// Library is a loaded plugin. It is safe to build several engines from one
// library; each gets its own plugin-side id.
type Library struct {
	path string
	fns  abi
	// close unloads the library; nil when nothing was loaded.
	close func() error
}

// Path returns the file the library was loaded from.
func (l *Library) Path() string {
	return l.path
}

// Close unloads the library. Engines built from it must be shut down first.
func (l *Library) Close() error {
	if l.close == nil {
		return nil
	}
	err := l.close()
	l.close = nil
	return err
}

// Factory returns a render.Factory building engines from l.
func (l *Library) Factory() render.Factory {
	return render.FactoryFor(l.NewEngine)
}

// NewEngine creates a plugin-side engine. The plugin sizes itself on the
// first Render, so it is created at 1x1.
func (l *Library) NewEngine(dev render.DeviceHandle) (*Engine, error) {
	id := l.fns.create(1, 1)
	if id < 0 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrPlugin, symCreate, id)
	}
	viewhost.Logger().Info("native: engine created", "lib", l.path, "id", id, "gpu", render.IsGPU(dev))
	return &Engine{lib: l, id: id}, nil
}

// Engine adapts one plugin-side engine to render.Renderer.
type Engine struct {
	lib *Library
	id  int32

	buf    []byte
	tex    *render.Texture
	closed bool
}

var _ render.Renderer = (*Engine)(nil)

// ID returns the plugin-side engine id.
func (e *Engine) ID() int32 {
	return e.id
}

// HandleMessage forwards msg to the plugin. Payloads that cannot be encoded
// are dropped with a warning.
func (e *Engine) HandleMessage(msg message.Message) {
	if e.closed {
		return
	}
	data, err := encodePayload(msg.Payload)
	if err != nil {
		viewhost.Logger().Warn("native: dropping message", "msg", msg.String(), "err", err)
		return
	}
	if rc := e.lib.fns.message(e.id, msg.Tag, data, int32(len(data))); rc < 0 {
		viewhost.Logger().Warn("native: plugin rejected message", "msg", msg.String(), "code", rc)
	}
}

func encodePayload(payload any) ([]byte, error) {
	switch v := payload.(type) {
	case nil:
		return nil, nil
	case []byte:
		return v, nil
	case string:
		return []byte(v), nil
	default:
		return json.Marshal(v)
	}
}

// Render asks the plugin for a frame and copies it out.
func (e *Engine) Render(ctx render.PaintContext, width, height int) (*render.Texture, error) {
	if e.closed {
		return nil, ErrClosed
	}
	rc := e.lib.fns.render(e.id, int32(width), int32(height), ctx.Frame)
	switch {
	case rc < 0:
		return nil, fmt.Errorf("%w: %s returned %d", ErrPlugin, symRender, rc)
	case rc == 0:
		return nil, nil
	}

	stride := width * 4
	need := stride * height
	if e.tex == nil || e.tex.Width != width || e.tex.Height != height {
		e.buf = make([]byte, need)
		e.tex = &render.Texture{
			Pixels: e.buf,
			Stride: stride,
			Width:  width,
			Height: height,
			Format: gputypes.TextureFormatBGRA8Unorm,
		}
	}
	n := e.lib.fns.pixels(e.id, e.buf, int32(need), int32(stride))
	if n < 0 {
		return nil, fmt.Errorf("%w: %s returned %d", ErrPlugin, symPixels, n)
	}
	if int(n) != need {
		return nil, fmt.Errorf("%w: %s wrote %d of %d bytes", ErrPlugin, symPixels, n, need)
	}
	return e.tex, nil
}

// Shutdown destroys the plugin-side engine.
func (e *Engine) Shutdown() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.lib.fns.shutdown(e.id)
	e.buf = nil
	e.tex = nil
	viewhost.Logger().Info("native: engine shut down", "lib", e.lib.path, "id", e.id)
	return nil
}
