// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gpupaint

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/component"
	"github.com/gogpu/viewhost/render"
)

// Common errors returned by Presenter operations.
var (
	// ErrClosed is returned when Present is called on a closed presenter.
	ErrClosed = errors.New("gpupaint: presenter is closed")

	// ErrNoDrawer is returned when Present is called before Bind.
	ErrNoDrawer = errors.New("gpupaint: no TextureDrawer bound")

	// ErrInvalidRenderer is returned when the drawer has no TextureCreator.
	ErrInvalidRenderer = errors.New("gpupaint: drawer must provide a gpucontext.TextureCreator")

	// ErrUnsupportedTexture is returned for native textures this drawer
	// cannot draw.
	ErrUnsupportedTexture = errors.New("gpupaint: native texture is not a gpucontext.Texture")
)

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// Presenter implements component.Presenter for gogpu hosts.
type Presenter struct {
	dc   gpucontext.TextureDrawer
	x, y float32

	uploaded gpucontext.Texture // GPU copy of the last CPU frame
	src      frameKey           // frame uploaded last
	old      gpucontext.Texture // replaced upload awaiting destruction
	scratch  []byte

	uploads int
	closed  bool
}

var _ component.Presenter = (*Presenter)(nil)

// frameKey identifies an uploaded frame without holding on to its texture,
// whose pixels belong to the instance once Present returns.
type frameKey struct {
	gen           uint64
	width, height int
}

func keyOf(tex *render.Texture) frameKey {
	return frameKey{gen: tex.Generation, width: tex.Width, height: tex.Height}
}

// New returns a presenter with no drawer bound.
func New() *Presenter {
	return &Presenter{}
}

// Bind sets the drawer for the following Present calls.
// gogpu hands out a fresh draw context per frame, so call Bind every frame.
func (p *Presenter) Bind(dc gpucontext.TextureDrawer) {
	p.dc = dc
}

// SetPosition sets the top-left corner the texture is drawn at.
func (p *Presenter) SetPosition(x, y float32) {
	p.x, p.y = x, y
}

// Uploads returns how many CPU frames have been uploaded so far.
func (p *Presenter) Uploads() int {
	return p.uploads
}

// Present draws tex at the configured position. The width and height of the
// paint area are informational; gogpu draws textures at their native size.
func (p *Presenter) Present(tex *render.Texture, width, height int) error {
	if p.closed {
		return ErrClosed
	}
	if tex == nil {
		return nil
	}
	if p.dc == nil {
		return ErrNoDrawer
	}

	if tex.Native != nil {
		gpuTex, ok := tex.Native.(gpucontext.Texture)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnsupportedTexture, tex.Native)
		}
		return p.dc.DrawTexture(gpuTex, p.x, p.y)
	}

	gpuTex, err := p.upload(tex)
	if err != nil {
		return err
	}
	return p.dc.DrawTexture(gpuTex, p.x, p.y)
}

// upload returns a GPU texture holding tex's pixels, reusing the previous
// upload when tex is the same frame. Generation 0 marks a texture that never
// went through a manager and is always uploaded.
func (p *Presenter) upload(tex *render.Texture) (gpucontext.Texture, error) {
	if p.uploaded != nil && tex.Generation != 0 && p.src == keyOf(tex) {
		return p.uploaded, nil
	}

	data, err := p.rgba(tex)
	if err != nil {
		return nil, err
	}

	if p.uploaded != nil && p.uploaded.Width() == tex.Width && p.uploaded.Height() == tex.Height {
		if updater, ok := p.uploaded.(gpucontext.TextureUpdater); ok {
			if err := updater.UpdateData(data); err != nil {
				return nil, fmt.Errorf("gpupaint: texture update failed: %w", err)
			}
			p.remember(tex)
			return p.uploaded, nil
		}
	}

	creator := p.dc.TextureCreator()
	if creator == nil {
		return nil, ErrInvalidRenderer
	}

	// The previous upload may still be referenced by in-flight command
	// buffers; destroy it only after the next creation, which waits for the
	// GPU.
	if p.uploaded != nil {
		p.destroyOld()
		p.old = p.uploaded
		p.uploaded = nil
	}

	gpuTex, err := creator.NewTextureFromRGBA(tex.Width, tex.Height, data)
	if err != nil {
		return nil, fmt.Errorf("gpupaint: NewTextureFromRGBA failed: %w", err)
	}
	if pt, ok := gpuTex.(interface{ SetPremultiplied(bool) }); ok {
		pt.SetPremultiplied(true)
	}
	p.destroyOld()

	p.uploaded = gpuTex
	p.remember(tex)
	viewhost.Logger().Debug("gpupaint: texture created", "width", tex.Width, "height", tex.Height)
	return gpuTex, nil
}

func (p *Presenter) remember(tex *render.Texture) {
	p.src = keyOf(tex)
	p.uploads++
}

// rgba returns tightly packed RGBA rows for tex, converting into the
// presenter's scratch buffer only when needed.
func (p *Presenter) rgba(tex *render.Texture) ([]byte, error) {
	if tex.Packed() {
		return tex.Pixels[:tex.Width*tex.Height*4], nil
	}
	data, err := tex.AppendRGBA(p.scratch[:0])
	if err != nil {
		return nil, err
	}
	p.scratch = data
	return data, nil
}

func (p *Presenter) destroyOld() {
	if p.old == nil {
		return
	}
	if d, ok := p.old.(textureDestroyer); ok {
		d.Destroy()
	}
	p.old = nil
}

// Close releases uploaded textures. Close is idempotent.
func (p *Presenter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	p.destroyOld()
	if p.uploaded != nil {
		if d, ok := p.uploaded.(textureDestroyer); ok {
			d.Destroy()
		}
		p.uploaded = nil
	}
	p.src = frameKey{}
	p.dc = nil
	return nil
}
