// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package ebitenpaint

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/gogpu/viewhost/component"
	"github.com/gogpu/viewhost/render"
)

var (
	// ErrNoTarget is returned when Present is called before Bind.
	ErrNoTarget = errors.New("ebitenpaint: no target image bound")

	// ErrUnsupportedTexture is returned for native textures that are not
	// *ebiten.Image.
	ErrUnsupportedTexture = errors.New("ebitenpaint: native texture is not an *ebiten.Image")
)

// Target is the surface textures are composited onto. *ebiten.Image
// implements it.
type Target interface {
	DrawImage(img *ebiten.Image, opts *ebiten.DrawImageOptions)
}

// Presenter implements component.Presenter for Ebitengine games.
type Presenter struct {
	target Target
	x, y   float64
	filter ebiten.Filter

	staging *ebiten.Image
	src     frameKey // frame in staging
	pixels  []byte
	uploads int
}

var _ component.Presenter = (*Presenter)(nil)

// frameKey identifies the staged frame. The texture itself is not kept: the
// instance may destroy or reuse it after Present returns.
type frameKey struct {
	gen           uint64
	width, height int
}

// New returns a presenter drawing with linear filtering.
func New() *Presenter {
	return &Presenter{filter: ebiten.FilterLinear}
}

// Bind sets the image Present draws onto, normally the screen passed to
// ebiten.Game.Draw.
func (p *Presenter) Bind(target Target) {
	p.target = target
}

// SetPosition sets the top-left corner of the paint area.
func (p *Presenter) SetPosition(x, y float64) {
	p.x, p.y = x, y
}

// SetFilter sets the filter used when the texture is stretched.
func (p *Presenter) SetFilter(f ebiten.Filter) {
	p.filter = f
}

// Uploads returns how many CPU frames were written to the staging image.
func (p *Presenter) Uploads() int {
	return p.uploads
}

// Present draws tex into the paint area at the configured position.
func (p *Presenter) Present(tex *render.Texture, width, height int) error {
	if tex == nil {
		return nil
	}
	if p.target == nil {
		return ErrNoTarget
	}

	var img *ebiten.Image
	if tex.Native != nil {
		native, ok := tex.Native.(*ebiten.Image)
		if !ok {
			return fmt.Errorf("%w: %T", ErrUnsupportedTexture, tex.Native)
		}
		img = native
	} else {
		staged, err := p.stage(tex)
		if err != nil {
			return err
		}
		img = staged
	}

	p.target.DrawImage(img, p.drawOptions(tex, width, height))
	return nil
}

func (p *Presenter) drawOptions(tex *render.Texture, width, height int) *ebiten.DrawImageOptions {
	opts := &ebiten.DrawImageOptions{Filter: p.filter}
	if width > 0 && height > 0 && (width != tex.Width || height != tex.Height) {
		opts.GeoM.Scale(float64(width)/float64(tex.Width), float64(height)/float64(tex.Height))
	}
	opts.GeoM.Translate(p.x, p.y)
	return opts
}

// stage writes tex into the staging image, recreating it on resize.
// Textures with generation 0 did not come from a manager and are always
// written.
func (p *Presenter) stage(tex *render.Texture) (*ebiten.Image, error) {
	key := frameKey{gen: tex.Generation, width: tex.Width, height: tex.Height}
	if p.staging != nil && key.gen != 0 && p.src == key {
		return p.staging, nil
	}

	if p.staging != nil {
		if b := p.staging.Bounds(); b.Dx() != tex.Width || b.Dy() != tex.Height {
			p.staging.Deallocate()
			p.staging = nil
		}
	}
	if p.staging == nil {
		if tex.Width <= 0 || tex.Height <= 0 {
			return nil, fmt.Errorf("%w: width=%d, height=%d", render.ErrInvalidDimensions, tex.Width, tex.Height)
		}
		p.staging = ebiten.NewImage(tex.Width, tex.Height)
	}

	var data []byte
	if tex.Packed() {
		data = tex.Pixels[:tex.Width*tex.Height*4]
	} else {
		converted, err := tex.AppendRGBA(p.pixels[:0])
		if err != nil {
			return nil, err
		}
		p.pixels = converted
		data = converted
	}
	p.staging.WritePixels(data)

	p.src = key
	p.uploads++
	return p.staging, nil
}

// Close releases the staging image.
func (p *Presenter) Close() error {
	if p.staging != nil {
		p.staging.Deallocate()
		p.staging = nil
	}
	p.src = frameKey{}
	p.target = nil
	return nil
}
