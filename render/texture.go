// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"

	"github.com/gogpu/gputypes"
)

// ErrInvalidDimensions is returned when width or height is invalid.
var ErrInvalidDimensions = errors.New("render: invalid dimensions")

// textureDestroyer matches gogpu.Texture.Destroy.
type textureDestroyer interface {
	Destroy()
}

// textureDeallocator matches ebiten.Image.Deallocate.
type textureDeallocator interface {
	Deallocate()
}

// Texture is an opaque handle to one rendered frame.
//
// A texture is either GPU-resident (Native set) or CPU-resident (Pixels set).
// Paint bridges borrow it for a single composite pass and must not retain it.
type Texture struct {
	// Native is the GPU-resident texture, for example a gpucontext.Texture
	// or an *ebiten.Image. Nil for CPU textures.
	Native any

	// Pixels holds premultiplied RGBA8 data, row-major. Nil for GPU textures.
	Pixels []byte

	// Stride is the number of bytes per row of Pixels.
	Stride int

	// Width and Height are the frame size in pixels.
	Width  int
	Height int

	// Format is the pixel format of the frame.
	Format gputypes.TextureFormat

	// Generation is assigned by viewhost and increases with every new frame
	// an instance produces. Paint bridges use it to skip redundant uploads.
	Generation uint64
}

// NewPixelTexture wraps CPU pixel data in a Texture.
// The data is used directly without copying.
func NewPixelTexture(width, height int, pixels []byte) (*Texture, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width=%d, height=%d", ErrInvalidDimensions, width, height)
	}
	if len(pixels) < width*height*4 {
		return nil, fmt.Errorf("render: pixel buffer too small: %d bytes for %dx%d", len(pixels), width, height)
	}
	return &Texture{
		Pixels: pixels,
		Stride: width * 4,
		Width:  width,
		Height: height,
		Format: gputypes.TextureFormatRGBA8Unorm,
	}, nil
}

// NewNativeTexture wraps a GPU-resident texture.
func NewNativeTexture(native any, width, height int, format gputypes.TextureFormat) *Texture {
	return &Texture{
		Native: native,
		Width:  width,
		Height: height,
		Format: format,
	}
}

// IsCPU reports whether the texture carries CPU pixel data.
func (t *Texture) IsCPU() bool {
	return t != nil && t.Pixels != nil
}

// Size returns width and height as a convenience.
func (t *Texture) Size() (width, height int) {
	return t.Width, t.Height
}

// SameResource reports whether t and other refer to the same underlying
// frame storage.
func (t *Texture) SameResource(other *Texture) bool {
	if t == nil || other == nil {
		return t == other
	}
	if t == other {
		return true
	}
	if t.Native != nil || other.Native != nil {
		return t.Native == other.Native
	}
	return len(t.Pixels) > 0 && len(other.Pixels) > 0 && &t.Pixels[0] == &other.Pixels[0]
}

// Destroy releases the native texture if it supports destruction.
// CPU textures need no explicit release. Destroy is idempotent.
func (t *Texture) Destroy() {
	if t == nil || t.Native == nil {
		return
	}
	switch d := t.Native.(type) {
	case textureDestroyer:
		d.Destroy()
	case textureDeallocator:
		d.Deallocate()
	}
	t.Native = nil
}

// Packed reports whether Pixels already holds tightly packed RGBA rows that
// can be uploaded without conversion.
func (t *Texture) Packed() bool {
	if t == nil || t.Pixels == nil || isBGRA(t.Format) {
		return false
	}
	rowBytes := t.Width * 4
	return (t.Stride == 0 || t.Stride == rowBytes) && len(t.Pixels) >= rowBytes*t.Height
}

// AppendRGBA appends the frame to dst as tightly packed RGBA rows, dropping
// row padding and swizzling BGRA frames.
func (t *Texture) AppendRGBA(dst []byte) ([]byte, error) {
	rowBytes := t.Width * 4
	stride := t.Stride
	if stride == 0 {
		stride = rowBytes
	}
	if t.Width <= 0 || t.Height <= 0 || stride < rowBytes || len(t.Pixels) < stride*(t.Height-1)+rowBytes {
		return dst, fmt.Errorf("%w: %d bytes, stride %d for %dx%d",
			ErrInvalidDimensions, len(t.Pixels), stride, t.Width, t.Height)
	}

	bgra := isBGRA(t.Format)
	for y := range t.Height {
		row := t.Pixels[y*stride : y*stride+rowBytes]
		if !bgra {
			dst = append(dst, row...)
			continue
		}
		for i := 0; i < rowBytes; i += 4 {
			dst = append(dst, row[i+2], row[i+1], row[i], row[i+3])
		}
	}
	return dst, nil
}

func isBGRA(f gputypes.TextureFormat) bool {
	return f == gputypes.TextureFormatBGRA8Unorm || f == gputypes.TextureFormatBGRA8UnormSrgb
}
