// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package ebitenpaint composites viewhost textures onto Ebitengine images.
//
// Native textures holding an *ebiten.Image are drawn directly. CPU textures
// are written into a staging image with WritePixels once per frame
// generation. The texture is stretched to the paint area when sizes differ.
//
//	func (g *Game) Draw(screen *ebiten.Image) {
//	    g.presenter.Bind(screen)
//	    _ = g.comp.Paint(render.NullDeviceHandle{}, w, h, g.presenter)
//	}
//
// Presenter is NOT safe for concurrent use; call it from Draw.
package ebitenpaint
