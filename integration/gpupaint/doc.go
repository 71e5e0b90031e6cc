// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gpupaint composites viewhost textures through gogpu's
// gpucontext.TextureDrawer.
//
// GPU-resident textures (Native implementing gpucontext.Texture) are drawn
// directly. CPU textures are uploaded through the drawer's TextureCreator
// once per new frame generation and reused until the engine produces the
// next one.
//
// # Usage
//
//	p := gpupaint.New()
//	defer p.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    p.Bind(dc.AsTextureDrawer())
//	    _ = comp.Paint(app.GPUContextProvider(), w, h, p)
//	    mgr.EndFrame()
//	})
//
// # Thread Safety
//
// Presenter is NOT safe for concurrent use. Use it from the paint callback.
package gpupaint
