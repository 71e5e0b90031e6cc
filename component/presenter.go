// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package component

import "github.com/gogpu/viewhost/render"

// Presenter composites an engine texture into the host's paint surface.
//
// Present must not retain tex past the call; the record that produced it
// may destroy it on a later tick.
type Presenter interface {
	Present(tex *render.Texture, width, height int) error
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(tex *render.Texture, width, height int) error

// Present calls f.
func (f PresenterFunc) Present(tex *render.Texture, width, height int) error {
	return f(tex, width, height)
}
