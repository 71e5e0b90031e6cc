// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

// Stats is a point-in-time view of one managed record.
type Stats struct {
	Identity string
	State    State

	// Refs is the number of live handles.
	Refs int

	// Pending is the number of queued, undelivered messages.
	Pending int

	// Dropped counts messages discarded because the queue was full.
	Dropped uint64

	// Constructions counts factory invocations that produced a renderer.
	Constructions int

	// Frames counts Render calls.
	Frames uint64

	// Generation is the generation of the cached texture.
	Generation uint64

	// HasTexture reports whether a texture is cached.
	HasTexture bool

	// RendererType names the renderer (or the pending factory's) type.
	RendererType string

	// IdleFrames is the number of frames since the last release, for
	// unreferenced records.
	IdleFrames uint64

	Grace Grace
}
