// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || darwin || windows

package native

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// bind resolves every plugin entry point through lookup and registers it on
// lib. It stops at the first missing symbol.
func (l *Library) bind(lookup func(name string) (uintptr, error)) error {
	for _, reg := range []struct {
		fptr any
		name string
	}{
		{&l.fns.create, symCreate},
		{&l.fns.message, symMessage},
		{&l.fns.render, symRender},
		{&l.fns.pixels, symPixels},
		{&l.fns.shutdown, symShutdown},
	} {
		sym, err := lookup(reg.name)
		if err != nil {
			return fmt.Errorf("native: %s: %w", reg.name, err)
		}
		purego.RegisterFunc(reg.fptr, sym)
	}
	return nil
}
