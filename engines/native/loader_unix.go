// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || darwin

package native

import (
	"fmt"
	"path/filepath"

	"github.com/ebitengine/purego"
)

// Open loads the plugin at path and resolves its symbols.
func Open(path string) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	handle, err := purego.Dlopen(absPath, purego.RTLD_NOW|purego.RTLD_LOCAL)
	if err != nil {
		return nil, fmt.Errorf("native: load %s: %w", absPath, err)
	}

	lib := &Library{
		path:  absPath,
		close: func() error { return purego.Dlclose(handle) },
	}
	if err := lib.bind(func(name string) (uintptr, error) { return purego.Dlsym(handle, name) }); err != nil {
		_ = purego.Dlclose(handle)
		return nil, err
	}
	return lib, nil
}

// LibraryName returns the platform file name for a plugin called name.
func LibraryName(name string) string {
	return "lib" + name + libSuffix
}
