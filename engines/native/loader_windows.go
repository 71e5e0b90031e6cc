// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build windows

package native

import (
	"fmt"
	"path/filepath"
	"syscall"
)

// Open loads the plugin DLL at path and resolves its symbols.
func Open(path string) (*Library, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	handle, err := syscall.LoadLibrary(absPath)
	if err != nil {
		return nil, fmt.Errorf("native: load %s: %w", absPath, err)
	}

	lib := &Library{
		path:  absPath,
		close: func() error { return syscall.FreeLibrary(handle) },
	}
	if err := lib.bind(func(name string) (uintptr, error) { return syscall.GetProcAddress(handle, name) }); err != nil {
		_ = syscall.FreeLibrary(handle)
		return nil, err
	}
	return lib, nil
}

// LibraryName returns the platform file name for a plugin called name.
func LibraryName(name string) string {
	return name + ".dll"
}
