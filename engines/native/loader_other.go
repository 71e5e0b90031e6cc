// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build !linux && !darwin && !windows

package native

// Open reports ErrUnsupportedPlatform.
func Open(path string) (*Library, error) {
	return nil, ErrUnsupportedPlatform
}

// LibraryName returns the platform file name for a plugin called name.
func LibraryName(name string) string {
	return "lib" + name + ".so"
}
