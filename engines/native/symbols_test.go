// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

//go:build linux || darwin || windows

package native

import (
	"errors"
	"runtime"
	"strings"
	"testing"
)

func TestBindStopsAtMissingSymbol(t *testing.T) {
	errNotFound := errors.New("procedure not found")
	var asked []string
	lib := &Library{}
	err := lib.bind(func(name string) (uintptr, error) {
		asked = append(asked, name)
		return 0, errNotFound
	})
	if !errors.Is(err, errNotFound) {
		t.Fatalf("bind error = %v, want %v", err, errNotFound)
	}
	if !strings.Contains(err.Error(), symCreate) {
		t.Errorf("bind error = %v, want the symbol name", err)
	}
	if len(asked) != 1 || asked[0] != symCreate {
		t.Errorf("looked up %v, want only %s", asked, symCreate)
	}
	if lib.fns.create != nil {
		t.Error("create registered despite lookup failure")
	}
}

func TestLibraryNameForPlatform(t *testing.T) {
	want := map[string]string{
		"linux":   "libviewhost.so",
		"darwin":  "libviewhost.dylib",
		"windows": "viewhost.dll",
	}[runtime.GOOS]
	if got := LibraryName("viewhost"); got != want {
		t.Errorf("LibraryName = %q, want %q", got, want)
	}
}
