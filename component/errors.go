// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package component

import "errors"

var (
	// ErrAlreadyMounted is returned by Mount on a mounted component.
	ErrAlreadyMounted = errors.New("component: already mounted")

	// ErrNotMounted is returned by Unmount and Paint on an unmounted component.
	ErrNotMounted = errors.New("component: not mounted")
)
