// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import "errors"

// Errors returned by Manager operations.
var (
	// ErrIdentityConflict is returned by Acquire when the supplied factory
	// builds a renderer type incompatible with the one the identity holds.
	// This is a caller contract violation, fatal to that acquire only.
	ErrIdentityConflict = errors.New("instance: identity conflict")

	// ErrEmptyIdentity is returned when an empty identity is used.
	ErrEmptyIdentity = errors.New("instance: empty identity")

	// ErrUnknownIdentity is returned when no record exists for an identity.
	ErrUnknownIdentity = errors.New("instance: unknown identity")

	// ErrShuttingDown is returned when an identity is being torn down and
	// accepts no new references or messages.
	ErrShuttingDown = errors.New("instance: shutting down")

	// ErrNotTickable is returned by Tick for records that are not
	// Initializing or Active.
	ErrNotTickable = errors.New("instance: not tickable")

	// ErrInstanceFailed is returned by Tick when the tick terminated
	// unexpectedly. The instance has been shut down.
	ErrInstanceFailed = errors.New("instance: tick failed")

	// ErrHandleReleased is returned when a released handle is used.
	ErrHandleReleased = errors.New("instance: handle released")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("instance: manager closed")

	// ErrDoubleRelease is the panic value (wrapped) raised when a handle is
	// released twice.
	ErrDoubleRelease = errors.New("instance: handle released twice")
)
