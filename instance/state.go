// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

// State is the lifecycle state of a managed record.
type State int32

const (
	// StateInitializing: the record exists but its renderer has not been
	// constructed, either because no device was supplied yet or because no
	// factory is known.
	StateInitializing State = iota

	// StateActive: renderer constructed, at least one reference held.
	StateActive

	// StateSuspended: renderer constructed, no references. Kept for reuse
	// until the grace window expires.
	StateSuspended

	// StateShuttingDown: Shutdown in progress. No acquires are accepted.
	StateShuttingDown

	// StateDestroyed: removed from the registry.
	StateDestroyed
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateInitializing:
		return "Initializing"
	case StateActive:
		return "Active"
	case StateSuspended:
		return "Suspended"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateDestroyed:
		return "Destroyed"
	default:
		return "Unknown"
	}
}

// Tickable reports whether Tick may be called in this state.
func (s State) Tickable() bool {
	return s == StateInitializing || s == StateActive
}

// Closing reports whether the record is being or has been torn down.
func (s State) Closing() bool {
	return s == StateShuttingDown || s == StateDestroyed
}
