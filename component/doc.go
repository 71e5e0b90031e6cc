// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package component adapts the instance registry to UI components.
//
// A Component is the piece a UI tree mounts: it acquires its identity on
// mount, ticks the engine and presents the texture while painting, and
// releases on unmount. Components mount and unmount far more often than an
// engine is created, and the grace window of the instance package absorbs
// that churn.
//
//	c := component.New(mgr, component.Props{
//	    Identity: "scene-a",
//	    Factory:  render.FactoryFor(orbit.New),
//	})
//	_ = c.Mount()
//	defer c.Unmount()
//
//	// in the host's paint callback
//	_ = c.Paint(device, w, h, presenter)
//
// A Component is safe for concurrent use, but a host normally drives it
// from its UI thread.
package component
