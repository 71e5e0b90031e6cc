// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package render

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrNilFactory is returned when a zero Factory is invoked.
var ErrNilFactory = errors.New("render: nil factory")

// Factory constructs a Renderer once a device is available.
//
// A Factory remembers the concrete renderer type it produces so that two
// components asking for the same identity with incompatible engines are
// detected at acquire time rather than at the first tick.
type Factory struct {
	typ   reflect.Type
	newFn func(DeviceHandle) (Renderer, error)
}

// FactoryFor creates a typed Factory from a constructor.
//
//	factory := render.FactoryFor(orbit.New)
func FactoryFor[R Renderer](fn func(DeviceHandle) (R, error)) Factory {
	if fn == nil {
		return Factory{}
	}
	return Factory{
		typ: reflect.TypeFor[R](),
		newFn: func(dev DeviceHandle) (Renderer, error) {
			r, err := fn(dev)
			if err != nil {
				return nil, err
			}
			return r, nil
		},
	}
}

// NewFactory creates an untyped Factory. The renderer type is learned at
// construction, so conflicts are only detected once the engine exists.
func NewFactory(fn func(DeviceHandle) (Renderer, error)) Factory {
	return Factory{newFn: fn}
}

// IsZero reports whether the factory has no constructor.
func (f Factory) IsZero() bool {
	return f.newFn == nil
}

// Type returns the renderer type the factory produces, or nil if unknown.
func (f Factory) Type() reflect.Type {
	return f.typ
}

// New invokes the constructor.
func (f Factory) New(dev DeviceHandle) (Renderer, error) {
	if f.newFn == nil {
		return nil, ErrNilFactory
	}
	r, err := f.newFn(dev)
	if err != nil {
		return nil, err
	}
	if rv := reflect.ValueOf(r); r == nil || (rv.Kind() == reflect.Pointer && rv.IsNil()) {
		return nil, fmt.Errorf("render: factory for %v returned a nil renderer", f.typ)
	}
	return r, nil
}

// TypeName returns a printable name of the produced type.
func (f Factory) TypeName() string {
	if f.typ == nil {
		return "unknown"
	}
	return f.typ.String()
}
