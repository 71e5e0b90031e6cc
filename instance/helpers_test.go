// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// mockNative stands in for a GPU texture.
type mockNative struct {
	id        int
	destroyed atomic.Int32
}

func (n *mockNative) Destroy() { n.destroyed.Add(1) }

// mockRenderer records every call made by the driver.
type mockRenderer struct {
	id int

	mu       sync.Mutex
	calls    []string
	renders  int
	shutdown int

	// renderFn decides what Render returns; nil returns no frame.
	renderFn    func(n int) (*render.Texture, error)
	shutdownErr error
	block       chan struct{} // Shutdown waits on it when non-nil
}

func (r *mockRenderer) Render(ctx render.PaintContext, width, height int) (*render.Texture, error) {
	r.mu.Lock()
	r.renders++
	n := r.renders
	r.calls = append(r.calls, fmt.Sprintf("render:%dx%d", width, height))
	fn := r.renderFn
	r.mu.Unlock()
	if fn == nil {
		return nil, nil
	}
	return fn(n)
}

func (r *mockRenderer) HandleMessage(msg message.Message) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, fmt.Sprintf("msg:%v", msg.Payload))
}

func (r *mockRenderer) Shutdown() error {
	if r.block != nil {
		<-r.block
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.shutdown++
	r.calls = append(r.calls, "shutdown")
	return r.shutdownErr
}

func (r *mockRenderer) log() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return strings.Join(r.calls, " ")
}

func (r *mockRenderer) shutdowns() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.shutdown
}

// hookRenderer adds the optional Suspend/Resume hooks.
type hookRenderer struct {
	mockRenderer
}

func (r *hookRenderer) Suspend() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "suspend")
}

func (r *hookRenderer) Resume(render.DeviceHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, "resume")
}

// otherRenderer is a distinct renderer type for conflict tests.
type otherRenderer struct{ mockRenderer }

// mockFactory counts constructions and keeps every renderer it built.
type mockFactory struct {
	mu        sync.Mutex
	built     []*mockRenderer
	renderFn  func(n int) (*render.Texture, error)
	failNext  error
	panicNext bool
}

func (f *mockFactory) factory() render.Factory {
	return render.FactoryFor(func(render.DeviceHandle) (*mockRenderer, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		if f.panicNext {
			f.panicNext = false
			panic("factory exploded")
		}
		if err := f.failNext; err != nil {
			f.failNext = nil
			return nil, err
		}
		r := &mockRenderer{id: len(f.built) + 1, renderFn: f.renderFn}
		f.built = append(f.built, r)
		return r, nil
	})
}

func (f *mockFactory) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.built)
}

func (f *mockFactory) last() *mockRenderer {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.built) == 0 {
		return nil
	}
	return f.built[len(f.built)-1]
}

// pixelFrames returns a renderFn producing a fresh CPU texture per render.
func pixelFrames() func(n int) (*render.Texture, error) {
	return func(n int) (*render.Texture, error) {
		return render.NewPixelTexture(2, 2, make([]byte, 16))
	}
}

var errRender = errors.New("device lost")

var dev = render.NullDeviceHandle{}

// mustAcquire acquires or panics; used where failure is not under test.
func mustAcquire(m *Manager, identity string, opts ...AcquireOption) *Handle {
	h, err := m.Acquire(identity, opts...)
	if err != nil {
		panic(err)
	}
	return h
}
