// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package instance

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

func TestTickWithoutDeviceStaysInitializing(t *testing.T) {
	m := NewManager()
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	for range 3 {
		tex, err := h.Tick(nil, 16, 16)
		if err != nil {
			t.Fatalf("Tick(nil) error = %v", err)
		}
		if tex != nil {
			t.Errorf("Tick(nil) = %v, want nil", tex)
		}
		m.EndFrame()
	}
	if h.State() != StateInitializing {
		t.Errorf("State() = %v, want Initializing", h.State())
	}
	if f.count() != 0 {
		t.Errorf("constructions = %d, want 0", f.count())
	}

	if _, err := h.Tick(dev, 16, 16); err != nil {
		t.Fatal(err)
	}
	if h.State() != StateActive {
		t.Errorf("State() = %v, want Active after device tick", h.State())
	}
	if f.count() != 1 {
		t.Errorf("constructions = %d, want 1", f.count())
	}
}

func TestTickWithoutFactoryStaysInitializing(t *testing.T) {
	m := NewManager()
	h := mustAcquire(m, "a")
	defer h.Release()

	tex, err := h.Tick(dev, 4, 4)
	if err != nil || tex != nil {
		t.Errorf("Tick = %v, %v; want nil, nil", tex, err)
	}
	if h.State() != StateInitializing {
		t.Errorf("State() = %v, want Initializing", h.State())
	}

	var f mockFactory
	h2 := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h2.Release()
	if _, err := h.Tick(dev, 4, 4); err != nil {
		t.Fatal(err)
	}
	if f.count() != 1 || h.State() != StateActive {
		t.Errorf("late factory: constructions = %d, state = %v", f.count(), h.State())
	}
}

func TestTickInvalidDimensions(t *testing.T) {
	m := NewManager()
	h := mustAcquire(m, "a")
	defer h.Release()

	tests := []struct{ w, h int }{{0, 10}, {10, 0}, {-1, 5}}
	for _, tt := range tests {
		if _, err := h.Tick(dev, tt.w, tt.h); !errors.Is(err, render.ErrInvalidDimensions) {
			t.Errorf("Tick(%d, %d) error = %v, want ErrInvalidDimensions", tt.w, tt.h, err)
		}
	}
}

func TestTickUnknownIdentity(t *testing.T) {
	m := NewManager()
	if _, err := m.Tick("nope", dev, 4, 4); !errors.Is(err, ErrUnknownIdentity) {
		t.Errorf("Tick error = %v, want ErrUnknownIdentity", err)
	}
}

func TestMessagesDeliveredInOrderBeforeRender(t *testing.T) {
	m := NewManager()
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	for _, p := range []string{"one", "two", "three"} {
		if err := h.Send(message.New("t", p)); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := h.Tick(dev, 4, 4); err != nil {
		t.Fatal(err)
	}
	want := "msg:one msg:two msg:three render:4x4"
	if got := f.last().log(); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}

	m.EndFrame()
	if err := h.Send(message.New("t", "four")); err != nil {
		t.Fatal(err)
	}
	if _, err := h.Tick(dev, 4, 4); err != nil {
		t.Fatal(err)
	}
	want += " msg:four render:4x4"
	if got := f.last().log(); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
	if st, _ := m.Stats("a"); st.Pending != 0 {
		t.Errorf("Pending = %d, want 0 after tick", st.Pending)
	}
}

func TestQueueOverflowKeepsNewest(t *testing.T) {
	const capacity = 4
	m := NewManager(WithQueueCapacity(capacity))
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	for i := 1; i <= capacity+1; i++ {
		if err := h.Send(message.New("t", fmt.Sprintf("M%d", i))); err != nil {
			t.Fatal(err)
		}
	}
	st, _ := m.Stats("a")
	if st.Pending != capacity || st.Dropped != 1 {
		t.Errorf("Pending, Dropped = %d, %d; want %d, 1", st.Pending, st.Dropped, capacity)
	}

	if _, err := h.Tick(dev, 4, 4); err != nil {
		t.Fatal(err)
	}
	want := "msg:M2 msg:M3 msg:M4 msg:M5 render:4x4"
	if got := f.last().log(); got != want {
		t.Errorf("calls = %q, want %q", got, want)
	}
}

func TestFreshInstanceWithoutFrameReturnsNil(t *testing.T) {
	m := NewManager()
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	tex, err := h.Tick(dev, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if tex != nil {
		t.Errorf("Tick = %v, want nil before any frame", tex)
	}
	if h.Cached() != nil {
		t.Error("Cached() != nil before any frame")
	}
}

func TestNilRenderReusesCachedTexture(t *testing.T) {
	m := NewManager()
	f := mockFactory{renderFn: func(n int) (*render.Texture, error) {
		if n == 1 {
			return render.NewPixelTexture(2, 2, make([]byte, 16))
		}
		return nil, nil
	}}
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	first, err := h.Tick(dev, 2, 2)
	if err != nil || first == nil {
		t.Fatalf("first Tick = %v, %v", first, err)
	}
	if first.Generation != 1 {
		t.Errorf("Generation = %d, want 1", first.Generation)
	}

	for range 3 {
		m.EndFrame()
		got, err := h.Tick(dev, 2, 2)
		if err != nil {
			t.Fatal(err)
		}
		if got != first {
			t.Errorf("Tick = %p, want cached %p", got, first)
		}
	}
	if st, _ := m.Stats("a"); st.Frames != 4 || st.Generation != 1 {
		t.Errorf("Frames, Generation = %d, %d; want 4, 1", st.Frames, st.Generation)
	}
}

func TestTickRendersEveryTick(t *testing.T) {
	m := NewManager()
	f := mockFactory{renderFn: pixelFrames()}
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()
	h2 := mustAcquire(m, "a")
	defer h2.Release()

	for range 3 {
		if _, err := h.Tick(dev, 2, 2); err != nil {
			t.Fatal(err)
		}
	}
	if got := f.last().log(); got != "render:2x2 render:2x2 render:2x2" {
		t.Errorf("calls = %q, want a render per tick", got)
	}

	t1 := h.Cached()
	t2, err := h2.Tick(dev, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if t2 == t1 || t2.Generation != t1.Generation+1 {
		t.Errorf("second viewport got generation %d, want a fresh frame after %d", t2.Generation, t1.Generation)
	}
	if st, _ := m.Stats("a"); st.Frames != 4 {
		t.Errorf("Frames = %d, want 4", st.Frames)
	}
}

func TestTickFrameDedupe(t *testing.T) {
	m := NewManager(WithFrameDedupe())
	f := mockFactory{renderFn: pixelFrames()}
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()
	h2 := mustAcquire(m, "a")
	defer h2.Release()

	t1, err := h.Tick(dev, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	t2, err := h2.Tick(dev, 8, 8)
	if err != nil {
		t.Fatal(err)
	}
	if t1 != t2 {
		t.Error("second viewport in the same frame got a different texture")
	}
	if got := f.last().log(); got != "render:8x8" {
		t.Errorf("calls = %q, want a single render", got)
	}

	// A different size in the same frame renders again.
	if _, err := h2.Tick(dev, 16, 8); err != nil {
		t.Fatal(err)
	}
	if got := f.last().log(); got != "render:8x8 render:16x8" {
		t.Errorf("calls = %q", got)
	}
}

func TestSupersededTextureDestroyed(t *testing.T) {
	m := NewManager()
	var natives []*mockNative
	f := mockFactory{renderFn: nativeFrames(&natives)}
	h := mustAcquire(m, "a", WithFactory(f.factory()))

	for range 2 {
		if _, err := h.Tick(dev, 4, 4); err != nil {
			t.Fatal(err)
		}
		m.EndFrame()
	}
	if len(natives) != 2 {
		t.Fatalf("renders = %d, want 2", len(natives))
	}
	// Superseded in frame 1, it may be composited until frame 1 is submitted.
	if natives[0].destroyed.Load() != 0 {
		t.Fatal("superseded texture destroyed by the EndFrame of the frame that replaced it")
	}
	m.EndFrame()
	if natives[0].destroyed.Load() != 1 {
		t.Errorf("superseded texture destroyed %d times, want 1", natives[0].destroyed.Load())
	}
	if natives[1].destroyed.Load() != 0 {
		t.Error("current texture destroyed while still cached")
	}

	h.Release()
	if err := m.Teardown("a"); err != nil {
		t.Fatal(err)
	}
	if natives[1].destroyed.Load() != 1 {
		t.Errorf("cached texture destroyed %d times at teardown, want 1", natives[1].destroyed.Load())
	}
}

func nativeFrames(natives *[]*mockNative) func(int) (*render.Texture, error) {
	return func(n int) (*render.Texture, error) {
		nt := &mockNative{id: n}
		*natives = append(*natives, nt)
		return render.NewNativeTexture(nt, 4, 4, gputypes.TextureFormatBGRA8Unorm), nil
	}
}

func TestSupersededTextureOutlivesFrame(t *testing.T) {
	m := NewManager()
	var natives []*mockNative
	f := mockFactory{renderFn: nativeFrames(&natives)}
	a := mustAcquire(m, "a", WithFactory(f.factory()))
	defer a.Release()
	b := mustAcquire(m, "a")
	defer b.Release()

	texA, err := a.Tick(dev, 400, 300)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := b.Tick(dev, 200, 150); err != nil {
		t.Fatal(err)
	}
	if natives[0].destroyed.Load() != 0 || texA.Native == nil {
		t.Fatal("first viewport's texture destroyed before the frame was composited")
	}

	m.EndFrame()
	if natives[0].destroyed.Load() != 0 {
		t.Fatal("texture destroyed by the EndFrame of the frame that replaced it")
	}
	m.EndFrame()
	if got := natives[0].destroyed.Load(); got != 1 {
		t.Errorf("destroyed %d times one frame later, want 1", got)
	}
	if natives[1].destroyed.Load() != 0 {
		t.Error("cached texture destroyed")
	}
}

func TestTeardownDestroysRetiredTextures(t *testing.T) {
	m := NewManager()
	var natives []*mockNative
	f := mockFactory{renderFn: nativeFrames(&natives)}
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	defer h.Release()

	for range 2 {
		if _, err := h.Tick(dev, 4, 4); err != nil {
			t.Fatal(err)
		}
	}
	if err := m.Teardown("a"); err != nil {
		t.Fatal(err)
	}
	for i, nt := range natives {
		if got := nt.destroyed.Load(); got != 1 {
			t.Errorf("texture %d destroyed %d times, want 1", i, got)
		}
	}
}

func TestRendererFailureDestroysInstance(t *testing.T) {
	tests := []struct {
		name     string
		renderFn func(int) (*render.Texture, error)
		check    func(*testing.T, error)
	}{
		{
			name:     "error",
			renderFn: func(int) (*render.Texture, error) { return nil, errRender },
			check: func(t *testing.T, err error) {
				if !errors.Is(err, errRender) {
					t.Errorf("error = %v, want to wrap %v", err, errRender)
				}
			},
		},
		{
			name:     "panic",
			renderFn: func(int) (*render.Texture, error) { panic("renderer exploded") },
			check: func(t *testing.T, err error) {
				var pe *panicError
				if !errors.As(err, &pe) || pe.value != "renderer exploded" {
					t.Errorf("error = %v, want panicError", err)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewManager()
			f := mockFactory{renderFn: tt.renderFn}
			h := mustAcquire(m, "a", WithFactory(f.factory()))

			_, err := h.Tick(dev, 4, 4)
			if !errors.Is(err, ErrInstanceFailed) {
				t.Fatalf("Tick error = %v, want ErrInstanceFailed", err)
			}
			tt.check(t, err)

			if h.State() != StateDestroyed {
				t.Errorf("State() = %v, want Destroyed", h.State())
			}
			if f.last().shutdowns() != 1 {
				t.Errorf("Shutdown calls = %d, want 1", f.last().shutdowns())
			}
			if _, err := h.Tick(dev, 4, 4); !errors.Is(err, ErrNotTickable) {
				t.Errorf("Tick after failure error = %v, want ErrNotTickable", err)
			}
			h.Release()

			if m.Len() != 0 {
				t.Errorf("Len() = %d, want 0", m.Len())
			}
			// The identity is free for a fresh instance.
			h2 := mustAcquire(m, "a", WithFactory(f.factory()))
			defer h2.Release()
			if h2.State() != StateInitializing {
				t.Errorf("fresh State() = %v, want Initializing", h2.State())
			}
		})
	}
}

func TestFactoryFailure(t *testing.T) {
	for _, panics := range []bool{false, true} {
		t.Run(fmt.Sprintf("panic=%v", panics), func(t *testing.T) {
			m := NewManager()
			f := mockFactory{failNext: errRender, panicNext: panics}
			h := mustAcquire(m, "a", WithFactory(f.factory()))
			defer h.Release()

			if _, err := h.Tick(dev, 4, 4); !errors.Is(err, ErrInstanceFailed) {
				t.Fatalf("Tick error = %v, want ErrInstanceFailed", err)
			}
			if h.State() != StateDestroyed {
				t.Errorf("State() = %v, want Destroyed", h.State())
			}
			if m.Len() != 0 {
				t.Errorf("Len() = %d, want 0", m.Len())
			}
		})
	}
}

func TestConstructWithoutReferencesSuspends(t *testing.T) {
	m := NewManager()
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	h.Release()

	tex, err := m.Tick("a", dev, 4, 4)
	if err != nil || tex != nil {
		t.Fatalf("Tick = %v, %v; want nil, nil", tex, err)
	}
	if s, _ := m.State("a"); s != StateSuspended {
		t.Errorf("State = %v, want Suspended", s)
	}
	if got := f.last().log(); got != "" {
		t.Errorf("calls = %q, want no render while unreferenced", got)
	}
}

func TestTickSuspendedNotTickable(t *testing.T) {
	m := NewManager()
	var f mockFactory
	h := mustAcquire(m, "a", WithFactory(f.factory()))
	if _, err := h.Tick(dev, 4, 4); err != nil {
		t.Fatal(err)
	}
	h.Release()

	if _, err := m.Tick("a", dev, 4, 4); !errors.Is(err, ErrNotTickable) {
		t.Errorf("Tick error = %v, want ErrNotTickable", err)
	}
}

func TestTickContextScaleAndFrame(t *testing.T) {
	m := NewManager()
	var seen []render.PaintContext
	r := &ctxRenderer{seen: &seen}
	h := mustAcquire(m, "a", WithFactory(render.FactoryFor(func(render.DeviceHandle) (*ctxRenderer, error) {
		return r, nil
	})))
	defer h.Release()

	m.EndFrame()
	m.EndFrame()
	if _, err := h.TickContext(render.PaintContext{Device: dev, Frame: 99, Scale: 0}, 4, 4); err != nil {
		t.Fatal(err)
	}
	if len(seen) != 1 {
		t.Fatalf("renders = %d, want 1", len(seen))
	}
	if seen[0].Frame != 2 || seen[0].Scale != 1 {
		t.Errorf("PaintContext = %+v, want Frame 2, Scale 1", seen[0])
	}
}

type ctxRenderer struct {
	seen *[]render.PaintContext
}

func (r *ctxRenderer) Render(ctx render.PaintContext, _, _ int) (*render.Texture, error) {
	*r.seen = append(*r.seen, ctx)
	return nil, nil
}

func (r *ctxRenderer) HandleMessage(message.Message) {}

func (r *ctxRenderer) Shutdown() error { return nil }
