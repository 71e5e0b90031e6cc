// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package native

import (
	"errors"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"

	"github.com/gogpu/viewhost/instance"
	"github.com/gogpu/viewhost/message"
	"github.com/gogpu/viewhost/render"
)

// fakePlugin implements the plugin ABI in Go.
type fakePlugin struct {
	nextID    int32
	createErr int32
	renderRC  int32
	short     bool
	messages  []string
	shutdowns []int32
	frames    []uint64
}

func (f *fakePlugin) library() *Library {
	return &Library{
		path: "fake",
		fns: abi{
			create: func(w, h int32) int32 {
				if f.createErr != 0 {
					return f.createErr
				}
				f.nextID++
				return f.nextID
			},
			message: func(id int32, tag string, data []byte, n int32) int32 {
				f.messages = append(f.messages, tag+"="+string(data[:n]))
				return 0
			},
			render: func(id, w, h int32, frame uint64) int32 {
				f.frames = append(f.frames, frame)
				return f.renderRC
			},
			pixels: func(id int32, dst []byte, n, stride int32) int32 {
				for i := range dst[:n] {
					dst[i] = byte(i)
				}
				if f.short {
					return n - 1
				}
				return n
			},
			shutdown: func(id int32) {
				f.shutdowns = append(f.shutdowns, id)
			},
		},
	}
}

var dev = render.NullDeviceHandle{}

func TestNewEngine(t *testing.T) {
	f := &fakePlugin{}
	lib := f.library()

	e1, err := lib.NewEngine(dev)
	if err != nil {
		t.Fatal(err)
	}
	e2, err := lib.NewEngine(dev)
	if err != nil {
		t.Fatal(err)
	}
	if e1.ID() == e2.ID() {
		t.Errorf("engines share id %d", e1.ID())
	}

	f.createErr = -3
	if _, err := lib.NewEngine(dev); !errors.Is(err, ErrPlugin) {
		t.Errorf("NewEngine error = %v, want ErrPlugin", err)
	}
}

func TestRenderCopiesBGRAFrame(t *testing.T) {
	f := &fakePlugin{renderRC: 1}
	e, err := f.library().NewEngine(dev)
	if err != nil {
		t.Fatal(err)
	}

	tex, err := e.Render(render.PaintContext{Device: dev, Frame: 7}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if tex.Format != gputypes.TextureFormatBGRA8Unorm {
		t.Errorf("Format = %v, want BGRA8Unorm", tex.Format)
	}
	if tex.Stride != 12 || len(tex.Pixels) != 24 || tex.Pixels[23] != 23 {
		t.Errorf("texture = %+v", tex)
	}
	if len(f.frames) != 1 || f.frames[0] != 7 {
		t.Errorf("frames = %v, want [7]", f.frames)
	}

	again, err := e.Render(render.PaintContext{Device: dev, Frame: 8}, 3, 2)
	if err != nil {
		t.Fatal(err)
	}
	if again != tex {
		t.Error("same-size frame allocated a new texture")
	}
	resized, err := e.Render(render.PaintContext{Device: dev, Frame: 9}, 4, 4)
	if err != nil {
		t.Fatal(err)
	}
	if resized == tex || resized.SameResource(tex) {
		t.Error("resized frame reused the old buffer")
	}
}

func TestRenderStatusCodes(t *testing.T) {
	tests := []struct {
		name    string
		rc      int32
		short   bool
		wantNil bool
		wantErr bool
	}{
		{"no new frame", 0, false, true, false},
		{"failure", -1, false, true, true},
		{"short copy", 1, true, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &fakePlugin{renderRC: tt.rc, short: tt.short}
			e, err := f.library().NewEngine(dev)
			if err != nil {
				t.Fatal(err)
			}
			tex, err := e.Render(render.PaintContext{Device: dev}, 2, 2)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Render error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrPlugin) {
				t.Errorf("error = %v, want ErrPlugin", err)
			}
			if (tex == nil) != tt.wantNil {
				t.Errorf("texture = %v", tex)
			}
		})
	}
}

type point struct {
	X, Y int
}

func TestHandleMessageEncoding(t *testing.T) {
	f := &fakePlugin{}
	e, err := f.library().NewEngine(dev)
	if err != nil {
		t.Fatal(err)
	}

	e.HandleMessage(message.New("raw", []byte("abc")))
	e.HandleMessage(message.New("text", "hello"))
	e.HandleMessage(message.Of(point{X: 1, Y: 2}))
	e.HandleMessage(message.New("empty", nil))
	e.HandleMessage(message.New("bad", make(chan int)))

	want := []string{
		"raw=abc",
		"text=hello",
		"native.point=" + `{"X":1,"Y":2}`,
		"empty=",
	}
	if strings.Join(f.messages, "|") != strings.Join(want, "|") {
		t.Errorf("messages = %q, want %q", f.messages, want)
	}
}

func TestShutdown(t *testing.T) {
	f := &fakePlugin{renderRC: 1}
	e, err := f.library().NewEngine(dev)
	if err != nil {
		t.Fatal(err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if err := e.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if len(f.shutdowns) != 1 || f.shutdowns[0] != e.ID() {
		t.Errorf("shutdowns = %v, want [%d]", f.shutdowns, e.ID())
	}
	if _, err := e.Render(render.PaintContext{Device: dev}, 2, 2); !errors.Is(err, ErrClosed) {
		t.Errorf("Render after Shutdown error = %v, want ErrClosed", err)
	}
	e.HandleMessage(message.New("late", "x"))
	if len(f.messages) != 0 {
		t.Errorf("message delivered after Shutdown: %v", f.messages)
	}
}

func TestEngineUnderManager(t *testing.T) {
	f := &fakePlugin{renderRC: -9}
	lib := f.library()
	m := instance.NewManager()
	h, err := m.Acquire("plugin", instance.WithFactory(lib.Factory()))
	if err != nil {
		t.Fatal(err)
	}
	defer h.Release()

	if _, err := h.Tick(dev, 2, 2); !errors.Is(err, instance.ErrInstanceFailed) || !errors.Is(err, ErrPlugin) {
		t.Fatalf("Tick error = %v, want ErrInstanceFailed wrapping ErrPlugin", err)
	}
	if len(f.shutdowns) != 1 {
		t.Errorf("shutdowns = %v, want the failed engine shut down", f.shutdowns)
	}
}

func TestOpenMissingLibrary(t *testing.T) {
	path := filepath.Join(t.TempDir(), LibraryName("missing"))
	_, err := Open(path)
	if err == nil {
		t.Fatal("Open error = nil for a missing library")
	}
	switch runtime.GOOS {
	case "linux", "darwin", "windows":
		if errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Open error = %v, want a load error", err)
		}
		if !strings.Contains(err.Error(), "missing") {
			t.Errorf("Open error = %v, want the library path", err)
		}
	default:
		if !errors.Is(err, ErrUnsupportedPlatform) {
			t.Errorf("Open error = %v, want ErrUnsupportedPlatform", err)
		}
	}
}

func TestLibraryCloseIdempotent(t *testing.T) {
	calls := 0
	lib := &Library{close: func() error { calls++; return nil }}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}
	if err := lib.Close(); err != nil {
		t.Fatal(err)
	}
	if calls != 1 {
		t.Errorf("close calls = %d, want 1", calls)
	}
}
