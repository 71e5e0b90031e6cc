// Command viewhost-demo shows two Ebitengine viewports of one embedded engine.
//
// Both viewports mount the identity "cube-scene", so a single orbit engine
// renders once per frame and both present its texture. Press M to unmount
// and remount the right viewport: the engine survives inside its grace
// window and keeps its rotation.
//
// Keys: M toggle right viewport, Up/Down speed, Space pause, R reset, Esc quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/gogpu/viewhost"
	"github.com/gogpu/viewhost/component"
	"github.com/gogpu/viewhost/engines/native"
	"github.com/gogpu/viewhost/engines/orbit"
	"github.com/gogpu/viewhost/instance"
	"github.com/gogpu/viewhost/integration/ebitenpaint"
	"github.com/gogpu/viewhost/render"
)

const (
	screenWidth  = 800
	screenHeight = 480
	viewWidth    = 380
	viewHeight   = 380
	margin       = 13
)

var errQuit = errors.New("quit")

type viewport struct {
	comp      *component.Component
	presenter *ebitenpaint.Presenter
	x, y      float64
	w, h      int
}

type Game struct {
	mgr    *instance.Manager
	views  []*viewport
	right  *viewport
	speed  float32
	paused bool
	status string
}

func newGame(mgr *instance.Manager, lib *native.Library, assets string) *Game {
	g := &Game{mgr: mgr, speed: 1}

	factory := orbit.Factory(orbit.WithFrameRate(float32(ebiten.TPS())), orbit.WithAssetDir(assets))
	g.addView("cube-scene", factory, margin, 60, viewWidth, viewHeight)
	g.right = g.addView("cube-scene", factory, 2*margin+viewWidth, 60, viewWidth, viewHeight)

	if lib != nil {
		// The plugin overlays the bottom of the left viewport.
		g.addView("native-scene", lib.Factory(), margin, 60+viewHeight-96, 128, 96)
	}
	for _, v := range g.views {
		if err := v.comp.Mount(); err != nil {
			log.Printf("mount %s: %v", v.comp.Identity(), err)
		}
	}
	return g
}

func (g *Game) addView(identity string, factory render.Factory, x, y float64, w, h int) *viewport {
	v := &viewport{
		comp:      component.New(g.mgr, component.Props{Identity: identity, Factory: factory}),
		presenter: ebitenpaint.New(),
		x:         x,
		y:         y,
		w:         w,
		h:         h,
	}
	v.presenter.SetPosition(x, y)
	g.views = append(g.views, v)
	return v
}

func (g *Game) Update() error {
	send := g.right.comp.Sender()

	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return errQuit
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if g.right.comp.Mounted() {
			_ = g.right.comp.Unmount()
			g.status = "right viewport unmounted"
		} else if err := g.right.comp.Mount(); err != nil {
			g.status = err.Error()
		} else {
			g.status = "right viewport mounted"
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyUp):
		g.speed += 0.5
		_ = send.Send(orbit.SetSpeed{RadiansPerSecond: g.speed})
	case inpututil.IsKeyJustPressed(ebiten.KeyDown):
		g.speed -= 0.5
		_ = send.Send(orbit.SetSpeed{RadiansPerSecond: g.speed})
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.paused = !g.paused
		_ = send.SendSignal(orbit.SignalPaused, g.paused)
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		_ = send.Send(orbit.ResetRotation{})
	}
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{0x1e, 0x1e, 0x28, 0xff})

	dev := render.NullDeviceHandle{}
	for _, v := range g.views {
		if !v.comp.Mounted() {
			continue
		}
		v.presenter.Bind(screen)
		if err := v.comp.Paint(dev, v.w, v.h, v.presenter); err != nil {
			g.status = fmt.Sprintf("%s: %v", v.comp.Identity(), err)
		}
	}
	g.mgr.EndFrame()

	st, _ := g.mgr.Stats("cube-scene")
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS %.1f  frame %d\ncube-scene %s refs=%d built=%d renders=%d  speed %.1f\n%s",
		ebiten.ActualFPS(), g.mgr.Frame(),
		st.State, st.Refs, st.Constructions, st.Frames, g.speed, g.status))
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

func (g *Game) close() {
	for _, v := range g.views {
		if v.comp.Mounted() {
			_ = v.comp.Unmount()
		}
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := g.mgr.Close(ctx); err != nil {
		log.Printf("close: %v", err)
	}
	for _, v := range g.views {
		_ = v.presenter.Close()
	}
}

func main() {
	var (
		verbose = flag.Bool("v", false, "log lifecycle events to stderr")
		grace   = flag.Int("grace", 120, "grace window in frames")
		plugin  = flag.String("plugin", "", "path to a native engine plugin")
		assets  = flag.String("assets", "", "directory holding hud.ttf")
	)
	flag.Parse()

	if *verbose {
		viewhost.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var lib *native.Library
	if *plugin != "" {
		var err error
		lib, err = native.Open(*plugin)
		if err != nil {
			log.Fatalf("plugin: %v", err)
		}
		defer lib.Close()
	}

	mgr := instance.NewManager(
		instance.WithDefaultGrace(instance.Grace{Frames: *grace}),
		instance.WithFrameDedupe(),
	)
	g := newGame(mgr, lib, *assets)
	defer g.close()

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("viewhost demo")
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, errQuit) {
		log.Printf("run: %v", err)
	}
}
