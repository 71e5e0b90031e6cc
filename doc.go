// Package viewhost embeds heavyweight render and simulation engines inside a
// reactive UI tree.
//
// # Overview
//
// The host UI framework owns the window, the event loop and the paint surface.
// An embedded engine renders into an off-screen texture that the host
// composites during its paint pass. UI components mount and unmount far more
// often than an engine should be created or destroyed, and several components
// may show the same engine (two viewports of one simulation). viewhost
// decouples the two lifecycles.
//
// # Architecture
//
// The module is organized into:
//   - render: the Renderer contract an engine adapter implements, texture handles,
//     device handles and factories
//   - message: type-erased, tagged messages and the bounded drop-oldest queue
//   - instance: the reference-counted registry, lifecycle state machine, grace
//     window and tick driver
//   - component: the mount/paint/unmount adapter used by UI components
//   - integration/gpupaint, integration/ebitenpaint: paint bridges for gogpu
//     and Ebitengine hosts
//   - engines/orbit, engines/native: reference engines
//   - cmd/viewhost-demo, cmd/viewhost-inspect: an Ebitengine host and a
//     terminal inspector driving the manager headlessly
//
// # Quick Start
//
//	mgr := instance.NewManager(instance.WithQueueCapacity(64))
//	defer mgr.Close(context.Background())
//
//	c := component.New(mgr, component.Props{
//	    Identity: "scene-a",
//	    Factory:  render.FactoryFor(orbit.New),
//	})
//	if err := c.Mount(); err != nil {
//	    return err
//	}
//	defer c.Unmount()
//
//	// Every frame, from the host's paint callback:
//	_ = c.Paint(device, width, height, presenter)
//	mgr.EndFrame()
//
// # Lifecycle
//
// A record is Initializing until a tick supplies a device, Active while
// referenced, Suspended for a grace window after the last release, and then
// ShuttingDown and Destroyed. A remount inside the grace window reuses the
// same engine and its last frame.
//
// # Logging
//
// viewhost is silent by default. Use [SetLogger] to route lifecycle events to
// a *slog.Logger.
package viewhost

// Version is the current version of the module.
const Version = "0.3.0"
