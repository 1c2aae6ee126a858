// Package renderloop runs render threads: one goroutine per drawing surface
// that owns a native graphics context across the lifecycle of a surface
// managed by a host.
//
// # Overview
//
// A host (a window system, a view toolkit, a test) reports what happens to
// its surface: it appears, resizes, disappears, the application pauses and
// resumes. A Thread turns those notifications into native work on its own
// goroutine, locked to one OS thread:
//
//	arbiter := renderloop.NewArbiter()
//	display, _ := native.OpenDefault()
//
//	t := renderloop.NewThread(arbiter, display, provider,
//	    renderloop.WithRenderMode(renderloop.RenderWhenDirty))
//	t.Start()
//
//	t.SurfaceCreated(640, 480)
//	t.RequestRender()
//	...
//	t.Pause()
//	t.Resume()
//	t.SurfaceDestroyed()
//	t.RequestExitAndWait()
//
// The notification methods block until the render goroutine acknowledged
// them and must never be called from it; they panic with ErrOnRenderThread
// when they detect that.
//
// # Context arbitration
//
// Some platforms keep only one native context alive at a time. An Arbiter
// shared by all threads of a process decides, once per process, whether
// that is the case (see CapabilityPolicy) and grants the context to one
// thread at a time. A thread that needs the context asks the owner to
// release it; the owner complies between two frames, so Renderer methods
// must return promptly.
//
// # State
//
// Every thread is a small state machine guarded by the arbiter's monitor.
// State reports its current state:
//
//	Idle -> WaitingForSurface -> HasSurfaceNoContext -> HasContextNoBinding
//	     -> Ready <-> Drawing
//
// with Paused and Exiting reachable from any state.
//
// # Logging
//
// The package is silent by default. SetLogger installs a slog.Logger for
// this package and the native drivers.
package renderloop
