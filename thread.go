// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Renderer draws frames on the render goroutine. Every method must return
// promptly: a thread asked to release its context notices the request only
// between frames.
type Renderer interface {
	// OnContextCreated is called after a new context was created and a
	// surface bound to it. Earlier GPU resources are gone.
	OnContextCreated(cfg config.Config, ctx native.Context)

	// OnSurfaceSized is called after the first binding and after every
	// resize, before the next OnFrame.
	OnSurfaceSized(width, height int)

	// OnFrame draws one frame. The thread presents it afterwards.
	OnFrame()
}

// SurfaceProvider is the host side of a Thread.
type SurfaceProvider interface {
	// NativeWindow returns the window to bind surfaces to.
	NativeWindow() native.Window

	// PreserveContextOnPause asks to keep the context across a pause.
	// The arbiter may override it.
	PreserveContextOnPause() bool

	Renderer() Renderer
}

// detachedProvider stands in for a host that has gone away.
type detachedProvider struct{}

func (detachedProvider) NativeWindow() native.Window  { return nil }
func (detachedProvider) PreserveContextOnPause() bool { return false }
func (detachedProvider) Renderer() Renderer           { return nopRenderer{} }

type nopRenderer struct{}

func (nopRenderer) OnContextCreated(config.Config, native.Context) {}
func (nopRenderer) OnSurfaceSized(int, int)                         {}
func (nopRenderer) OnFrame()                                        {}

// Thread is a render thread: one goroutine, locked to an OS thread, that
// owns the native context of one drawing surface across the host surface
// lifecycle.
//
// The host reports lifecycle changes with SurfaceCreated, WindowResize,
// SurfaceDestroyed, Pause and Resume. These block until the render
// goroutine has acknowledged them and must not be called from it.
type Thread struct {
	name    string
	arbiter *Arbiter
	helper  *native.Helper

	// Guarded by arbiter.mu.
	m        *machine
	provider SurfaceProvider
	started  bool
	err      error

	// Render goroutine only.
	pending       drawPlan
	notifyContext bool
	probeDriver   bool

	tid atomic.Int64
}

// NewThread returns a thread that renders into windows from provider
// through display. The thread does nothing until Start.
func NewThread(arbiter *Arbiter, display native.Display, provider SurfaceProvider, opts ...Option) *Thread {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.chooser == nil {
		s := config.DefaultSpec()
		o.chooser = config.NewComponentSizeChooser(s.Red, s.Green, s.Blue, s.Alpha, s.Depth, s.Stencil, o.clientVersion)
	}
	if o.contexts == nil {
		o.contexts = native.DefaultContextFactory{ClientVersion: o.clientVersion}
	}
	if provider == nil {
		provider = detachedProvider{}
	}
	return &Thread{
		name:     o.name,
		arbiter:  arbiter,
		helper:   native.NewHelper(display, o.chooser, o.contexts, o.surfaces),
		m:        newMachine(o.renderMode),
		provider: provider,
	}
}

// Name returns the name used in log records.
func (t *Thread) Name() string { return t.name }

// Start launches the render goroutine.
func (t *Thread) Start() error {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	if t.started {
		return ErrAlreadyStarted
	}
	if t.m.exited {
		return ErrExited
	}
	t.started = true
	go t.run()
	return nil
}

// SurfaceCreated reports that the host surface exists at the given size.
// It returns once the thread has started binding to it.
func (t *Thread) SurfaceCreated(width, height int) {
	t.mustBlock("SurfaceCreated")
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.hasSurface = true
	m.finishedCreating = false
	m.width, m.height = width, height
	m.sizeChanged = true
	m.requestRender = true
	a.notifyAll()
	for t.live() && m.waitingForSurface && !m.finishedCreating {
		a.cond.Wait()
	}
}

// SurfaceDestroyed reports that the host surface is gone. It returns once
// the thread released its binding.
func (t *Thread) SurfaceDestroyed() {
	t.mustBlock("SurfaceDestroyed")
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.hasSurface = false
	a.notifyAll()
	for t.live() && !m.waitingForSurface {
		a.cond.Wait()
	}
}

// WindowResize reports a new surface size. While the thread is able to
// draw, or has a frame in flight, it returns only after a frame at the new
// size was presented.
// The host must resize the native window first.
func (t *Thread) WindowResize(width, height int) {
	t.mustBlock("WindowResize")
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.width, m.height = width, height
	m.sizeChanged = true
	m.requestRender = true
	m.renderComplete = false
	m.resizeSeq++
	seq := m.resizeSeq
	a.notifyAll()
	for t.live() && !m.paused && m.completedResize < seq && (m.ableToDraw() || m.drawing) {
		a.cond.Wait()
	}
}

// Pause stops drawing and releases the surface binding. It returns once
// the thread is paused. Pausing a paused thread returns immediately.
func (t *Thread) Pause() {
	t.mustBlock("Pause")
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.requestPaused = true
	a.notifyAll()
	for t.live() && !m.paused {
		a.cond.Wait()
	}
}

// Resume restarts drawing after Pause.
func (t *Thread) Resume() {
	t.mustBlock("Resume")
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.requestPaused = false
	m.requestRender = true
	m.renderComplete = false
	a.notifyAll()
	for t.live() && m.paused && !m.renderComplete {
		a.cond.Wait()
	}
}

// RequestRender asks for one frame. It does not block.
func (t *Thread) RequestRender() {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	t.m.requestRender = true
	a.notifyAll()
}

// SetRenderMode switches between continuous and on-demand rendering.
func (t *Thread) SetRenderMode(mode RenderMode) error {
	if !mode.valid() {
		return fmt.Errorf("%w: %v", ErrInvalidRenderMode, mode)
	}
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	t.m.renderMode = mode
	a.notifyAll()
	return nil
}

// RenderMode returns the current render mode.
func (t *Thread) RenderMode() RenderMode {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	return t.m.renderMode
}

// QueueEvent runs ev on the render goroutine. Events run in FIFO order,
// each before any frame drawn after it was queued.
func (t *Thread) QueueEvent(ev func()) error {
	if ev == nil {
		return ErrNilEvent
	}
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	if t.m.exited || t.m.shouldExit {
		return ErrExited
	}
	t.m.events = append(t.m.events, ev)
	a.notifyAll()
	return nil
}

// RequestExitAndWait stops the thread and waits until it released its
// native objects. It returns the fatal error that ended the loop, if any.
func (t *Thread) RequestExitAndWait() error {
	if t.onRenderThread() {
		return ErrOnRenderThread
	}
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	m := t.m
	m.shouldExit = true
	if !t.started {
		m.exited = true
		return nil
	}
	a.notifyAll()
	for !m.exited {
		a.cond.Wait()
	}
	return t.err
}

// Detach disconnects the host. The thread keeps running with a provider
// that has no window, no preserved context and a renderer that draws
// nothing.
func (t *Thread) Detach() {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	t.provider = detachedProvider{}
	a.notifyAll()
}

// State returns the current lifecycle state.
func (t *Thread) State() State {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	return t.m.state()
}

// Err returns the fatal error that ended the loop, or nil.
func (t *Thread) Err() error {
	a := t.arbiter
	a.mu.Lock()
	defer a.mu.Unlock()
	return t.err
}

// live reports whether the render goroutine runs and will acknowledge
// requests. Called with the monitor held.
func (t *Thread) live() bool { return t.started && !t.m.exited }

func (t *Thread) requestReleaseLocked() {
	t.m.shouldReleaseContext = true
	t.arbiter.notifyAll()
}

func (t *Thread) onRenderThread() bool {
	id := t.tid.Load()
	return id != 0 && id == currentThreadID()
}

func (t *Thread) mustBlock(op string) {
	if t.onRenderThread() {
		panic(fmt.Errorf("%w: %s", ErrOnRenderThread, op))
	}
}

func (t *Thread) run() {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	t.tid.Store(currentThreadID())
	Logger().Info("renderloop: thread started", "thread", t.name)

	err := t.guardedRun()

	a := t.arbiter
	a.mu.Lock()
	env := threadEnv{t}
	t.m.stopSurface(env)
	if serr := t.m.stopContext(env); serr != nil && err == nil {
		err = serr
	}
	if t.helper.Initialized() {
		if terr := t.helper.Terminate(); terr != nil && err == nil {
			err = terr
		}
	}
	t.tid.Store(0)
	t.err = err
	t.m.exited = true
	a.threadExiting(t)
	a.mu.Unlock()

	if err != nil {
		Logger().Error("renderloop: thread failed", "thread", t.name, "err", err)
		return
	}
	Logger().Info("renderloop: thread exited", "thread", t.name)
}

func (t *Thread) guardedRun() error {
	a := t.arbiter
	env := threadEnv{t}
	for {
		a.mu.Lock()
		var out outcome
		for {
			var err error
			out, err = t.m.step(env)
			if err != nil {
				a.mu.Unlock()
				return err
			}
			if out.kind != outcomeWait {
				break
			}
			a.cond.Wait()
		}
		provider := t.provider
		a.mu.Unlock()

		switch out.kind {
		case outcomeExit:
			return nil
		case outcomeEvent:
			out.event()
			continue
		}
		if err := t.draw(out.plan, provider); err != nil {
			return err
		}
	}
}

// draw executes a plan outside the monitor. Work interrupted by a failed
// surface binding stays pending for the next plan.
func (t *Thread) draw(plan drawPlan, provider SurfaceProvider) error {
	a := t.arbiter
	p := &t.pending
	p.merge(plan)

	if p.createContext {
		Logger().Debug("renderloop: create context", "thread", t.name)
		if err := t.helper.Start(); err != nil {
			a.mu.Lock()
			t.m.contextFailed(threadEnv{t})
			a.mu.Unlock()
			*p = drawPlan{}
			return err
		}
		p.createContext = false
		t.notifyContext = true
		t.probeDriver = true
	}

	if p.createSurface {
		Logger().Debug("renderloop: bind surface", "thread", t.name, "width", p.width, "height", p.height)
		err := t.helper.CreateSurface(provider.NativeWindow())
		a.mu.Lock()
		t.m.bindingCreated(err == nil)
		a.notifyAll()
		a.mu.Unlock()
		if err != nil {
			Logger().Warn("renderloop: surface binding failed", "thread", t.name, "err", err)
			return nil
		}
		p.createSurface = false
	}

	if t.probeDriver {
		info, err := t.helper.DriverInfo()
		if err != nil {
			Logger().Warn("renderloop: driver query failed", "thread", t.name, "err", err)
		} else {
			a.mu.Lock()
			a.checkDriver(info)
			a.mu.Unlock()
		}
		t.probeDriver = false
	}

	r := provider.Renderer()
	if t.notifyContext {
		cfg, _ := t.helper.Config()
		r.OnContextCreated(cfg, t.helper.Context())
		t.notifyContext = false
	}
	if p.sized {
		r.OnSurfaceSized(p.width, p.height)
		p.sized = false
	}
	r.OnFrame()

	status := t.helper.Swap()
	if status != native.StatusSuccess {
		Logger().Warn("renderloop: swap failed", "thread", t.name, "status", status.String())
	}

	a.mu.Lock()
	t.m.frameDone(status == native.StatusSuccess, status == native.StatusContextLost, p.resizeSeq)
	a.notifyAll()
	a.mu.Unlock()
	p.resizeSeq = 0
	return nil
}

// threadEnv binds the scheduling pass of t to its arbiter and helper.
type threadEnv struct{ t *Thread }

func (e threadEnv) tryAcquire() bool             { return e.t.arbiter.tryAcquire(e.t) }
func (e threadEnv) release()                     { e.t.arbiter.release(e.t) }
func (e threadEnv) shouldReleaseOnPause() bool   { return e.t.arbiter.shouldReleaseOnPause() }
func (e threadEnv) shouldTerminateOnPause() bool { return e.t.arbiter.shouldTerminateOnPause() }
func (e threadEnv) preserveOnPause() bool        { return e.t.provider.PreserveContextOnPause() }
func (e threadEnv) destroySurface()              { e.t.helper.DestroySurface() }
func (e threadEnv) finish() error                { return e.t.helper.Terminate() }
func (e threadEnv) notifyAll()                   { e.t.arbiter.notifyAll() }

func (e threadEnv) terminate() {
	if err := e.t.helper.Terminate(); err != nil {
		Logger().Warn("renderloop: terminate display", "thread", e.t.name, "err", err)
	}
}
