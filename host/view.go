// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package host

import (
	"errors"
	"fmt"
	"sync"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Errors returned by View.
var (
	// ErrRendererSet is returned by a second SetRenderer.
	ErrRendererSet = errors.New("host: renderer already set")

	// ErrNoRenderer is returned by lifecycle methods called before
	// SetRenderer.
	ErrNoRenderer = errors.New("host: no renderer set")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("host: view closed")
)

// FrameRateSetter is implemented by renderers that pace themselves. The
// rate is informational; it is zero in continuous mode.
type FrameRateSetter interface {
	SetFrameRate(fps float64)
}

// AntiAliasingSetter is implemented by renderers that adapt to the
// requested anti-aliasing mode.
type AntiAliasingSetter interface {
	SetAntiAliasing(mode config.AntiAliasing)
}

// LifecycleObserver is implemented by renderers that track host pauses.
// Both methods run on the host goroutine before the thread is told.
type LifecycleObserver interface {
	OnPause()
	OnResume()
}

// DetachObserver is implemented by renderers that release resources when
// the view is detached from its host.
type DetachObserver interface {
	OnDetached()
}

// View connects a host surface to a render thread.
//
// View methods are called from host goroutines, never from the render
// goroutine. No View lock is held while a thread call blocks.
type View struct {
	arbiter *renderloop.Arbiter
	display native.Display
	opts    viewOptions

	winMu sync.Mutex
	win   native.Window

	mu         sync.Mutex
	renderer   renderloop.Renderer
	thread     *renderloop.Thread
	renderMode renderloop.RenderMode
	frameRate  float64
	detached   bool
	closed     bool
}

// New returns a view that renders through display. Threads of all views
// of a process should share arbiter.
func New(arbiter *renderloop.Arbiter, display native.Display, opts ...Option) *View {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &View{
		arbiter:    arbiter,
		display:    display,
		opts:       o,
		renderMode: o.renderMode,
		frameRate:  o.frameRate,
	}
}

// NativeWindow implements renderloop.SurfaceProvider.
func (v *View) NativeWindow() native.Window {
	v.winMu.Lock()
	defer v.winMu.Unlock()
	return v.win
}

// PreserveContextOnPause implements renderloop.SurfaceProvider.
func (v *View) PreserveContextOnPause() bool { return v.opts.preserve }

// Renderer implements renderloop.SurfaceProvider.
func (v *View) Renderer() renderloop.Renderer {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.renderer
}

// Chooser returns the config chooser the view hands to its thread.
func (v *View) Chooser() config.Chooser {
	if v.opts.chooser != nil {
		return v.opts.chooser
	}
	return &config.AntiAliasingChooser{
		Spec:          v.opts.spec,
		ClientVersion: v.opts.clientVersion,
		Mode:          v.opts.antiAliasing,
		Samples:       v.opts.samples,
	}
}

// SetRenderer sets the renderer and starts the render thread. It may be
// called once.
func (v *View) SetRenderer(r renderloop.Renderer) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return ErrClosed
	}
	if v.renderer != nil {
		return ErrRendererSet
	}

	if s, ok := r.(FrameRateSetter); ok {
		rate := v.frameRate
		if v.renderMode != renderloop.RenderWhenDirty {
			rate = 0
		}
		s.SetFrameRate(rate)
	}
	if s, ok := r.(AntiAliasingSetter); ok {
		s.SetAntiAliasing(v.opts.antiAliasing)
	}

	v.renderer = r
	th, err := v.startThread(v.renderMode)
	if err != nil {
		v.renderer = nil
		return err
	}
	v.thread = th
	return nil
}

// startThread creates and starts a thread. Called with v.mu held; the
// thread does not call back into the view before Start returns.
func (v *View) startThread(mode renderloop.RenderMode) (*renderloop.Thread, error) {
	th := renderloop.NewThread(v.arbiter, v.display, v,
		renderloop.WithName(v.opts.name),
		renderloop.WithConfigChooser(v.Chooser()),
		renderloop.WithContextFactory(v.opts.contexts),
		renderloop.WithSurfaceFactory(v.opts.surfaces),
		renderloop.WithClientVersion(v.opts.clientVersion),
		renderloop.WithRenderMode(mode))
	if err := th.Start(); err != nil {
		return nil, err
	}
	return th, nil
}

func (v *View) current() (*renderloop.Thread, renderloop.Renderer, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	switch {
	case v.closed:
		return nil, nil, ErrClosed
	case v.thread == nil:
		return nil, nil, ErrNoRenderer
	}
	return v.thread, v.renderer, nil
}

// OnSurfaceAvailable reports that the host surface exists. It blocks until
// the render thread picked it up.
func (v *View) OnSurfaceAvailable(win native.Window, width, height int) error {
	th, _, err := v.current()
	if err != nil {
		return err
	}
	v.winMu.Lock()
	v.win = win
	v.winMu.Unlock()
	th.SurfaceCreated(width, height)
	return nil
}

// OnSurfaceResized reports a new surface size. It blocks until a frame at
// the new size was presented, unless the thread cannot draw.
func (v *View) OnSurfaceResized(width, height int) error {
	th, _, err := v.current()
	if err != nil {
		return err
	}
	th.WindowResize(width, height)
	return nil
}

// OnSurfaceDestroyed reports that the host surface is gone. When it
// returns the thread no longer uses the window.
func (v *View) OnSurfaceDestroyed() error {
	th, _, err := v.current()
	if err != nil {
		return err
	}
	th.SurfaceDestroyed()
	v.winMu.Lock()
	v.win = nil
	v.winMu.Unlock()
	return nil
}

// OnHostPaused pauses rendering.
func (v *View) OnHostPaused() error {
	th, r, err := v.current()
	if err != nil {
		return err
	}
	if o, ok := r.(LifecycleObserver); ok {
		o.OnPause()
	}
	th.Pause()
	return nil
}

// OnHostResumed resumes rendering.
func (v *View) OnHostResumed() error {
	th, r, err := v.current()
	if err != nil {
		return err
	}
	if o, ok := r.(LifecycleObserver); ok {
		o.OnResume()
	}
	th.Resume()
	return nil
}

// OnVisibilityChanged pauses a hidden view and resumes a visible one.
func (v *View) OnVisibilityChanged(visible bool) error {
	if visible {
		return v.OnHostResumed()
	}
	return v.OnHostPaused()
}

// QueueEvent runs ev on the render goroutine.
func (v *View) QueueEvent(ev func()) error {
	th, _, err := v.current()
	if err != nil {
		return err
	}
	return th.QueueEvent(ev)
}

// RequestRender asks for a frame.
func (v *View) RequestRender() error {
	th, _, err := v.current()
	if err != nil {
		return err
	}
	th.RequestRender()
	return nil
}

// SetRenderMode changes the render mode. Before SetRenderer the mode is
// stored for the thread to come.
func (v *View) SetRenderMode(m renderloop.RenderMode) error {
	v.mu.Lock()
	th := v.thread
	if th == nil {
		defer v.mu.Unlock()
		if !validMode(m) {
			return fmt.Errorf("%w: %v", renderloop.ErrInvalidRenderMode, m)
		}
		v.renderMode = m
		return nil
	}
	v.mu.Unlock()

	if err := th.SetRenderMode(m); err != nil {
		return err
	}
	v.mu.Lock()
	v.renderMode = m
	v.mu.Unlock()
	return nil
}

func validMode(m renderloop.RenderMode) bool {
	return m == renderloop.RenderWhenDirty || m == renderloop.RenderContinuously
}

// RenderMode returns the render mode of the thread, or the stored mode
// before SetRenderer.
func (v *View) RenderMode() renderloop.RenderMode {
	v.mu.Lock()
	th, mode := v.thread, v.renderMode
	v.mu.Unlock()
	if th != nil {
		return th.RenderMode()
	}
	return mode
}

// SetFrameRate stores the frame rate and forwards it to the renderer.
func (v *View) SetFrameRate(fps float64) {
	v.mu.Lock()
	v.frameRate = fps
	r := v.renderer
	v.mu.Unlock()
	if s, ok := r.(FrameRateSetter); ok {
		s.SetFrameRate(fps)
	}
}

// FrameRate returns the stored frame rate.
func (v *View) FrameRate() float64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.frameRate
}

// State returns the state of the render thread, or StateIdle without one.
func (v *View) State() renderloop.State {
	v.mu.Lock()
	th := v.thread
	v.mu.Unlock()
	if th == nil {
		return renderloop.StateIdle
	}
	return th.State()
}

// Detach stops the render thread as the host detaches the view. The
// renderer is told through DetachObserver. Attach starts a new thread.
func (v *View) Detach() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	th, r := v.thread, v.renderer
	v.detached = true
	v.mu.Unlock()

	var err error
	if th != nil {
		th.Detach()
		err = th.RequestExitAndWait()
	}
	if o, ok := r.(DetachObserver); ok {
		o.OnDetached()
	}
	renderloop.Logger().Debug("host: view detached", "view", v.opts.name)
	return err
}

// Attach restarts rendering after Detach with a new thread that keeps the
// render mode of the previous one. Attaching an attached view does
// nothing.
func (v *View) Attach() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	if !v.detached || v.renderer == nil {
		v.detached = false
		v.mu.Unlock()
		return nil
	}
	old, mode := v.thread, v.renderMode
	v.mu.Unlock()

	if old != nil {
		mode = old.RenderMode()
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.detached || v.closed {
		return nil
	}
	th, err := v.startThread(mode)
	if err != nil {
		return err
	}
	v.thread = th
	v.renderMode = mode
	v.detached = false
	renderloop.Logger().Debug("host: view attached", "view", v.opts.name, "mode", mode.String())
	return nil
}

// Close stops the render thread for good and returns its fatal error, if
// any. Closing twice returns ErrClosed.
func (v *View) Close() error {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return ErrClosed
	}
	v.closed = true
	th := v.thread
	v.mu.Unlock()

	if th == nil {
		return nil
	}
	th.Detach()
	return th.RequestExitAndWait()
}

var _ renderloop.SurfaceProvider = (*View)(nil)
