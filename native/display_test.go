// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"github.com/gogpu/renderloop/config"
)

// stubDisplay records native calls and fails on demand.
type stubDisplay struct {
	configs []config.Config

	initErr       error
	contextErr    error
	destroyErr    error
	surfaceErr    error
	makeCurrErr   error
	swapStatus    Status
	initCalls     int
	terminates    int
	calls         []string
	lastAttribs   []config.AttribValue
	liveContexts  int
	liveSurfaces  int
	releaseCalled int
}

type stubContext struct {
	NullDeviceProvider
	cfg config.Config
}

func (c *stubContext) Config() config.Config { return c.cfg }

type stubSurface struct{ w, h int }

func (s *stubSurface) Size() (int, int) { return s.w, s.h }

type stubWindow struct {
	w, h    int
	invalid bool
}

func (w *stubWindow) Valid() bool      { return !w.invalid }
func (w *stubWindow) Size() (int, int) { return w.w, w.h }

func (d *stubDisplay) ChooseConfigs(f config.Filter) ([]config.Config, error) {
	d.calls = append(d.calls, "choose")
	var out []config.Config
	for _, c := range d.configs {
		if c.Matches(f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *stubDisplay) Initialize() (Version, error) {
	d.calls = append(d.calls, "init")
	d.initCalls++
	if d.initErr != nil {
		return Version{}, d.initErr
	}
	return Version{Major: 3, Minor: 0}, nil
}

func (d *stubDisplay) CreateContext(cfg config.Config, attribs []config.AttribValue) (Context, error) {
	d.calls = append(d.calls, "create-context")
	d.lastAttribs = attribs
	if d.contextErr != nil {
		return nil, d.contextErr
	}
	d.liveContexts++
	return &stubContext{cfg: cfg}, nil
}

func (d *stubDisplay) DestroyContext(Context) error {
	d.calls = append(d.calls, "destroy-context")
	if d.destroyErr != nil {
		return d.destroyErr
	}
	d.liveContexts--
	return nil
}

func (d *stubDisplay) CreateWindowSurface(_ config.Config, win Window) (Surface, error) {
	d.calls = append(d.calls, "create-surface")
	if d.surfaceErr != nil {
		return nil, d.surfaceErr
	}
	d.liveSurfaces++
	w, h := win.Size()
	return &stubSurface{w: w, h: h}, nil
}

func (d *stubDisplay) DestroySurface(Surface) error {
	d.calls = append(d.calls, "destroy-surface")
	d.liveSurfaces--
	return nil
}

func (d *stubDisplay) MakeCurrent(Surface, Context) error {
	d.calls = append(d.calls, "make-current")
	return d.makeCurrErr
}

func (d *stubDisplay) ReleaseCurrent() error {
	d.calls = append(d.calls, "release-current")
	d.releaseCalled++
	return nil
}

func (d *stubDisplay) SwapBuffers(Surface) Status {
	d.calls = append(d.calls, "swap")
	if d.swapStatus == 0 {
		return StatusSuccess
	}
	return d.swapStatus
}

func (d *stubDisplay) DriverInfo(Context) (DriverInfo, error) {
	return DriverInfo{Vendor: "stub", Renderer: "stub renderer", Version: "1", API: Version{Major: 3}}, nil
}

func (d *stubDisplay) Terminate() error {
	d.calls = append(d.calls, "terminate")
	d.terminates++
	return nil
}

func stubConfigs() []config.Config {
	es := config.RenderableES2 | config.RenderableES3
	return []config.Config{
		{ID: 1, Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, Renderable: es},
		{ID: 2, Red: 5, Green: 6, Blue: 5, Depth: 16, Renderable: es},
	}
}

var _ Display = (*stubDisplay)(nil)
