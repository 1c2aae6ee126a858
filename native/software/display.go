// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Context is a software context. It has no GPU device; renderers draw into
// Target.
type Context struct {
	native.NullDeviceProvider

	cfg           config.Config
	clientVersion int

	mu        sync.Mutex
	target    *Surface
	destroyed bool
}

// Config implements native.Context.
func (c *Context) Config() config.Config { return c.cfg }

// SurfaceFormat reports the color format of the context config.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.cfg.ColorFormat() }

// AdapterInfo reports a software adapter.
func (c *Context) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: Name, Type: gpucontext.AdapterTypeSoftware}
}

// ClientVersion returns the requested client version, or 0.
func (c *Context) ClientVersion() int { return c.clientVersion }

// Target returns the back buffer of the current surface, or nil when no
// surface is current.
func (c *Context) Target() *image.RGBA {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.target == nil {
		return nil
	}
	return c.target.back
}

func (c *Context) setTarget(s *Surface) {
	c.mu.Lock()
	c.target = s
	c.mu.Unlock()
}

// Surface is a window surface backed by an image.
type Surface struct {
	win       *Window
	back      *image.RGBA
	destroyed bool
}

// Size implements native.Surface.
func (s *Surface) Size() (width, height int) {
	b := s.back.Bounds()
	return b.Dx(), b.Dy()
}

// Back returns the back buffer.
func (s *Surface) Back() *image.RGBA { return s.back }

type display struct {
	drv *Driver

	mu          sync.Mutex
	initialized bool
	current     *Context
}

func (d *display) Initialize() (native.Version, error) {
	d.mu.Lock()
	d.initialized = true
	d.mu.Unlock()
	return d.drv.version, nil
}

func (d *display) checkInit(op string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.initialized {
		return &native.Error{Op: op, Status: native.StatusNotInitialized}
	}
	return nil
}

func (d *display) ChooseConfigs(f config.Filter) ([]config.Config, error) {
	if err := d.checkInit("choose config"); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	d.drv.mu.Lock()
	defer d.drv.mu.Unlock()
	var out []config.Config
	for _, c := range d.drv.configs {
		if c.Matches(f) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (d *display) CreateContext(cfg config.Config, attribs []config.AttribValue) (native.Context, error) {
	if err := d.checkInit("create context"); err != nil {
		return nil, err
	}
	ctx := &Context{cfg: cfg}
	for _, av := range attribs {
		if av.Attrib != native.AttribContextClientVersion {
			return nil, &native.Error{Op: "create context", Status: native.StatusBadAttribute}
		}
		ctx.clientVersion = av.Value
	}

	drv := d.drv
	drv.mu.Lock()
	defer drv.mu.Unlock()
	if drv.failContexts > 0 {
		drv.failContexts--
		return nil, &native.Error{Op: "create context", Status: native.StatusBadAlloc}
	}
	if drv.maxContexts > 0 && drv.stats.LiveContexts >= drv.maxContexts {
		native.Logger().Warn("software: context limit reached", "live", drv.stats.LiveContexts)
		return nil, &native.Error{Op: "create context", Status: native.StatusBadAlloc}
	}
	if !drv.knownConfig(cfg) {
		return nil, &native.Error{Op: "create context", Status: native.StatusBadConfig}
	}
	drv.stats.ContextsCreated++
	drv.stats.LiveContexts++
	if drv.stats.LiveContexts > drv.stats.PeakContexts {
		drv.stats.PeakContexts = drv.stats.LiveContexts
	}
	return ctx, nil
}

func (drv *Driver) knownConfig(cfg config.Config) bool {
	for _, c := range drv.configs {
		if c == cfg {
			return true
		}
	}
	return false
}

func (d *display) DestroyContext(nc native.Context) error {
	ctx, ok := nc.(*Context)
	if !ok {
		return &native.Error{Op: "destroy context", Status: native.StatusBadContext}
	}
	drv := d.drv
	drv.mu.Lock()
	defer drv.mu.Unlock()
	if drv.failDestroy {
		return &native.Error{Op: "destroy context", Status: native.StatusBadContext}
	}

	ctx.mu.Lock()
	defer ctx.mu.Unlock()
	if ctx.destroyed {
		return &native.Error{Op: "destroy context", Status: native.StatusBadContext}
	}
	ctx.destroyed = true
	ctx.target = nil
	drv.stats.ContextsDestroyed++
	drv.stats.LiveContexts--
	return nil
}

func (d *display) CreateWindowSurface(_ config.Config, nw native.Window) (native.Surface, error) {
	if err := d.checkInit("create window surface"); err != nil {
		return nil, err
	}
	win, ok := nw.(*Window)
	if !ok || !win.Valid() {
		return nil, &native.Error{Op: "create window surface", Status: native.StatusBadNativeWindow}
	}
	w, h := win.Size()
	if w <= 0 || h <= 0 {
		return nil, &native.Error{Op: "create window surface", Status: native.StatusBadNativeWindow}
	}

	drv := d.drv
	drv.mu.Lock()
	defer drv.mu.Unlock()
	if drv.failSurfaces > 0 {
		drv.failSurfaces--
		return nil, &native.Error{Op: "create window surface", Status: native.StatusBadNativeWindow}
	}
	drv.stats.SurfacesCreated++
	return &Surface{win: win, back: image.NewRGBA(image.Rect(0, 0, w, h))}, nil
}

func (d *display) DestroySurface(ns native.Surface) error {
	s, ok := ns.(*Surface)
	if !ok || s.destroyed {
		return &native.Error{Op: "destroy surface", Status: native.StatusBadSurface}
	}
	s.destroyed = true
	d.drv.mu.Lock()
	d.drv.stats.SurfacesDestroyed++
	d.drv.mu.Unlock()
	return nil
}

func (d *display) MakeCurrent(ns native.Surface, nc native.Context) error {
	s, ok := ns.(*Surface)
	if !ok || s.destroyed {
		return &native.Error{Op: "make current", Status: native.StatusBadSurface}
	}
	ctx, ok := nc.(*Context)
	if !ok {
		return &native.Error{Op: "make current", Status: native.StatusBadContext}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil && d.current != ctx {
		d.current.setTarget(nil)
	}
	ctx.setTarget(s)
	d.current = ctx
	return nil
}

func (d *display) ReleaseCurrent() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current != nil {
		d.current.setTarget(nil)
		d.current = nil
	}
	return nil
}

func (d *display) SwapBuffers(ns native.Surface) native.Status {
	s, ok := ns.(*Surface)
	if !ok || s.destroyed {
		return native.StatusBadSurface
	}

	drv := d.drv
	drv.mu.Lock()
	switch {
	case drv.loseContext:
		drv.loseContext = false
		drv.mu.Unlock()
		return native.StatusContextLost
	case drv.failSwaps > 0:
		drv.failSwaps--
		drv.mu.Unlock()
		return native.StatusBadSurface
	}
	drv.mu.Unlock()

	if !s.win.present(s.back) {
		return native.StatusBadNativeWindow
	}
	drv.mu.Lock()
	drv.stats.Swaps++
	drv.mu.Unlock()
	return native.StatusSuccess
}

func (d *display) DriverInfo(nc native.Context) (native.DriverInfo, error) {
	ctx, ok := nc.(*Context)
	if !ok {
		return native.DriverInfo{}, &native.Error{Op: "query driver", Status: native.StatusBadContext}
	}
	ctx.mu.Lock()
	destroyed := ctx.destroyed
	ctx.mu.Unlock()
	if destroyed {
		return native.DriverInfo{}, &native.Error{Op: "query driver", Status: native.StatusBadContext}
	}
	d.drv.mu.Lock()
	defer d.drv.mu.Unlock()
	return d.drv.info, nil
}

func (d *display) Terminate() error {
	d.mu.Lock()
	if d.current != nil {
		d.current.setTarget(nil)
		d.current = nil
	}
	d.initialized = false
	d.mu.Unlock()

	d.drv.mu.Lock()
	d.drv.stats.Terminates++
	d.drv.mu.Unlock()
	return nil
}

var (
	_ native.Display = (*display)(nil)
	_ native.Context = (*Context)(nil)
	_ native.Surface = (*Surface)(nil)
	_ native.Window  = (*Window)(nil)
)
