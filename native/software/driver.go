// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software is a pure-Go native driver. Surfaces are image buffers,
// swaps copy the back buffer into the window, and every native failure a
// render thread must survive can be injected.
//
// The driver registers itself as "software":
//
//	import _ "github.com/gogpu/renderloop/native/software"
//
// Tests construct a Driver directly to inject failures and inspect stats:
//
//	drv := software.New(software.WithMaxContexts(1))
//	drv.FailNextSurfaces(1)
//	display := drv.Display()
package software

import (
	"sync"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Name is the registry name of the driver.
const Name = "software"

func init() {
	native.Register(Name, 10, func() (native.Display, error) {
		return New().Display(), nil
	}, nil)
}

// Stats counts native objects over the lifetime of a driver.
type Stats struct {
	ContextsCreated   int
	ContextsDestroyed int
	LiveContexts      int

	// PeakContexts is the largest LiveContexts value observed.
	PeakContexts int

	SurfacesCreated   int
	SurfacesDestroyed int
	Swaps             int
	Terminates        int
}

// Driver is the shared state of every display opened on it: the config
// table, the driver strings, the context limit and pending failures.
type Driver struct {
	mu sync.Mutex

	configs     []config.Config
	info        native.DriverInfo
	version     native.Version
	maxContexts int

	failSurfaces int
	failContexts int
	failSwaps    int
	loseContext  bool
	failDestroy  bool

	stats Stats
}

// Option configures a Driver.
type Option func(*Driver)

// WithConfigs replaces the config table. Enumeration preserves its order.
func WithConfigs(configs []config.Config) Option {
	return func(d *Driver) {
		d.configs = append([]config.Config(nil), configs...)
	}
}

// WithDriverInfo sets the strings reported once a context is current.
func WithDriverInfo(info native.DriverInfo) Option {
	return func(d *Driver) { d.info = info }
}

// WithVersion sets the API version reported by Initialize.
func WithVersion(v native.Version) Option {
	return func(d *Driver) { d.version = v }
}

// WithMaxContexts limits the number of live contexts across all displays.
// Creating one more fails with BAD_ALLOC. Zero means unlimited.
func WithMaxContexts(n int) Option {
	return func(d *Driver) { d.maxContexts = n }
}

// New returns a driver with the default config table.
func New(opts ...Option) *Driver {
	d := &Driver{
		configs: DefaultConfigs(),
		version: native.Version{Major: 3, Minor: 0},
		info: native.DriverInfo{
			Vendor:   "gogpu",
			Renderer: "software",
			Version:  "3.0 software",
			API:      native.Version{Major: 3, Minor: 0},
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DefaultConfigs returns the config table of a new driver.
func DefaultConfigs() []config.Config {
	es := config.RenderableES2 | config.RenderableES3
	return []config.Config{
		{ID: 1, Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, Renderable: es},
		{ID: 2, Red: 8, Green: 8, Blue: 8, Alpha: 0, Depth: 24, Stencil: 8, Renderable: es},
		{ID: 3, Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 16, Renderable: es},
		{ID: 4, Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 24, Stencil: 8, Renderable: es},
		{ID: 5, Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, SampleBuffers: 1, Samples: 4, Renderable: es},
		{ID: 6, Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 16, CoverageBuffers: 1, CoverageSamples: 2, Renderable: config.RenderableES2},
	}
}

// Display opens a new display on the driver.
func (d *Driver) Display() native.Display {
	return &display{drv: d}
}

// FailNextSurfaces makes the next n window surface creations fail with
// BAD_NATIVE_WINDOW, as if the host tore the window down concurrently.
func (d *Driver) FailNextSurfaces(n int) {
	d.mu.Lock()
	d.failSurfaces = n
	d.mu.Unlock()
}

// FailNextContexts makes the next n context creations fail with BAD_ALLOC.
func (d *Driver) FailNextContexts(n int) {
	d.mu.Lock()
	d.failContexts = n
	d.mu.Unlock()
}

// FailNextSwaps makes the next n swaps report BAD_SURFACE.
func (d *Driver) FailNextSwaps(n int) {
	d.mu.Lock()
	d.failSwaps = n
	d.mu.Unlock()
}

// LoseContext makes the next swap report CONTEXT_LOST.
func (d *Driver) LoseContext() {
	d.mu.Lock()
	d.loseContext = true
	d.mu.Unlock()
}

// FailContextDestroy makes every context destroy fail while set.
func (d *Driver) FailContextDestroy(fail bool) {
	d.mu.Lock()
	d.failDestroy = fail
	d.mu.Unlock()
}

// Stats returns a snapshot of the driver counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}
