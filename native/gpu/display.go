// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Name is the registry name of the driver.
const Name = "vulkan"

// swapTimeout bounds the completion wait of one present.
const swapTimeout = 5 * time.Second

func init() {
	native.Register(Name, 100, Open, Available)
}

// Available reports whether the Vulkan HAL backend is compiled in.
func Available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// Open returns an uninitialized display. The HAL instance is created by
// Initialize.
func Open() (native.Display, error) {
	return &Display{}, nil
}

// Display is a HAL instance with one selected adapter.
type Display struct {
	mu       sync.Mutex
	instance hal.Instance
	adapter  hal.ExposedAdapter
	configs  []config.Config
	current  *Context
}

// Initialize creates the instance and selects a discrete or integrated
// adapter, falling back to the first one.
func (d *Display) Initialize() (native.Version, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.instance != nil {
		return apiVersion, nil
	}

	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return native.Version{}, &native.Error{Op: "initialize", Status: native.StatusBadDisplay}
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return native.Version{}, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return native.Version{}, &native.Error{Op: "initialize", Status: native.StatusNotInitialized}
	}
	selected := adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = adapters[i]
			break
		}
	}

	d.instance = instance
	d.adapter = selected
	d.configs = synthesizeConfigs()
	native.Logger().Info("gpu: display initialized", "adapter", selected.Info.Name)
	return apiVersion, nil
}

// apiVersion is the API version reported by Vulkan displays.
var apiVersion = native.Version{Major: 1, Minor: 0}

// synthesizeConfigs lists the render target formats the driver allocates:
// RGBA8 and BGRA8 color, with and without Depth24PlusStencil8, single
// sampled and 4x multisampled.
func synthesizeConfigs() []config.Config {
	es := config.RenderableES2 | config.RenderableES3
	var out []config.Config
	id := 1
	for _, alpha := range []int{8, 0} {
		for _, ds := range [][2]int{{24, 8}, {0, 0}} {
			for _, samples := range []int{1, 4} {
				c := config.Config{
					ID:  id,
					Red: 8, Green: 8, Blue: 8, Alpha: alpha,
					Depth: ds[0], Stencil: ds[1],
					Renderable: es,
				}
				if samples > 1 {
					c.SampleBuffers = 1
					c.Samples = samples
				}
				out = append(out, c)
				id++
			}
		}
	}
	return out
}

func (d *Display) checkInit(op string) error {
	if d.instance == nil {
		return &native.Error{Op: op, Status: native.StatusNotInitialized}
	}
	return nil
}

// ChooseConfigs implements config.Enumerator.
func (d *Display) ChooseConfigs(f config.Filter) ([]config.Config, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkInit("choose config"); err != nil {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	var out []config.Config
	for _, c := range d.configs {
		if c.Matches(f) {
			out = append(out, c)
		}
	}
	return out, nil
}

// CreateContext opens a device on the adapter and builds the present
// pipeline. Context attributes are accepted and ignored.
func (d *Display) CreateContext(cfg config.Config, _ []config.AttribValue) (native.Context, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkInit("create context"); err != nil {
		return nil, err
	}
	if cfg.ColorFormat() == gputypes.TextureFormatUndefined {
		return nil, &native.Error{Op: "create context", Status: native.StatusBadConfig}
	}

	openDev, err := d.adapter.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("gpu: open device: %w", err)
	}
	blit, err := newPresentPipeline(openDev.Device, cfg.ColorFormat())
	if err != nil {
		openDev.Device.Destroy()
		return nil, fmt.Errorf("gpu: %w", err)
	}
	native.Logger().Debug("gpu: context created", "config", cfg.String())
	return &Context{
		cfg:     cfg,
		device:  openDev.Device,
		queue:   openDev.Queue,
		adapter: d.adapter.Adapter,
		info:    d.adapter.Info,
		blit:    blit,
	}, nil
}

// DestroyContext releases the present pipeline and the device.
func (d *Display) DestroyContext(nc native.Context) error {
	ctx, ok := nc.(*Context)
	if !ok || ctx.device == nil {
		return &native.Error{Op: "destroy context", Status: native.StatusBadContext}
	}
	d.mu.Lock()
	if d.current == ctx {
		d.current = nil
	}
	d.mu.Unlock()

	ctx.blit.destroy()
	ctx.device.Destroy()
	ctx.device = nil
	ctx.queue = nil
	ctx.adapter = nil
	ctx.blit = nil
	return nil
}

// CreateWindowSurface records the window size. Render targets are
// allocated on MakeCurrent, where the device is known.
func (d *Display) CreateWindowSurface(cfg config.Config, win native.Window) (native.Surface, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.checkInit("create window surface"); err != nil {
		return nil, err
	}
	if win == nil || !win.Valid() {
		return nil, &native.Error{Op: "create window surface", Status: native.StatusBadNativeWindow}
	}
	w, h := win.Size()
	if w <= 0 || h <= 0 {
		return nil, &native.Error{Op: "create window surface", Status: native.StatusBadNativeWindow}
	}
	return &Surface{win: win, cfg: cfg, width: uint32(w), height: uint32(h)}, nil //nolint:gosec // checked positive
}

// DestroySurface releases the render targets.
func (d *Display) DestroySurface(ns native.Surface) error {
	s, ok := ns.(*Surface)
	if !ok {
		return &native.Error{Op: "destroy surface", Status: native.StatusBadSurface}
	}
	s.destroyTargets()
	return nil
}

// MakeCurrent allocates the render targets of s on the device of ctx.
func (d *Display) MakeCurrent(ns native.Surface, nc native.Context) error {
	s, ok := ns.(*Surface)
	if !ok {
		return &native.Error{Op: "make current", Status: native.StatusBadSurface}
	}
	ctx, ok := nc.(*Context)
	if !ok || ctx.device == nil {
		return &native.Error{Op: "make current", Status: native.StatusBadContext}
	}
	if err := s.ensureTargets(ctx); err != nil {
		return fmt.Errorf("gpu: make current: %w", err)
	}
	d.mu.Lock()
	d.current = ctx
	d.mu.Unlock()
	return nil
}

// ReleaseCurrent forgets the current context.
func (d *Display) ReleaseCurrent() error {
	d.mu.Lock()
	d.current = nil
	d.mu.Unlock()
	return nil
}

// SwapBuffers clears the color target with the context clear color, draws
// the frame into the present target, submits and waits.
func (d *Display) SwapBuffers(ns native.Surface) native.Status {
	s, ok := ns.(*Surface)
	if !ok || s.colorView == nil {
		return native.StatusBadSurface
	}
	if !s.win.Valid() {
		return native.StatusBadNativeWindow
	}
	d.mu.Lock()
	ctx := d.current
	d.mu.Unlock()
	if ctx == nil || ctx.device == nil {
		return native.StatusBadContext
	}
	return ctx.present(s)
}

// DriverInfo reports the adapter name.
func (d *Display) DriverInfo(nc native.Context) (native.DriverInfo, error) {
	ctx, ok := nc.(*Context)
	if !ok || ctx.device == nil {
		return native.DriverInfo{}, &native.Error{Op: "query driver", Status: native.StatusBadContext}
	}
	return native.DriverInfo{
		Vendor:   "gogpu/wgpu",
		Renderer: ctx.info.Name,
		Version:  fmt.Sprintf("Vulkan HAL (%v)", ctx.AdapterInfo().Type),
		API:      apiVersion,
	}, nil
}

// Terminate destroys the instance.
func (d *Display) Terminate() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.instance != nil {
		d.instance.Destroy()
		d.instance = nil
	}
	d.current = nil
	return nil
}

var _ native.Display = (*Display)(nil)
