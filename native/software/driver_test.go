// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

func startHelper(t *testing.T, drv *Driver) *native.Helper {
	t.Helper()
	h := native.NewHelper(drv.Display(), config.NewComponentSizeChooser(8, 8, 8, 8, 16, 0, 2), native.DefaultContextFactory{ClientVersion: 2}, nil)
	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(func() { _ = h.Terminate() })
	return h
}

func TestRegistered(t *testing.T) {
	entry, ok := native.Get(Name)
	if !ok {
		t.Fatal("software driver not registered")
	}
	if entry.Priority != 10 {
		t.Errorf("Priority = %d, want 10", entry.Priority)
	}
	d, err := native.Open(Name)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if _, err := d.Initialize(); err != nil {
		t.Errorf("Initialize() error = %v", err)
	}
}

func TestSwapPresentsBackBuffer(t *testing.T) {
	drv := New()
	h := startHelper(t, drv)
	win := NewWindow(16, 8)

	if err := h.CreateSurface(win); err != nil {
		t.Fatalf("CreateSurface() error = %v", err)
	}
	ctx := h.Context().(*Context)
	if ctx.ClientVersion() != 2 {
		t.Errorf("ClientVersion() = %d, want 2", ctx.ClientVersion())
	}
	if ctx.SurfaceFormat() != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("SurfaceFormat() = %v, want RGBA8Unorm", ctx.SurfaceFormat())
	}
	if got, want := ctx.AdapterInfo(), (gpucontext.AdapterInfo{Name: Name, Type: gpucontext.AdapterTypeSoftware}); got != want {
		t.Errorf("AdapterInfo() = %+v, want %+v", got, want)
	}
	if ctx.Device() != nil || ctx.Queue() != nil {
		t.Error("software context exposes a GPU device")
	}
	target := ctx.Target()
	if target == nil {
		t.Fatal("Target() = nil with a current surface")
	}
	red := color.RGBA{R: 255, A: 255}
	target.SetRGBA(3, 2, red)

	if s := h.Swap(); s != native.StatusSuccess {
		t.Fatalf("Swap() = %v, want SUCCESS", s)
	}
	frame := win.Frame()
	if frame == nil {
		t.Fatal("Frame() = nil after a swap")
	}
	if got := frame.RGBAAt(3, 2); got != red {
		t.Errorf("presented pixel = %v, want %v", got, red)
	}
	if win.Presents() != 1 || drv.Stats().Swaps != 1 {
		t.Errorf("presents = %d, swaps = %d; want 1, 1", win.Presents(), drv.Stats().Swaps)
	}
}

func TestSwapScalesStaleSurface(t *testing.T) {
	h := startHelper(t, New())
	win := NewWindow(8, 8)
	if err := h.CreateSurface(win); err != nil {
		t.Fatal(err)
	}
	win.Resize(16, 4)

	if s := h.Swap(); s != native.StatusSuccess {
		t.Fatalf("Swap() = %v", s)
	}
	if got, want := win.Frame().Bounds(), image.Rect(0, 0, 16, 4); got != want {
		t.Errorf("frame bounds = %v, want %v", got, want)
	}
	if w, hgt := h.Surface().Size(); w != 8 || hgt != 8 {
		t.Errorf("surface size = %dx%d, want 8x8 until recreated", w, hgt)
	}
}

func TestFailureInjection(t *testing.T) {
	drv := New()
	h := startHelper(t, drv)
	win := NewWindow(4, 4)

	drv.FailNextSurfaces(1)
	if err := h.CreateSurface(win); !errors.Is(err, native.ErrBadNativeWindow) {
		t.Fatalf("CreateSurface() = %v, want ErrBadNativeWindow", err)
	}
	if err := h.CreateSurface(win); err != nil {
		t.Fatalf("CreateSurface() after one failure = %v", err)
	}

	drv.LoseContext()
	if s := h.Swap(); s != native.StatusContextLost {
		t.Errorf("Swap() = %v, want CONTEXT_LOST", s)
	}
	drv.FailNextSwaps(1)
	if s := h.Swap(); s != native.StatusBadSurface {
		t.Errorf("Swap() = %v, want BAD_SURFACE", s)
	}
	if s := h.Swap(); s != native.StatusSuccess {
		t.Errorf("Swap() = %v, want SUCCESS", s)
	}

	win.Invalidate()
	if s := h.Swap(); s != native.StatusBadNativeWindow {
		t.Errorf("Swap() on invalidated window = %v, want BAD_NATIVE_WINDOW", s)
	}
	if err := h.CreateSurface(win); !errors.Is(err, native.ErrBadNativeWindow) {
		t.Errorf("CreateSurface(invalidated) = %v, want ErrBadNativeWindow", err)
	}
}

func TestContextLimit(t *testing.T) {
	drv := New(WithMaxContexts(1))
	startHelper(t, drv)

	h2 := native.NewHelper(drv.Display(), config.NewComponentSizeChooser(8, 8, 8, 8, 16, 0, 0), nil, nil)
	err := h2.Start()
	var nerr *native.Error
	if !errors.As(err, &nerr) || nerr.Status != native.StatusBadAlloc {
		t.Fatalf("second Start() = %v, want BAD_ALLOC", err)
	}
	if got := drv.Stats().PeakContexts; got != 1 {
		t.Errorf("PeakContexts = %d, want 1", got)
	}
}

func TestDestroyContextTwice(t *testing.T) {
	drv := New()
	d := drv.Display()
	if _, err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	ctx, err := d.CreateContext(DefaultConfigs()[0], nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.DestroyContext(ctx); err != nil {
		t.Fatalf("DestroyContext() = %v", err)
	}
	if err := d.DestroyContext(ctx); err == nil {
		t.Error("second DestroyContext() should fail")
	}
	if _, err := d.DriverInfo(ctx); err == nil {
		t.Error("DriverInfo() on a destroyed context should fail")
	}
	if got := drv.Stats(); got.ContextsDestroyed != 1 || got.LiveContexts != 0 {
		t.Errorf("Stats() = %+v, want one destroy and no live contexts", got)
	}
}

func TestRequiresInitialize(t *testing.T) {
	d := New().Display()
	_, err := d.ChooseConfigs(nil)
	var nerr *native.Error
	if !errors.As(err, &nerr) || nerr.Status != native.StatusNotInitialized {
		t.Errorf("ChooseConfigs() before Initialize = %v, want NOT_INITIALIZED", err)
	}
}

func TestUnknownConfigRejected(t *testing.T) {
	d := New().Display()
	if _, err := d.Initialize(); err != nil {
		t.Fatal(err)
	}
	_, err := d.CreateContext(config.Config{ID: 99, Red: 1}, nil)
	var nerr *native.Error
	if !errors.As(err, &nerr) || nerr.Status != native.StatusBadConfig {
		t.Errorf("CreateContext(unknown) = %v, want BAD_CONFIG", err)
	}
}
