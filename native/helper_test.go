// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/renderloop/config"
)

func newStubHelper(d *stubDisplay) *Helper {
	return NewHelper(d, config.NewComponentSizeChooser(5, 6, 5, 0, 16, 0, 2), DefaultContextFactory{ClientVersion: 2}, nil)
}

func TestHelperLifecycle(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	h := newStubHelper(d)

	if err := h.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cfg, ok := h.Config()
	if !ok || cfg.ID != 2 {
		t.Errorf("Config() = %v, %v; want config#2", cfg, ok)
	}
	if h.Context() == nil {
		t.Fatal("Context() = nil after Start")
	}
	if err := h.CreateSurface(&stubWindow{w: 64, h: 32}); err != nil {
		t.Fatalf("CreateSurface() error = %v", err)
	}
	if s := h.Swap(); s != StatusSuccess {
		t.Errorf("Swap() = %v, want SUCCESS", s)
	}
	h.DestroySurface()
	if err := h.DestroyContext(); err != nil {
		t.Fatalf("DestroyContext() error = %v", err)
	}
	if err := h.Terminate(); err != nil {
		t.Fatalf("Terminate() error = %v", err)
	}

	want := []string{
		"init", "choose", "create-context",
		"create-surface", "make-current", "swap",
		"release-current", "destroy-surface", "destroy-context",
		"terminate",
	}
	if diff := cmp.Diff(want, d.calls); diff != "" {
		t.Errorf("native calls mismatch (-want +got):\n%s", diff)
	}
	if d.liveContexts != 0 || d.liveSurfaces != 0 {
		t.Errorf("leaked contexts=%d surfaces=%d", d.liveContexts, d.liveSurfaces)
	}
}

func TestHelperConfigResolvedOnce(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	h := newStubHelper(d)

	for i := 0; i < 3; i++ {
		if err := h.Start(); err != nil {
			t.Fatalf("Start() #%d error = %v", i, err)
		}
		if err := h.DestroyContext(); err != nil {
			t.Fatalf("DestroyContext() error = %v", err)
		}
	}
	chooses := 0
	for _, c := range d.calls {
		if c == "choose" {
			chooses++
		}
	}
	if chooses != 1 {
		t.Errorf("config chosen %d times, want 1", chooses)
	}
	if d.initCalls != 1 {
		t.Errorf("Initialize called %d times, want 1", d.initCalls)
	}

	// A terminated display is initialized again on the next start.
	if err := h.Terminate(); err != nil {
		t.Fatal(err)
	}
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	if d.initCalls != 2 {
		t.Errorf("Initialize called %d times after terminate, want 2", d.initCalls)
	}
}

func TestHelperClientVersionAttrib(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	if err := newStubHelper(d).Start(); err != nil {
		t.Fatal(err)
	}
	want := []config.AttribValue{{Attrib: AttribContextClientVersion, Value: 2}}
	if diff := cmp.Diff(want, d.lastAttribs); diff != "" {
		t.Errorf("context attribs mismatch (-want +got):\n%s", diff)
	}

	d = &stubDisplay{configs: stubConfigs()}
	h := NewHelper(d, config.NewComponentSizeChooser(5, 6, 5, 0, 16, 0, 0), nil, nil)
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	if d.lastAttribs != nil {
		t.Errorf("version-less context got attribs %v", d.lastAttribs)
	}
}

func TestHelperStartFailures(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		display *stubDisplay
		want    error
	}{
		{"initialize", &stubDisplay{configs: stubConfigs(), initErr: boom}, boom},
		{"no config", &stubDisplay{}, config.ErrNoMatchingConfig},
		{"create context", &stubDisplay{configs: stubConfigs(), contextErr: boom}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newStubHelper(tt.display)
			err := h.Start()
			if !errors.Is(err, tt.want) {
				t.Fatalf("Start() error = %v, want %v", err, tt.want)
			}
			if h.Context() != nil {
				t.Error("Context() should be nil after a failed start")
			}
		})
	}
}

func TestHelperCreateSurfaceFailures(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	h := newStubHelper(d)

	if err := h.CreateSurface(&stubWindow{w: 1, h: 1}); !errors.Is(err, ErrNoContext) {
		t.Fatalf("CreateSurface() without context = %v, want ErrNoContext", err)
	}
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}

	err := h.CreateSurface(&stubWindow{w: 1, h: 1, invalid: true})
	if !errors.Is(err, ErrBadNativeWindow) {
		t.Errorf("CreateSurface(invalid) = %v, want ErrBadNativeWindow", err)
	}

	d.surfaceErr = &Error{Op: "create window surface", Status: StatusBadNativeWindow}
	err = h.CreateSurface(&stubWindow{w: 1, h: 1})
	if !errors.Is(err, ErrBadNativeWindow) {
		t.Errorf("CreateSurface(race) = %v, want ErrBadNativeWindow", err)
	}
	if s := h.Swap(); s != StatusBadSurface {
		t.Errorf("Swap() without surface = %v, want BAD_SURFACE", s)
	}

	d.surfaceErr = nil
	if err := h.CreateSurface(&stubWindow{w: 4, h: 4}); err != nil {
		t.Fatalf("CreateSurface() after recovery = %v", err)
	}
	// Rebinding destroys the previous surface first.
	if err := h.CreateSurface(&stubWindow{w: 8, h: 8}); err != nil {
		t.Fatal(err)
	}
	if d.liveSurfaces != 1 {
		t.Errorf("live surfaces = %d, want 1", d.liveSurfaces)
	}
	if w, _ := h.Surface().Size(); w != 8 {
		t.Errorf("surface width = %d, want 8", w)
	}
}

func TestHelperDestroyContextFailure(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	h := newStubHelper(d)
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	d.destroyErr = &Error{Op: "destroy context", Status: StatusBadContext}

	err := h.DestroyContext()
	if !errors.Is(err, ErrContextDestroyFailed) {
		t.Fatalf("DestroyContext() = %v, want ErrContextDestroyFailed", err)
	}
	if h.Context() != nil {
		t.Error("helper should forget the context after a failed destroy")
	}
	if err := h.DestroyContext(); err != nil {
		t.Errorf("second DestroyContext() = %v, want nil", err)
	}
}

func TestHelperDriverInfo(t *testing.T) {
	d := &stubDisplay{configs: stubConfigs()}
	h := newStubHelper(d)
	if _, err := h.DriverInfo(); !errors.Is(err, ErrNoContext) {
		t.Errorf("DriverInfo() without context = %v, want ErrNoContext", err)
	}
	if err := h.Start(); err != nil {
		t.Fatal(err)
	}
	info, err := h.DriverInfo()
	if err != nil {
		t.Fatal(err)
	}
	if info.Renderer != "stub renderer" {
		t.Errorf("Renderer = %q", info.Renderer)
	}
}

func TestNullDeviceProvider(t *testing.T) {
	var p gpucontext.DeviceProvider = &stubContext{}
	if p.Device() != nil || p.Queue() != nil || p.Adapter() != nil {
		t.Error("NullDeviceProvider exposes a device")
	}
	if got := p.SurfaceFormat(); got != gputypes.TextureFormatUndefined {
		t.Errorf("SurfaceFormat() = %v, want Undefined", got)
	}
	if got := p.AdapterInfo(); got.Type != gpucontext.AdapterTypeUnknown || got.Name != "" {
		t.Errorf("AdapterInfo() = %+v, want unknown adapter", got)
	}
}
