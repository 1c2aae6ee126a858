// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/gogpu/gputypes"
)

func TestSpecFilter(t *testing.T) {
	f := DefaultSpec().Filter(0)
	if len(f) != 6 {
		t.Fatalf("len(Filter(0)) = %d, want 6", len(f))
	}
	if _, ok := f.Get(AttribRenderableType); ok {
		t.Error("Filter(0) should not constrain the renderable type")
	}

	f = DefaultSpec().Filter(2)
	if v, ok := f.Get(AttribRenderableType); !ok || v != int(RenderableES2) {
		t.Errorf("Filter(2) renderable = %#x, %v; want %#x", v, ok, RenderableES2)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestSpecAccepts(t *testing.T) {
	s := DefaultSpec()
	tests := []struct {
		name string
		cfg  Config
		want bool
	}{
		{"exact", Config{Red: 5, Green: 6, Blue: 5, Depth: 16}, true},
		{"deeper depth", Config{Red: 5, Green: 6, Blue: 5, Depth: 24, Stencil: 8}, true},
		{"shallow depth", Config{Red: 5, Green: 6, Blue: 5, Depth: 8}, false},
		{"wider color", Config{Red: 8, Green: 8, Blue: 8, Depth: 16}, false},
		{"extra alpha", Config{Red: 5, Green: 6, Blue: 5, Alpha: 1, Depth: 16}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.Accepts(tt.cfg); got != tt.want {
				t.Errorf("Accepts(%v) = %v, want %v", tt.cfg, got, tt.want)
			}
		})
	}
}

func TestConfigMatches(t *testing.T) {
	cfg := Config{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24, Stencil: 8, Renderable: RenderableES2}

	if !cfg.Matches(DefaultSpec().Filter(2)) {
		t.Error("8888/24/8 should satisfy the 565/16 minimums")
	}
	if cfg.Matches(DefaultSpec().Filter(3)) {
		t.Error("ES2-only config should not match an ES3 filter")
	}
	if cfg.Matches(Filter{{AttribSamples, 4}}) {
		t.Error("single-sampled config should not match Samples=4")
	}
	if cfg.Matches(Filter{{Attrib(0x3099), 0}}) {
		t.Error("unknown attribute should never match")
	}
}

func TestFilterWith(t *testing.T) {
	base := Filter{{AttribRedSize, 5}}
	replaced := base.With(AttribRedSize, 8)
	appended := base.With(AttribSamples, 4)

	if v, _ := base.Get(AttribRedSize); v != 5 {
		t.Errorf("With mutated the receiver: red = %d", v)
	}
	if v, _ := replaced.Get(AttribRedSize); v != 8 || len(replaced) != 1 {
		t.Errorf("replaced = %v, want [RED_SIZE=8]", replaced)
	}
	if len(appended) != 2 {
		t.Errorf("appended = %v, want two entries", appended)
	}
}

func TestFilterValidate(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		ok   bool
	}{
		{"empty", nil, true},
		{"default", DefaultSpec().Filter(3), true},
		{"unknown", Filter{{Attrib(0x1), 1}}, false},
		{"negative", Filter{{AttribDepthSize, -1}}, false},
		{"duplicate", Filter{{AttribRedSize, 5}, {AttribRedSize, 8}}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.f.Validate()
			if tt.ok && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if !tt.ok && !errors.Is(err, ErrBadFilter) {
				t.Errorf("Validate() = %v, want ErrBadFilter", err)
			}
		})
	}
}

func TestConfigFormats(t *testing.T) {
	tests := []struct {
		cfg       Config
		wantColor gputypes.TextureFormat
		wantDS    gputypes.TextureFormat
		wantCount int
	}{
		{Config{Red: 8, Green: 8, Blue: 8, Alpha: 8}, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatUndefined, 1},
		{Config{Red: 8, Green: 8, Blue: 8, Depth: 24, Stencil: 8}, gputypes.TextureFormatBGRA8Unorm, gputypes.TextureFormatDepth24PlusStencil8, 1},
		{Config{Red: 5, Green: 6, Blue: 5, Depth: 16, SampleBuffers: 1, Samples: 4}, gputypes.TextureFormatUndefined, gputypes.TextureFormatDepth24PlusStencil8, 4},
		{Config{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 32}, gputypes.TextureFormatRGBA8Unorm, gputypes.TextureFormatUndefined, 1},
	}
	for _, tt := range tests {
		t.Run(tt.cfg.String(), func(t *testing.T) {
			if got := tt.cfg.ColorFormat(); got != tt.wantColor {
				t.Errorf("ColorFormat() = %v, want %v", got, tt.wantColor)
			}
			if got := tt.cfg.DepthStencilFormat(); got != tt.wantDS {
				t.Errorf("DepthStencilFormat() = %v, want %v", got, tt.wantDS)
			}
			if got := tt.cfg.SampleCount(); got != tt.wantCount {
				t.Errorf("SampleCount() = %d, want %d", got, tt.wantCount)
			}
		})
	}
}

func TestAntiAliasingText(t *testing.T) {
	var doc struct {
		Mode AntiAliasing `toml:"mode"`
		Spec Spec         `toml:"spec"`
	}
	src := "mode = \"Multisample\"\n[spec]\nred = 8\ngreen = 8\nblue = 8\nalpha = 8\ndepth = 24\n"
	if _, err := toml.Decode(src, &doc); err != nil {
		t.Fatalf("toml.Decode() error = %v", err)
	}
	if doc.Mode != AntiAliasingMultisample {
		t.Errorf("Mode = %v, want multisample", doc.Mode)
	}
	if want := (Spec{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 24}); doc.Spec != want {
		t.Errorf("Spec = %v, want %v", doc.Spec, want)
	}

	if _, err := ParseAntiAliasing("fxaa"); err == nil {
		t.Error("ParseAntiAliasing(\"fxaa\") should fail")
	}
	if got := AntiAliasing(9).String(); got != "AntiAliasing(9)" {
		t.Errorf("String() = %q", got)
	}
}
