// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/config"
)

func writeConfig(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "demo.toml")
	if err := os.WriteFile(path, []byte(src), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
driver = "software"
frames = 6

[[view]]
name = "main"
width = 64
height = 48
mode = "continuously"
anti_aliasing = "multisample"
samples = 4

[[view]]
name = "preview"
width = 32
height = 32
preserve = true
client_version = 3
[view.format]
red = 5
green = 6
blue = 5
depth = 16
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() error = %v", err)
	}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize() error = %v", err)
	}

	want := demoConfig{
		Driver: "software",
		Output: ".",
		Frames: 6,
		Views: []viewConfig{
			{
				Name: "main", Width: 64, Height: 48,
				Mode:          renderloop.RenderContinuously,
				AntiAliasing:  config.AntiAliasingMultisample,
				Samples:       4,
				ClientVersion: 2,
				Format:        &demoFormat,
			},
			{
				Name: "preview", Width: 32, Height: 32,
				Preserve:      true,
				ClientVersion: 3,
				Format:        &config.Spec{Red: 5, Green: 6, Blue: 5, Depth: 16},
			},
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"unknown key", "colour = 1\n", "unknown keys"},
		{"bad mode", "[[view]]\nmode = \"sometimes\"\n", "invalid render mode"},
		{"bad anti-aliasing", "[[view]]\nanti_aliasing = \"fxaa\"\n", "unknown anti-aliasing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.src))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("loadConfig() error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		cfg  demoConfig
		want string
	}{
		{"no frames", demoConfig{Views: []viewConfig{{Width: 1, Height: 1}}}, "frames"},
		{"no views", demoConfig{Frames: 1}, "no views"},
		{"duplicate", demoConfig{Frames: 1, Views: []viewConfig{
			{Name: "a", Width: 1, Height: 1}, {Name: "a", Width: 1, Height: 1},
		}}, "duplicate"},
		{"empty size", demoConfig{Frames: 1, Views: []viewConfig{{Width: 0, Height: 1}}}, "must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.normalize()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("normalize() error = %v, want %q", err, tt.want)
			}
		})
	}

	cfg := demoConfig{Frames: 1, Views: []viewConfig{{Width: 1, Height: 1}, {Width: 1, Height: 1}}}
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize() error = %v", err)
	}
	if cfg.Views[0].Name != "view0" || cfg.Views[1].Name != "view1" {
		t.Errorf("names = %q, %q; want view0, view1", cfg.Views[0].Name, cfg.Views[1].Name)
	}
}
