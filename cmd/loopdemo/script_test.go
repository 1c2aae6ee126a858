// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/native/software"
)

func TestFrameColor(t *testing.T) {
	seen := map[[3]uint8]bool{}
	for i := 0; i < 12; i++ {
		c := frameColor(i)
		if c.A != 255 {
			t.Errorf("frameColor(%d).A = %d, want 255", i, c.A)
		}
		if c.R < 150 && c.G < 150 && c.B < 150 {
			t.Errorf("frameColor(%d) = %v has no full channel", i, c)
		}
		seen[[3]uint8{c.R, c.G, c.B}] = true
	}
	if len(seen) != 12 {
		t.Errorf("12 frames produced %d distinct colors", len(seen))
	}
	if frameColor(0) != frameColor(12) {
		t.Error("frameColor should cycle every 12 frames")
	}
}

func TestRunAll(t *testing.T) {
	cfg := demoConfig{
		Driver: software.Name,
		Frames: 4,
		Views: []viewConfig{
			{Name: "a", Width: 40, Height: 20},
			{Name: "b", Width: 16, Height: 16, Mode: renderloop.RenderContinuously, Preserve: true},
		},
	}
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	results, err := runAll(ctx, cfg)
	if err != nil {
		t.Fatalf("runAll() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	wantSize := map[string]image.Rectangle{
		"a": image.Rect(0, 0, 60, 30),
		"b": image.Rect(0, 0, 24, 24),
	}
	for _, res := range results {
		s := res.stats
		if s.frames < cfg.Frames {
			t.Errorf("%s: frames = %d, want >= %d", res.name, s.frames, cfg.Frames)
		}
		if s.contexts < 1 || s.resizes < 2 || s.pauses != 1 {
			t.Errorf("%s: stats = %+v", res.name, s)
		}
		if res.presents < 1 {
			t.Errorf("%s: presents = %d", res.name, res.presents)
		}
		if res.frame == nil {
			t.Fatalf("%s: no frame presented", res.name)
		}
		if got := res.frame.Bounds(); got != wantSize[res.name] {
			t.Errorf("%s: frame bounds = %v, want %v", res.name, got, wantSize[res.name])
		}
		if c := res.frame.RGBAAt(0, 0); c.A != 255 || (c.R < 150 && c.G < 150 && c.B < 150) {
			t.Errorf("%s: pixel (0,0) = %v, want a frame color", res.name, c)
		}
	}
	if got := results[1].stats.frameRate; got != 0 {
		t.Errorf("continuous view frame rate = %v, want 0", got)
	}
	if got := results[0].stats.frameRate; got != 60 {
		t.Errorf("when-dirty view frame rate = %v, want 60", got)
	}

	dir := t.TempDir()
	if err := writeFrames(dir, results); err != nil {
		t.Fatalf("writeFrames() error = %v", err)
	}
	for _, name := range []string{"a", "b"} {
		if _, err := os.Stat(filepath.Join(dir, name+".png")); err != nil {
			t.Error(err)
		}
	}

	var buf bytes.Buffer
	printSummary(&buf, language.English, results)
	if lines := strings.Count(buf.String(), "\n"); lines != 2 {
		t.Errorf("summary has %d lines, want 2:\n%s", lines, buf.String())
	}
	if !strings.Contains(buf.String(), "a.png") {
		t.Errorf("summary does not name the written file:\n%s", buf.String())
	}
}

func TestRunUnknownDriver(t *testing.T) {
	err := run([]string{"-driver", "nonexistent", "-views", "1", "-out", ""})
	if err == nil {
		t.Fatal("run() with an unknown driver should fail")
	}
}

func TestRunFlags(t *testing.T) {
	dir := t.TempDir()
	err := run([]string{"-views", "1", "-frames", "2", "-width", "8", "-height", "8", "-out", dir})
	if err != nil {
		t.Fatalf("run() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "view0.png")); err != nil {
		t.Error(err)
	}
	if err := run([]string{"-mode", "never"}); err == nil {
		t.Error("run() with a bad -mode should fail")
	}
}
