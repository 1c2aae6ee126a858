// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/host"
	"github.com/gogpu/renderloop/native"
	"github.com/gogpu/renderloop/native/software"
)

// viewResult is what one scripted view produced.
type viewResult struct {
	name     string
	stats    rendererStats
	presents int
	frame    *image.RGBA
	file     string
}

// runAll drives every configured view concurrently. The views share one
// arbiter, so on single-context drivers they take turns owning the GPU.
func runAll(ctx context.Context, cfg demoConfig) ([]viewResult, error) {
	arbiter := renderloop.NewArbiter()
	results := make([]viewResult, len(cfg.Views))

	g, ctx := errgroup.WithContext(ctx)
	for i, vc := range cfg.Views {
		g.Go(func() error {
			res, err := runView(ctx, arbiter, cfg, vc)
			if err != nil {
				return fmt.Errorf("view %s: %w", vc.Name, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runView plays the host lifecycle against one view: the surface appears,
// frames are drawn, the window is resized, the host pauses and resumes,
// more frames are drawn, and the surface goes away.
func runView(ctx context.Context, arbiter *renderloop.Arbiter, cfg demoConfig, vc viewConfig) (res viewResult, err error) {
	display, err := native.Open(cfg.Driver)
	if err != nil {
		return res, err
	}
	r, err := newDemoRenderer(vc.Name)
	if err != nil {
		return res, err
	}

	v := host.New(arbiter, display,
		host.WithName(vc.Name),
		host.WithRenderMode(vc.Mode),
		host.WithAntiAliasing(vc.AntiAliasing, vc.Samples),
		host.WithPixelFormat(*vc.Format),
		host.WithClientVersion(vc.ClientVersion),
		host.WithPreserveContextOnPause(vc.Preserve),
	)
	defer func() {
		if cerr := v.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if err := v.SetRenderer(r); err != nil {
		return res, err
	}

	win := software.NewWindow(vc.Width, vc.Height)
	if err := v.OnSurfaceAvailable(win, vc.Width, vc.Height); err != nil {
		return res, err
	}

	first := cfg.Frames / 2
	if first == 0 {
		first = 1
	}
	if err := waitFrames(ctx, v, r, first); err != nil {
		return res, err
	}

	w, h := vc.Width+vc.Width/2, vc.Height+vc.Height/2
	win.Resize(w, h)
	if err := v.OnSurfaceResized(w, h); err != nil {
		return res, err
	}

	if err := v.OnHostPaused(); err != nil {
		return res, err
	}
	if err := v.OnHostResumed(); err != nil {
		return res, err
	}
	if err := waitFrames(ctx, v, r, cfg.Frames); err != nil {
		return res, err
	}

	res = viewResult{
		name:     vc.Name,
		stats:    r.stats(),
		presents: win.Presents(),
		frame:    win.Frame(),
	}
	if err := v.OnSurfaceDestroyed(); err != nil {
		return res, err
	}
	return res, nil
}

// waitFrames requests frames until the renderer has drawn at least n.
func waitFrames(ctx context.Context, v *host.View, r *demoRenderer, n int) error {
	for r.stats().frames < n {
		if err := v.RequestRender(); err != nil {
			return err
		}
		select {
		case <-r.drawn:
		case <-ctx.Done():
			return fmt.Errorf("waiting for frame %d: %w", r.stats().frames+1, ctx.Err())
		}
	}
	return nil
}

// writeFrames saves the last presented frame of each view as a PNG in dir.
// Views whose driver does not present to memory are skipped.
func writeFrames(dir string, results []viewResult) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i := range results {
		res := &results[i]
		if res.frame == nil {
			continue
		}
		path := filepath.Join(dir, res.name+".png")
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		if err := png.Encode(f, res.frame); err != nil {
			f.Close()
			return fmt.Errorf("encode %s: %w", path, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		res.file = path
	}
	return nil
}

func printSummary(w io.Writer, tag language.Tag, results []viewResult) {
	p := message.NewPrinter(tag)
	for _, res := range results {
		s := res.stats
		p.Fprintf(w, "%-10s %v  frames=%d presents=%d contexts=%d resizes=%d pauses=%d fps=%.1f",
			res.name, s.cfg, s.frames, res.presents, s.contexts, s.resizes, s.pauses, s.frameRate)
		if res.file != "" {
			p.Fprintf(w, "  -> %s", res.file)
		}
		p.Fprintln(w)
	}
}
