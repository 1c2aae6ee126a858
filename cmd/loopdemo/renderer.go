// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
	"github.com/gogpu/renderloop/native/software"
)

// clearColorSetter is implemented by GPU contexts.
type clearColorSetter interface {
	SetClearColor(r, g, b, a float64)
}

// demoRenderer clears to a color that cycles with the frame count and
// stamps the view name and frame number onto software targets.
type demoRenderer struct {
	name string
	face font.Face

	// Render goroutine only.
	ctx           native.Context
	width, height int

	mu        sync.Mutex
	frames    int
	contexts  int
	resizes   int
	pauses    int
	frameRate float64
	cfg       config.Config

	drawn chan struct{}
}

func newDemoRenderer(name string) (*demoRenderer, error) {
	f, err := opentype.Parse(goregular.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: 12, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create face: %w", err)
	}
	return &demoRenderer{name: name, face: face, drawn: make(chan struct{}, 1)}, nil
}

func (r *demoRenderer) OnContextCreated(cfg config.Config, ctx native.Context) {
	r.ctx = ctx
	r.mu.Lock()
	r.contexts++
	r.cfg = cfg
	r.mu.Unlock()
}

func (r *demoRenderer) OnSurfaceSized(width, height int) {
	r.width, r.height = width, height
	r.mu.Lock()
	r.resizes++
	r.mu.Unlock()
}

func (r *demoRenderer) OnFrame() {
	r.mu.Lock()
	r.frames++
	n := r.frames
	r.mu.Unlock()

	c := frameColor(n)
	switch ctx := r.ctx.(type) {
	case *software.Context:
		if target := ctx.Target(); target != nil {
			r.paint(target, c, n)
		}
	case clearColorSetter:
		ctx.SetClearColor(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, 1)
	}

	select {
	case r.drawn <- struct{}{}:
	default:
	}
}

func (r *demoRenderer) paint(dst *image.RGBA, c color.RGBA, frame int) {
	draw.Draw(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.White,
		Face: r.face,
		Dot:  fixed.P(4, r.face.Metrics().Ascent.Ceil()+2),
	}
	d.DrawString(fmt.Sprintf("%s #%d %dx%d", r.name, frame, r.width, r.height))
}

// frameColor walks the hue circle in 30 degree steps.
func frameColor(frame int) color.RGBA {
	h := math.Mod(float64(frame)*30, 360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)
	var rf, gf, bf float64
	switch int(h) {
	case 0:
		rf, gf = 1, x
	case 1:
		rf, gf = x, 1
	case 2:
		gf, bf = 1, x
	case 3:
		gf, bf = x, 1
	case 4:
		rf, bf = x, 1
	default:
		rf, bf = 1, x
	}
	const v = 0.6
	return color.RGBA{R: uint8(rf * v * 255), G: uint8(gf * v * 255), B: uint8(bf * v * 255), A: 255}
}

// SetFrameRate implements host.FrameRateSetter.
func (r *demoRenderer) SetFrameRate(fps float64) {
	r.mu.Lock()
	r.frameRate = fps
	r.mu.Unlock()
}

// OnPause implements host.LifecycleObserver.
func (r *demoRenderer) OnPause() {
	r.mu.Lock()
	r.pauses++
	r.mu.Unlock()
}

// OnResume implements host.LifecycleObserver.
func (r *demoRenderer) OnResume() {}

type rendererStats struct {
	frames, contexts, resizes, pauses int
	frameRate                         float64
	cfg                               config.Config
}

func (r *demoRenderer) stats() rendererStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return rendererStats{
		frames:    r.frames,
		contexts:  r.contexts,
		resizes:   r.resizes,
		pauses:    r.pauses,
		frameRate: r.frameRate,
		cfg:       r.cfg,
	}
}
