// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// Window is an in-memory host window. Presented frames land in its front
// buffer, scaled to the window size if the surface is stale.
type Window struct {
	mu       sync.Mutex
	width    int
	height   int
	invalid  bool
	front    *image.RGBA
	presents int
}

// NewWindow returns a valid window of the given size.
func NewWindow(width, height int) *Window {
	return &Window{width: width, height: height}
}

// Resize changes the window size. Bound surfaces keep their size until
// they are recreated.
func (w *Window) Resize(width, height int) {
	w.mu.Lock()
	w.width, w.height = width, height
	w.mu.Unlock()
}

// Invalidate marks the window as torn down by the host.
func (w *Window) Invalidate() {
	w.mu.Lock()
	w.invalid = true
	w.mu.Unlock()
}

// Valid implements native.Window.
func (w *Window) Valid() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.invalid
}

// Size implements native.Window.
func (w *Window) Size() (width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

// Presents returns the number of frames presented to the window.
func (w *Window) Presents() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.presents
}

// Frame returns a copy of the last presented frame, or nil.
func (w *Window) Frame() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.front == nil {
		return nil
	}
	out := image.NewRGBA(w.front.Bounds())
	draw.Draw(out, out.Bounds(), w.front, w.front.Bounds().Min, draw.Src)
	return out
}

func (w *Window) present(back *image.RGBA) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.invalid {
		return false
	}
	r := image.Rect(0, 0, w.width, w.height)
	if w.front == nil || w.front.Bounds() != r {
		w.front = image.NewRGBA(r)
	}
	if back.Bounds() == r {
		draw.Draw(w.front, r, back, image.Point{}, draw.Src)
	} else {
		draw.ApproxBiLinear.Scale(w.front, r, back, back.Bounds(), draw.Src, nil)
	}
	w.presents++
	return true
}
