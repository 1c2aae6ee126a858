// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"

	"github.com/gogpu/renderloop/config"
)

// ContextFactory creates and destroys native contexts for a render thread.
type ContextFactory interface {
	CreateContext(d Display, cfg config.Config) (Context, error)

	// DestroyContext returns an error wrapping ErrContextDestroyFailed when
	// the driver refuses the destroy.
	DestroyContext(d Display, ctx Context) error
}

// SurfaceFactory creates and destroys surface bindings for a render thread.
type SurfaceFactory interface {
	// CreateSurface binds a surface to win. A window invalidated by the host
	// yields an error wrapping ErrBadNativeWindow; callers treat every
	// failure as recoverable.
	CreateSurface(d Display, cfg config.Config, win Window) (Surface, error)

	// DestroySurface releases s. Failures are logged only.
	DestroySurface(d Display, s Surface)
}

// DefaultContextFactory requests a context for ClientVersion, or a
// version-less context when ClientVersion is zero.
type DefaultContextFactory struct {
	ClientVersion int
}

// CreateContext implements ContextFactory.
func (f DefaultContextFactory) CreateContext(d Display, cfg config.Config) (Context, error) {
	var attribs []config.AttribValue
	if f.ClientVersion != 0 {
		attribs = []config.AttribValue{{Attrib: AttribContextClientVersion, Value: f.ClientVersion}}
	}
	return d.CreateContext(cfg, attribs)
}

// DestroyContext implements ContextFactory.
func (f DefaultContextFactory) DestroyContext(d Display, ctx Context) error {
	if err := d.DestroyContext(ctx); err != nil {
		Logger().Error("native: destroy context", "err", err)
		return fmt.Errorf("%w: %w", ErrContextDestroyFailed, err)
	}
	return nil
}

// DefaultSurfaceFactory creates window surfaces on the display.
type DefaultSurfaceFactory struct{}

// CreateSurface implements SurfaceFactory.
func (DefaultSurfaceFactory) CreateSurface(d Display, cfg config.Config, win Window) (Surface, error) {
	if win == nil || !win.Valid() {
		Logger().Warn("native: window invalidated before surface creation")
		return nil, fmt.Errorf("%w: window invalidated by host", ErrBadNativeWindow)
	}
	s, err := d.CreateWindowSurface(cfg, win)
	if err != nil {
		Logger().Warn("native: create window surface", "err", err)
		return nil, err
	}
	return s, nil
}

// DestroySurface implements SurfaceFactory.
func (DefaultSurfaceFactory) DestroySurface(d Display, s Surface) {
	if err := d.DestroySurface(s); err != nil {
		Logger().Warn("native: destroy surface", "err", err)
	}
}

var (
	_ ContextFactory = DefaultContextFactory{}
	_ SurfaceFactory = DefaultSurfaceFactory{}
)
