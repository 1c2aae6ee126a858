// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"

	"github.com/gogpu/renderloop/config"
)

// Helper owns the native objects of one render thread: the display
// connection, the resolved config, at most one context and at most one
// surface binding.
//
// Helper is not safe for concurrent use. The owning render thread
// serializes all calls.
type Helper struct {
	display  Display
	chooser  config.Chooser
	contexts ContextFactory
	surfaces SurfaceFactory

	initialized bool
	version     Version

	cfg     config.Config
	haveCfg bool

	ctx     Context
	surface Surface
}

// NewHelper returns a helper for d. Nil factories select the defaults.
func NewHelper(d Display, chooser config.Chooser, cf ContextFactory, sf SurfaceFactory) *Helper {
	if cf == nil {
		cf = DefaultContextFactory{}
	}
	if sf == nil {
		sf = DefaultSurfaceFactory{}
	}
	return &Helper{display: d, chooser: chooser, contexts: cf, surfaces: sf}
}

// Start initializes the display if needed, resolves the config on first
// use and creates a context. On failure the helper holds no context.
func (h *Helper) Start() error {
	Logger().Debug("native: start helper")
	if !h.initialized {
		v, err := h.display.Initialize()
		if err != nil {
			return fmt.Errorf("native: initialize display: %w", err)
		}
		h.initialized = true
		h.version = v
	}
	if !h.haveCfg {
		cfg, err := h.chooser.ChooseConfig(h.display)
		if err != nil {
			return fmt.Errorf("native: choose config: %w", err)
		}
		h.cfg = cfg
		h.haveCfg = true
		Logger().Debug("native: config resolved", "config", cfg.String())
	}

	ctx, err := h.contexts.CreateContext(h.display, h.cfg)
	if err == nil && ctx == nil {
		err = errors.New("context factory returned no context")
	}
	if err != nil {
		h.ctx = nil
		return fmt.Errorf("native: create context: %w", err)
	}
	h.ctx = ctx
	h.surface = nil
	return nil
}

// CreateSurface binds a new surface to win and makes it current. Any
// previous binding is destroyed first. Every failure is recoverable.
func (h *Helper) CreateSurface(win Window) error {
	if h.ctx == nil {
		return ErrNoContext
	}
	h.destroySurface()

	s, err := h.surfaces.CreateSurface(h.display, h.cfg, win)
	if err != nil {
		return err
	}
	if s == nil {
		return fmt.Errorf("%w: surface factory returned no surface", ErrBadNativeWindow)
	}
	h.surface = s

	if err := h.display.MakeCurrent(s, h.ctx); err != nil {
		Logger().Warn("native: make current", "err", err)
		return fmt.Errorf("native: make current: %w", err)
	}
	return nil
}

// Swap presents the current surface.
func (h *Helper) Swap() Status {
	if h.surface == nil {
		return StatusBadSurface
	}
	return h.display.SwapBuffers(h.surface)
}

// DestroySurface releases the current binding, if any.
func (h *Helper) DestroySurface() {
	Logger().Debug("native: destroy surface")
	h.destroySurface()
}

func (h *Helper) destroySurface() {
	if h.surface == nil {
		return
	}
	if err := h.display.ReleaseCurrent(); err != nil {
		Logger().Warn("native: release current", "err", err)
	}
	h.surfaces.DestroySurface(h.display, h.surface)
	h.surface = nil
}

// DestroyContext destroys the context, if any. The helper forgets the
// context even when the destroy fails.
func (h *Helper) DestroyContext() error {
	if h.ctx == nil {
		return nil
	}
	Logger().Debug("native: destroy context")
	ctx := h.ctx
	h.ctx = nil
	return h.contexts.DestroyContext(h.display, ctx)
}

// Terminate destroys any remaining binding and context and closes the
// display connection. The config stays resolved.
func (h *Helper) Terminate() error {
	h.destroySurface()
	err := h.DestroyContext()
	if h.initialized {
		if terr := h.display.Terminate(); terr != nil {
			Logger().Warn("native: terminate display", "err", terr)
		}
		h.initialized = false
	}
	return err
}

// DriverInfo queries the driver through the current context.
func (h *Helper) DriverInfo() (DriverInfo, error) {
	if h.ctx == nil {
		return DriverInfo{}, ErrNoContext
	}
	return h.display.DriverInfo(h.ctx)
}

// Config returns the resolved config and whether it has been resolved.
func (h *Helper) Config() (config.Config, bool) { return h.cfg, h.haveCfg }

// Context returns the current context, or nil.
func (h *Helper) Context() Context { return h.ctx }

// Surface returns the current surface binding, or nil.
func (h *Helper) Surface() Surface { return h.surface }

// Initialized reports whether the display connection is open.
func (h *Helper) Initialized() bool { return h.initialized }

// APIVersion returns the version reported by the last Initialize.
func (h *Helper) APIVersion() Version { return h.version }
