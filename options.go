// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Option configures a Thread during creation.
//
// Example:
//
//	t := renderloop.NewThread(arbiter, display, provider,
//	    renderloop.WithClientVersion(3),
//	    renderloop.WithRenderMode(renderloop.RenderWhenDirty))
type Option func(*threadOptions)

// threadOptions holds optional configuration for Thread creation.
type threadOptions struct {
	name          string
	chooser       config.Chooser
	contexts      native.ContextFactory
	surfaces      native.SurfaceFactory
	clientVersion int
	renderMode    RenderMode
}

// defaultOptions returns the default thread options.
func defaultOptions() threadOptions {
	return threadOptions{
		name:       "render",
		renderMode: RenderContinuously,
	}
}

// WithName sets the thread name used in log records.
func WithName(name string) Option {
	return func(o *threadOptions) {
		o.name = name
	}
}

// WithConfigChooser sets the config chooser. The default chooses RGB565
// with a 16-bit depth buffer for the client version.
func WithConfigChooser(c config.Chooser) Option {
	return func(o *threadOptions) {
		o.chooser = c
	}
}

// WithContextFactory sets the context factory. The default is
// native.DefaultContextFactory for the client version.
func WithContextFactory(f native.ContextFactory) Option {
	return func(o *threadOptions) {
		o.contexts = f
	}
}

// WithSurfaceFactory sets the surface factory.
func WithSurfaceFactory(f native.SurfaceFactory) Option {
	return func(o *threadOptions) {
		o.surfaces = f
	}
}

// WithClientVersion requests contexts for a client API major version.
// Zero requests a version-less context.
func WithClientVersion(v int) Option {
	return func(o *threadOptions) {
		o.clientVersion = v
	}
}

// WithRenderMode sets the initial render mode. Invalid modes are ignored.
func WithRenderMode(m RenderMode) Option {
	return func(o *threadOptions) {
		if m.valid() {
			o.renderMode = m
		}
	}
}
