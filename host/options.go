// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package host

import (
	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Option configures a View during creation.
type Option func(*viewOptions)

type viewOptions struct {
	name          string
	frameRate     float64
	renderMode    renderloop.RenderMode
	antiAliasing  config.AntiAliasing
	samples       int
	spec          config.Spec
	clientVersion int
	preserve      bool

	chooser  config.Chooser
	contexts native.ContextFactory
	surfaces native.SurfaceFactory
}

func defaultOptions() viewOptions {
	return viewOptions{
		name:          "view",
		frameRate:     60,
		renderMode:    renderloop.RenderWhenDirty,
		spec:          config.DefaultSpec(),
		clientVersion: 2,
	}
}

// WithName sets the name of the render thread.
func WithName(name string) Option {
	return func(o *viewOptions) { o.name = name }
}

// WithFrameRate sets the frame rate passed to renderers that implement
// FrameRateSetter. The default is 60.
func WithFrameRate(fps float64) Option {
	return func(o *viewOptions) { o.frameRate = fps }
}

// WithRenderMode sets the initial render mode. The default is
// renderloop.RenderWhenDirty.
func WithRenderMode(m renderloop.RenderMode) Option {
	return func(o *viewOptions) { o.renderMode = m }
}

// WithAntiAliasing requests an anti-aliasing mode. samples is the
// multisample count and is ignored for other modes.
func WithAntiAliasing(mode config.AntiAliasing, samples int) Option {
	return func(o *viewOptions) {
		o.antiAliasing = mode
		o.samples = samples
	}
}

// WithPixelFormat sets the requested channel, depth and stencil sizes.
// The default is config.DefaultSpec.
func WithPixelFormat(s config.Spec) Option {
	return func(o *viewOptions) { o.spec = s }
}

// WithClientVersion sets the client API major version. The default is 2.
func WithClientVersion(v int) Option {
	return func(o *viewOptions) { o.clientVersion = v }
}

// WithPreserveContextOnPause asks to keep the context while paused. The
// arbiter may still release it on platforms with a single context.
func WithPreserveContextOnPause(preserve bool) Option {
	return func(o *viewOptions) { o.preserve = preserve }
}

// WithConfigChooser replaces the anti-aliasing chooser built from the
// pixel format.
func WithConfigChooser(c config.Chooser) Option {
	return func(o *viewOptions) { o.chooser = c }
}

// WithContextFactory replaces the default context factory.
func WithContextFactory(f native.ContextFactory) Option {
	return func(o *viewOptions) { o.contexts = f }
}

// WithSurfaceFactory replaces the default surface factory.
func WithSurfaceFactory(f native.SurfaceFactory) Option {
	return func(o *viewOptions) { o.surfaces = f }
}
