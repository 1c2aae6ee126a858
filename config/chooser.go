// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
)

// Enumerator lists the native configs that satisfy a filter, in the
// display's preferred order. Every native display implements it.
type Enumerator interface {
	ChooseConfigs(f Filter) ([]Config, error)
}

// Chooser selects one native config from a display.
//
// Implementations must not panic for device limitations: a device that
// cannot satisfy the request yields an error wrapping ErrNoMatchingConfig.
type Chooser interface {
	ChooseConfig(e Enumerator) (Config, error)
}

// ChooserFunc adapts a function to the Chooser interface.
type ChooserFunc func(e Enumerator) (Config, error)

// ChooseConfig calls f(e).
func (f ChooserFunc) ChooseConfig(e Enumerator) (Config, error) { return f(e) }

// ComponentSizeChooser chooses a config with exactly the requested color
// sizes and at least the requested depth and stencil sizes. The first
// matching config in enumeration order wins.
type ComponentSizeChooser struct {
	Spec Spec

	// ClientVersion adds a renderable-type constraint for versions 2 and 3.
	ClientVersion int
}

// NewComponentSizeChooser returns a chooser for the given sizes.
func NewComponentSizeChooser(red, green, blue, alpha, depth, stencil, clientVersion int) *ComponentSizeChooser {
	return &ComponentSizeChooser{
		Spec:          Spec{Red: red, Green: green, Blue: blue, Alpha: alpha, Depth: depth, Stencil: stencil},
		ClientVersion: clientVersion,
	}
}

// ChooseConfig implements Chooser.
func (c *ComponentSizeChooser) ChooseConfig(e Enumerator) (Config, error) {
	return chooseBySize(e, c.Spec, c.Spec.Filter(c.ClientVersion))
}

// AntiAliasingChooser extends the size match with an anti-aliasing
// request. The renderable type is always constrained: ES3 for client
// versions above 2, ES2 otherwise.
type AntiAliasingChooser struct {
	Spec          Spec
	ClientVersion int
	Mode          AntiAliasing

	// Samples is the multisample count. Ignored for other modes.
	Samples int
}

// Filter returns the enumeration filter for the chooser.
func (c *AntiAliasingChooser) Filter() Filter {
	version := 2
	if c.ClientVersion > 2 {
		version = 3
	}
	f := c.Spec.Filter(version)
	switch c.Mode {
	case AntiAliasingMultisample:
		f = f.With(AttribSampleBuffers, 1).With(AttribSamples, c.Samples)
	case AntiAliasingCoverage:
		f = f.With(AttribCoverageBuffers, 1).With(AttribCoverageSamples, 2)
	}
	return f
}

// ChooseConfig implements Chooser.
func (c *AntiAliasingChooser) ChooseConfig(e Enumerator) (Config, error) {
	if c.Mode < AntiAliasingNone || c.Mode > AntiAliasingCoverage {
		return Config{}, fmt.Errorf("%w: anti-aliasing mode %v", ErrBadFilter, c.Mode)
	}
	return chooseBySize(e, c.Spec, c.Filter())
}

func chooseBySize(e Enumerator, spec Spec, f Filter) (Config, error) {
	if err := f.Validate(); err != nil {
		return Config{}, err
	}
	configs, err := e.ChooseConfigs(f)
	if err != nil {
		return Config{}, fmt.Errorf("config: enumerate %v: %w", f, err)
	}
	if len(configs) == 0 {
		return Config{}, fmt.Errorf("%w: no configs match %v", ErrNoMatchingConfig, f)
	}
	for _, cfg := range configs {
		if spec.Accepts(cfg) {
			return cfg, nil
		}
	}
	return Config{}, fmt.Errorf("%w: %d candidates for %v, none with exact color and minimum depth/stencil",
		ErrNoMatchingConfig, len(configs), spec)
}
