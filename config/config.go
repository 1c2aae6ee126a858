// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/gputypes"
)

// Errors returned by config selection.
var (
	// ErrNoMatchingConfig is returned when no native config satisfies the
	// requested sizes. It is wrapped with the request for diagnostics.
	ErrNoMatchingConfig = errors.New("config: no matching config")

	// ErrBadFilter is returned for a malformed filter. It indicates a
	// programming error in a chooser, not a device limitation.
	ErrBadFilter = errors.New("config: malformed filter")
)

// Spec is a requested pixel format: exact color channel sizes and minimum
// depth and stencil sizes, all in bits.
type Spec struct {
	Red     int `toml:"red"`
	Green   int `toml:"green"`
	Blue    int `toml:"blue"`
	Alpha   int `toml:"alpha"`
	Depth   int `toml:"depth"`
	Stencil int `toml:"stencil"`
}

// DefaultSpec returns the RGB565 format with a 16-bit depth buffer.
func DefaultSpec() Spec {
	return Spec{Red: 5, Green: 6, Blue: 5, Alpha: 0, Depth: 16, Stencil: 0}
}

// Filter builds the enumeration filter for the spec. For client versions 2
// and 3 a renderable-type constraint for that version is appended.
func (s Spec) Filter(clientVersion int) Filter {
	f := Filter{
		{AttribRedSize, s.Red},
		{AttribGreenSize, s.Green},
		{AttribBlueSize, s.Blue},
		{AttribAlphaSize, s.Alpha},
		{AttribDepthSize, s.Depth},
		{AttribStencilSize, s.Stencil},
	}
	if r := RenderableFor(clientVersion); r != 0 {
		f = append(f, AttribValue{AttribRenderableType, int(r)})
	}
	return f
}

// Accepts reports whether cfg has exactly the requested color sizes and at
// least the requested depth and stencil sizes.
func (s Spec) Accepts(cfg Config) bool {
	if cfg.Depth < s.Depth || cfg.Stencil < s.Stencil {
		return false
	}
	return cfg.Red == s.Red && cfg.Green == s.Green &&
		cfg.Blue == s.Blue && cfg.Alpha == s.Alpha
}

func (s Spec) String() string {
	return fmt.Sprintf("R%dG%dB%dA%d D%d S%d", s.Red, s.Green, s.Blue, s.Alpha, s.Depth, s.Stencil)
}

// Config is a native pixel-format configuration as reported by a display.
// Configs are values: a resolved config is never mutated.
type Config struct {
	// ID is the display-specific identifier of the config.
	ID int

	Red, Green, Blue, Alpha int
	Depth, Stencil          int

	// SampleBuffers is 1 when the config has a multisample buffer.
	SampleBuffers int
	Samples       int

	// CoverageBuffers and CoverageSamples describe coverage anti-aliasing.
	CoverageBuffers int
	CoverageSamples int

	// Renderable is the mask of client APIs the config supports.
	Renderable RenderableType
}

// Attrib returns the value of a config attribute, mirroring a native
// attribute query. Unknown attributes report false.
func (c Config) Attrib(a Attrib) (int, bool) {
	switch a {
	case AttribRedSize:
		return c.Red, true
	case AttribGreenSize:
		return c.Green, true
	case AttribBlueSize:
		return c.Blue, true
	case AttribAlphaSize:
		return c.Alpha, true
	case AttribDepthSize:
		return c.Depth, true
	case AttribStencilSize:
		return c.Stencil, true
	case AttribSampleBuffers:
		return c.SampleBuffers, true
	case AttribSamples:
		return c.Samples, true
	case AttribCoverageBuffers:
		return c.CoverageBuffers, true
	case AttribCoverageSamples:
		return c.CoverageSamples, true
	case AttribRenderableType:
		return int(c.Renderable), true
	}
	return 0, false
}

// Matches reports whether the config satisfies every constraint of f.
// Sizes are minimums; the renderable type must contain every requested bit.
// Drivers use this to implement enumeration.
func (c Config) Matches(f Filter) bool {
	for _, av := range f {
		v, ok := c.Attrib(av.Attrib)
		if !ok {
			return false
		}
		if av.Attrib == AttribRenderableType {
			if v&av.Value != av.Value {
				return false
			}
			continue
		}
		if v < av.Value {
			return false
		}
	}
	return true
}

// ColorFormat maps the color channel sizes to a GPU texture format.
// Formats without a texture equivalent report TextureFormatUndefined.
func (c Config) ColorFormat() gputypes.TextureFormat {
	switch {
	case c.Red == 8 && c.Green == 8 && c.Blue == 8 && c.Alpha == 8:
		return gputypes.TextureFormatRGBA8Unorm
	case c.Red == 8 && c.Green == 8 && c.Blue == 8 && c.Alpha == 0:
		return gputypes.TextureFormatBGRA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}

// DepthStencilFormat maps depth and stencil sizes to a GPU texture format.
func (c Config) DepthStencilFormat() gputypes.TextureFormat {
	if c.Depth == 0 && c.Stencil == 0 {
		return gputypes.TextureFormatUndefined
	}
	if c.Depth <= 24 && c.Stencil <= 8 {
		return gputypes.TextureFormatDepth24PlusStencil8
	}
	return gputypes.TextureFormatUndefined
}

// SampleCount returns the number of samples per pixel, at least 1.
func (c Config) SampleCount() int {
	if c.SampleBuffers > 0 && c.Samples > 1 {
		return c.Samples
	}
	return 1
}

func (c Config) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "config#%d R%dG%dB%dA%d D%d S%d", c.ID, c.Red, c.Green, c.Blue, c.Alpha, c.Depth, c.Stencil)
	if c.SampleBuffers > 0 {
		fmt.Fprintf(&b, " MSAA%d", c.Samples)
	}
	if c.CoverageBuffers > 0 {
		fmt.Fprintf(&b, " CSAA%d", c.CoverageSamples)
	}
	return b.String()
}

// AntiAliasing selects the anti-aliasing technique requested from the
// native config.
type AntiAliasing int

const (
	AntiAliasingNone AntiAliasing = iota
	AntiAliasingMultisample
	AntiAliasingCoverage
)

var antiAliasingNames = [...]string{"none", "multisample", "coverage"}

func (a AntiAliasing) String() string {
	if a >= 0 && int(a) < len(antiAliasingNames) {
		return antiAliasingNames[a]
	}
	return fmt.Sprintf("AntiAliasing(%d)", int(a))
}

// ParseAntiAliasing parses the names produced by String.
func ParseAntiAliasing(s string) (AntiAliasing, error) {
	for i, name := range antiAliasingNames {
		if strings.EqualFold(s, name) {
			return AntiAliasing(i), nil
		}
	}
	return AntiAliasingNone, fmt.Errorf("config: unknown anti-aliasing mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so the mode can be
// read from configuration files.
func (a *AntiAliasing) UnmarshalText(text []byte) error {
	v, err := ParseAntiAliasing(string(text))
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (a AntiAliasing) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}
