// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package config

import (
	"fmt"
	"strings"
)

// Attrib identifies a pixel-format attribute in a Filter or a Config.
// The values follow the EGL attribute space so that native drivers can pass
// filters through without translation.
type Attrib int32

// Pixel-format attributes understood by the selector and the drivers.
const (
	AttribAlphaSize       Attrib = 0x3021
	AttribBlueSize        Attrib = 0x3022
	AttribGreenSize       Attrib = 0x3023
	AttribRedSize         Attrib = 0x3024
	AttribDepthSize       Attrib = 0x3025
	AttribStencilSize     Attrib = 0x3026
	AttribSamples         Attrib = 0x3031
	AttribSampleBuffers   Attrib = 0x3032
	AttribRenderableType  Attrib = 0x3040
	AttribCoverageBuffers Attrib = 0x30E0
	AttribCoverageSamples Attrib = 0x30E1
)

var attribNames = map[Attrib]string{
	AttribAlphaSize:       "ALPHA_SIZE",
	AttribBlueSize:        "BLUE_SIZE",
	AttribGreenSize:       "GREEN_SIZE",
	AttribRedSize:         "RED_SIZE",
	AttribDepthSize:       "DEPTH_SIZE",
	AttribStencilSize:     "STENCIL_SIZE",
	AttribSamples:         "SAMPLES",
	AttribSampleBuffers:   "SAMPLE_BUFFERS",
	AttribRenderableType:  "RENDERABLE_TYPE",
	AttribCoverageBuffers: "COVERAGE_BUFFERS",
	AttribCoverageSamples: "COVERAGE_SAMPLES",
}

// String returns the attribute name, or its hex value if unknown.
func (a Attrib) String() string {
	if name, ok := attribNames[a]; ok {
		return name
	}
	return fmt.Sprintf("0x%X", int32(a))
}

// Known reports whether the attribute is one the selector understands.
func (a Attrib) Known() bool {
	_, ok := attribNames[a]
	return ok
}

// RenderableType is a bit mask of client APIs a config can render with.
type RenderableType int

const (
	// RenderableES2 marks configs usable with client version 2 contexts.
	RenderableES2 RenderableType = 0x0004

	// RenderableES3 marks configs usable with client version 3 contexts.
	RenderableES3 RenderableType = 0x0040
)

// RenderableFor returns the renderable-type bit for a client version,
// or 0 when the version does not constrain the renderable type.
func RenderableFor(clientVersion int) RenderableType {
	switch clientVersion {
	case 2:
		return RenderableES2
	case 3:
		return RenderableES3
	default:
		return 0
	}
}

// AttribValue is a single attribute constraint.
type AttribValue struct {
	Attrib Attrib
	Value  int
}

// Filter is an ordered list of attribute constraints passed to a display
// when enumerating configs. Size attributes are minimums, the renderable
// type is a mask that must be fully present.
type Filter []AttribValue

// Get returns the value for the attribute and whether it is present.
func (f Filter) Get(a Attrib) (int, bool) {
	for _, av := range f {
		if av.Attrib == a {
			return av.Value, true
		}
	}
	return 0, false
}

// With returns a copy of f with the attribute set to v.
// An existing entry is replaced in place, otherwise v is appended.
func (f Filter) With(a Attrib, v int) Filter {
	out := make(Filter, 0, len(f)+1)
	replaced := false
	for _, av := range f {
		if av.Attrib == a {
			av.Value = v
			replaced = true
		}
		out = append(out, av)
	}
	if !replaced {
		out = append(out, AttribValue{Attrib: a, Value: v})
	}
	return out
}

// Validate checks the filter for contract violations: unknown attributes,
// negative values and duplicate entries.
func (f Filter) Validate() error {
	seen := make(map[Attrib]bool, len(f))
	for i, av := range f {
		if !av.Attrib.Known() {
			return fmt.Errorf("%w: entry %d: unknown attribute %v", ErrBadFilter, i, av.Attrib)
		}
		if av.Value < 0 {
			return fmt.Errorf("%w: entry %d: %v=%d is negative", ErrBadFilter, i, av.Attrib, av.Value)
		}
		if seen[av.Attrib] {
			return fmt.Errorf("%w: entry %d: duplicate %v", ErrBadFilter, i, av.Attrib)
		}
		seen[av.Attrib] = true
	}
	return nil
}

// String formats the filter as NAME=value pairs.
func (f Filter) String() string {
	parts := make([]string, len(f))
	for i, av := range f {
		parts[i] = fmt.Sprintf("%v=%d", av.Attrib, av.Value)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
