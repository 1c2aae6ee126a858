// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import (
	"strings"

	"github.com/gogpu/renderloop/native"
)

// CapabilityPolicy decides whether the platform can keep several native
// contexts alive at once.
type CapabilityPolicy interface {
	// MultipleContexts reports whether API version v supports multiple
	// concurrent contexts.
	MultipleContexts(v native.Version) bool

	// DriverAllowsMultipleContexts reports whether a driver below the
	// version threshold still supports multiple contexts.
	DriverAllowsMultipleContexts(info native.DriverInfo) bool
}

// VersionProbe reports the platform API version. It runs at most once per
// arbiter, under the arbiter monitor, and must return promptly.
type VersionProbe func() (native.Version, error)

// DriverPolicy is the default CapabilityPolicy: versions at or above
// MinVersion support multiple contexts; older drivers do unless their
// renderer string starts with one of LimitedRenderers.
type DriverPolicy struct {
	MinVersion       native.Version
	LimitedRenderers []string
}

// DefaultPolicy returns the policy used by NewArbiter.
func DefaultPolicy() DriverPolicy {
	return DriverPolicy{
		MinVersion:       native.Version{Major: 2, Minor: 0},
		LimitedRenderers: []string{"Q3Dimension MSM7500 "},
	}
}

// MultipleContexts implements CapabilityPolicy.
func (p DriverPolicy) MultipleContexts(v native.Version) bool {
	return v.AtLeast(p.MinVersion)
}

// DriverAllowsMultipleContexts implements CapabilityPolicy.
func (p DriverPolicy) DriverAllowsMultipleContexts(info native.DriverInfo) bool {
	for _, prefix := range p.LimitedRenderers {
		if strings.HasPrefix(info.Renderer, prefix) {
			return false
		}
	}
	return true
}

var _ CapabilityPolicy = DriverPolicy{}
