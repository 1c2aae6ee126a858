// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"

	"github.com/gogpu/renderloop/config"
)

// AttribContextClientVersion requests a context for a specific client API
// major version.
const AttribContextClientVersion config.Attrib = 0x3098

// Window is a host-owned drawing target. The host may invalidate it at any
// time, including while a render thread is binding a surface to it.
// Drivers type-assert to their own window types.
type Window interface {
	// Valid reports whether the host still backs the window.
	Valid() bool

	// Size returns the current window size in pixels.
	Size() (width, height int)
}

// Context is a native graphics context. It exposes the GPU device of the
// context so renderers can share it.
type Context interface {
	gpucontext.DeviceProvider

	// Config returns the pixel-format config the context was created with.
	Config() config.Config
}

// Surface is a native drawable bound to one window at one size.
type Surface interface {
	Size() (width, height int)
}

// Display is a connection to a native graphics driver.
//
// All methods except Initialize, ChooseConfigs and Terminate require a
// prior successful Initialize. A display may be initialized again after
// Terminate.
type Display interface {
	config.Enumerator

	// Initialize opens the connection and reports the API version.
	// Calling it on an initialized display is a no-op.
	Initialize() (Version, error)

	// CreateContext creates a context for cfg. attribs holds context
	// attributes such as AttribContextClientVersion; nil requests a
	// version-less context.
	CreateContext(cfg config.Config, attribs []config.AttribValue) (Context, error)
	DestroyContext(ctx Context) error

	CreateWindowSurface(cfg config.Config, win Window) (Surface, error)
	DestroySurface(s Surface) error

	// MakeCurrent binds s and ctx to the calling thread.
	MakeCurrent(s Surface, ctx Context) error

	// ReleaseCurrent unbinds any surface and context from the calling thread.
	ReleaseCurrent() error

	// SwapBuffers presents the back buffer of s.
	SwapBuffers(s Surface) Status

	// DriverInfo queries the driver strings through ctx.
	DriverInfo(ctx Context) (DriverInfo, error)

	Terminate() error
}

// Version is a graphics API version.
type Version struct {
	Major, Minor int
}

// AtLeast reports whether v is the same as or newer than o.
func (v Version) AtLeast(o Version) bool {
	if v.Major != o.Major {
		return v.Major > o.Major
	}
	return v.Minor >= o.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// ParseVersion parses a "major.minor" version. A bare major is accepted.
// Text following the numbers is ignored, so driver strings like
// "3.1 build 42" parse.
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	majorStr, minorStr, hasMinor := strings.Cut(s, ".")
	major, err := strconv.Atoi(majorStr)
	if err != nil {
		return Version{}, fmt.Errorf("native: parse version %q: %w", s, err)
	}
	v := Version{Major: major}
	if hasMinor {
		if i := strings.IndexByte(minorStr, '.'); i >= 0 {
			minorStr = minorStr[:i]
		}
		if v.Minor, err = strconv.Atoi(minorStr); err != nil {
			return Version{}, fmt.Errorf("native: parse version %q: %w", s, err)
		}
	}
	return v, nil
}

// DriverInfo holds the strings a driver reports about itself once a
// context is current.
type DriverInfo struct {
	Vendor   string
	Renderer string
	Version  string

	// API is the API version supported by the context.
	API Version
}

func (i DriverInfo) String() string {
	return fmt.Sprintf("%s (%s) %s API %v", i.Renderer, i.Vendor, i.Version, i.API)
}

// NullDeviceProvider implements gpucontext.DeviceProvider without a GPU
// device. Contexts of drivers that do not render through a GPU embed it.
type NullDeviceProvider struct{}

// Device returns nil.
func (NullDeviceProvider) Device() gpucontext.Device { return nil }

// Queue returns nil.
func (NullDeviceProvider) Queue() gpucontext.Queue { return nil }

// Adapter returns nil.
func (NullDeviceProvider) Adapter() gpucontext.Adapter { return nil }

// SurfaceFormat returns TextureFormatUndefined.
func (NullDeviceProvider) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

// AdapterInfo reports an unknown adapter.
func (NullDeviceProvider) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var _ gpucontext.DeviceProvider = NullDeviceProvider{}
