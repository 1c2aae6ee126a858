// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native is the boundary between render threads and a native
// graphics API.
//
// A Display enumerates pixel-format configs, creates contexts and window
// surfaces, and presents frames. Drivers register a display factory under a
// name; the software driver (package native/software) is always available
// and the Vulkan driver (package native/hal) is built unless the nogpu tag
// is set:
//
//	import _ "github.com/gogpu/renderloop/native/software"
//
//	d, err := native.Open("software")
//
// A render thread never talks to a Display directly. It owns one Helper,
// which initializes the display, resolves the config once, and owns at most
// one context and one surface binding at a time. Creation goes through the
// pluggable ContextFactory and SurfaceFactory.
//
// # Errors
//
// Native calls report a Status. Failed calls are returned as *Error, which
// matches ErrContextLost and ErrBadNativeWindow with errors.Is. Surface
// creation failures are recoverable: the host may have torn the window down
// before telling the render thread. A failed context destroy wraps
// ErrContextDestroyFailed and indicates a driver bug.
package native
