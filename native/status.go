// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import (
	"errors"
	"fmt"
)

// Status is the result code of a native call. The values mirror the EGL
// error space.
type Status int

// Native status codes.
const (
	StatusSuccess           Status = 0x3000
	StatusNotInitialized    Status = 0x3001
	StatusBadAccess         Status = 0x3002
	StatusBadAlloc          Status = 0x3003
	StatusBadAttribute      Status = 0x3004
	StatusBadConfig         Status = 0x3005
	StatusBadContext        Status = 0x3006
	StatusBadCurrentSurface Status = 0x3007
	StatusBadDisplay        Status = 0x3008
	StatusBadMatch          Status = 0x3009
	StatusBadNativePixmap   Status = 0x300A
	StatusBadNativeWindow   Status = 0x300B
	StatusBadParameter      Status = 0x300C
	StatusBadSurface        Status = 0x300D
	StatusContextLost       Status = 0x300E
)

var statusNames = map[Status]string{
	StatusSuccess:           "SUCCESS",
	StatusNotInitialized:    "NOT_INITIALIZED",
	StatusBadAccess:         "BAD_ACCESS",
	StatusBadAlloc:          "BAD_ALLOC",
	StatusBadAttribute:      "BAD_ATTRIBUTE",
	StatusBadConfig:         "BAD_CONFIG",
	StatusBadContext:        "BAD_CONTEXT",
	StatusBadCurrentSurface: "BAD_CURRENT_SURFACE",
	StatusBadDisplay:        "BAD_DISPLAY",
	StatusBadMatch:          "BAD_MATCH",
	StatusBadNativePixmap:   "BAD_NATIVE_PIXMAP",
	StatusBadNativeWindow:   "BAD_NATIVE_WINDOW",
	StatusBadParameter:      "BAD_PARAMETER",
	StatusBadSurface:        "BAD_SURFACE",
	StatusContextLost:       "CONTEXT_LOST",
}

// String returns the symbolic name of the status, or its hex value for
// codes outside the known space.
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("0x%X", int(s))
}

// Errors reported by the native layer.
var (
	// ErrContextDestroyFailed is wrapped by a failed context destroy. It is
	// fatal for the render thread that observed it.
	ErrContextDestroyFailed = errors.New("native: destroy context failed")

	// ErrBadNativeWindow reports a window that the host invalidated. It is
	// recoverable: the thread marks its surface bad and waits for a new one.
	ErrBadNativeWindow = errors.New("native: bad native window")

	// ErrContextLost reports that the driver lost the context.
	ErrContextLost = errors.New("native: context lost")

	// ErrNoContext is returned when a surface is requested before a context
	// exists.
	ErrNoContext = errors.New("native: no current context")

	// ErrNoDriverAvailable is returned by OpenDefault when no registered
	// driver is available.
	ErrNoDriverAvailable = errors.New("native: no driver available")
)

// Error is a failed native call.
type Error struct {
	// Op names the native operation, e.g. "create window surface".
	Op     string
	Status Status
}

func (e *Error) Error() string {
	return fmt.Sprintf("native: %s: %v", e.Op, e.Status)
}

// Is matches ErrContextLost and ErrBadNativeWindow by status.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrContextLost:
		return e.Status == StatusContextLost
	case ErrBadNativeWindow:
		return e.Status == StatusBadNativeWindow
	}
	return false
}
