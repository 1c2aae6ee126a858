// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import "errors"

// Errors returned by Thread.
var (
	// ErrOnRenderThread is returned, or panicked with by methods without an
	// error result, when a blocking call is made from the render goroutine
	// itself. Waiting there would deadlock.
	ErrOnRenderThread = errors.New("renderloop: blocking call from the render thread")

	// ErrInvalidRenderMode is returned by SetRenderMode for unknown modes.
	ErrInvalidRenderMode = errors.New("renderloop: invalid render mode")

	// ErrNilEvent is returned by QueueEvent for a nil event.
	ErrNilEvent = errors.New("renderloop: nil event")

	// ErrExited is returned by QueueEvent once the thread has exited.
	ErrExited = errors.New("renderloop: thread exited")

	// ErrAlreadyStarted is returned by a second Start.
	ErrAlreadyStarted = errors.New("renderloop: thread already started")
)
