// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux && !windows

package renderloop

// currentThreadID reports 0 where no thread id is available, which turns
// off render goroutine detection.
func currentThreadID() int64 { return 0 }
