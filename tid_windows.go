// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import "golang.org/x/sys/windows"

func currentThreadID() int64 { return int64(windows.GetCurrentThreadId()) }
