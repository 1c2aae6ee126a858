// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package renderloop

import "golang.org/x/sys/unix"

func currentThreadID() int64 { return int64(unix.Gettid()) }
