// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package config selects native pixel-format configurations.
//
// A render thread asks a Chooser for one Config before it creates its first
// context. The chooser builds a Filter from the requested sizes, asks the
// display (an Enumerator) for every config satisfying it, and picks the
// first candidate with exactly the requested color sizes and at least the
// requested depth and stencil sizes.
//
//	chooser := config.NewComponentSizeChooser(5, 6, 5, 0, 16, 0, 2)
//	cfg, err := chooser.ChooseConfig(display)
//	if errors.Is(err, config.ErrNoMatchingConfig) {
//	    // device cannot provide the format
//	}
//
// Selection never panics on device limitations; the error carries the
// request so callers can log a meaningful diagnostic.
package config
