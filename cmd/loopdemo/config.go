// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/config"
)

// demoConfig is the layout of the -config file.
type demoConfig struct {
	Driver string       `toml:"driver"`
	Output string       `toml:"output"`
	Frames int          `toml:"frames"`
	Views  []viewConfig `toml:"view"`
}

type viewConfig struct {
	Name          string                `toml:"name"`
	Width         int                   `toml:"width"`
	Height        int                   `toml:"height"`
	Mode          renderloop.RenderMode `toml:"mode"`
	AntiAliasing  config.AntiAliasing   `toml:"anti_aliasing"`
	Samples       int                   `toml:"samples"`
	ClientVersion int                   `toml:"client_version"`
	Preserve      bool                  `toml:"preserve"`
	Format        *config.Spec          `toml:"format"`
}

// demoFormat is the pixel format of views without a [view.format] table.
// Both drivers offer RGBA8.
var demoFormat = config.Spec{Red: 8, Green: 8, Blue: 8, Alpha: 8, Depth: 16}

func defaultConfig() demoConfig {
	return demoConfig{
		Driver: "software",
		Output: ".",
		Frames: 12,
	}
}

// loadConfig reads a TOML file over the defaults.
func loadConfig(path string) (demoConfig, error) {
	cfg := defaultConfig()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return demoConfig{}, fmt.Errorf("read %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return demoConfig{}, fmt.Errorf("read %s: unknown keys %v", path, undecoded)
	}
	return cfg, nil
}

// normalize fills view defaults and checks the config.
func (c *demoConfig) normalize() error {
	if c.Frames <= 0 {
		return errors.New("frames must be positive")
	}
	if len(c.Views) == 0 {
		return errors.New("no views configured")
	}
	seen := make(map[string]bool, len(c.Views))
	for i := range c.Views {
		v := &c.Views[i]
		if v.Name == "" {
			v.Name = fmt.Sprintf("view%d", i)
		}
		if seen[v.Name] {
			return fmt.Errorf("duplicate view name %q", v.Name)
		}
		seen[v.Name] = true
		if v.Width <= 0 || v.Height <= 0 {
			return fmt.Errorf("view %s: size %dx%d must be positive", v.Name, v.Width, v.Height)
		}
		if v.Format == nil {
			f := demoFormat
			v.Format = &f
		}
		if v.ClientVersion == 0 {
			v.ClientVersion = 2
		}
	}
	return nil
}
