// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command loopdemo runs scripted render views against a native driver.
//
// Each view gets its own render thread. The host lifecycle is simulated:
// surface creation, frames, a resize, a pause/resume cycle and teardown.
// With the software driver the last frame of every view is written as a
// PNG.
//
// Usage:
//
//	loopdemo -views 3 -mode continuously -out /tmp/frames
//	loopdemo -config demo.toml -driver vulkan -v
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"

	"github.com/gogpu/renderloop"
	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
	_ "github.com/gogpu/renderloop/native/gpu"
	_ "github.com/gogpu/renderloop/native/software"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "loopdemo:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("loopdemo", flag.ContinueOnError)
	var (
		configPath = fs.String("config", "", "TOML config file")
		driver     = fs.String("driver", "software", "native driver ("+fmt.Sprint(native.List())+")")
		frames     = fs.Int("frames", 12, "frames to draw per view")
		out        = fs.String("out", ".", "directory for PNG frames, empty to skip")
		views      = fs.Int("views", 2, "number of views when the config has none")
		width      = fs.Int("width", 160, "initial view width")
		height     = fs.Int("height", 120, "initial view height")
		mode       = fs.String("mode", "when-dirty", "render mode: when-dirty or continuously")
		aa         = fs.String("aa", "none", "anti-aliasing: none, multisample or coverage")
		samples    = fs.Int("samples", 4, "multisample count")
		timeout    = fs.Duration("timeout", 30*time.Second, "overall deadline")
		verbose    = fs.Bool("v", false, "debug logging")
		lang       = fs.String("lang", "en", "summary language tag")
	)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	if *verbose {
		renderloop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	if set["driver"] || *configPath == "" {
		cfg.Driver = *driver
	}
	if set["frames"] || *configPath == "" {
		cfg.Frames = *frames
	}
	if set["out"] || *configPath == "" {
		cfg.Output = *out
	}

	if len(cfg.Views) == 0 {
		m, err := renderloop.ParseRenderMode(*mode)
		if err != nil {
			return err
		}
		a, err := config.ParseAntiAliasing(*aa)
		if err != nil {
			return err
		}
		for i := 0; i < *views; i++ {
			cfg.Views = append(cfg.Views, viewConfig{
				Name:         fmt.Sprintf("view%d", i),
				Width:        *width,
				Height:       *height,
				Mode:         m,
				AntiAliasing: a,
				Samples:      *samples,
			})
		}
	}
	if err := cfg.normalize(); err != nil {
		return err
	}
	tag, err := language.Parse(*lang)
	if err != nil {
		return fmt.Errorf("bad -lang: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	results, err := runAll(ctx, cfg)
	if err != nil {
		return err
	}
	if cfg.Output != "" {
		if err := writeFrames(cfg.Output, results); err != nil {
			return err
		}
	}
	printSummary(os.Stdout, tag, results)
	return nil
}
