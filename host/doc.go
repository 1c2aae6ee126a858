// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package host adapts a host surface (a window, a texture view, an
// offscreen target) to a render thread.
//
// A View collects the pixel-format and rendering knobs, creates the render
// thread once a renderer is set and forwards the host lifecycle to it:
//
//	v := host.New(arbiter, display,
//	    host.WithRenderMode(renderloop.RenderContinuously),
//	    host.WithAntiAliasing(config.AntiAliasingMultisample, 4))
//	if err := v.SetRenderer(r); err != nil {
//	    return err
//	}
//	v.OnSurfaceAvailable(win, w, h)
//	...
//	v.OnSurfaceDestroyed()
//	v.Close()
//
// Renderers may implement FrameRateSetter, AntiAliasingSetter,
// LifecycleObserver and DetachObserver to hear about the matching host
// events.
package host
