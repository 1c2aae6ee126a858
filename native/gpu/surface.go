// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Surface is an offscreen render target sized to its window at creation.
// With a multisampled config the color target resolves into resolveTex.
// Each present draws the resolved frame into presentTex.
type Surface struct {
	win    native.Window
	cfg    config.Config
	width  uint32
	height uint32

	device hal.Device

	colorTex    hal.Texture
	colorView   hal.TextureView
	resolveTex  hal.Texture
	resolveView hal.TextureView
	depthTex    hal.Texture
	depthView   hal.TextureView
	presentTex  hal.Texture
	presentView hal.TextureView
	bindGroup   hal.BindGroup
}

// Size implements native.Surface.
func (s *Surface) Size() (width, height int) {
	return int(s.width), int(s.height)
}

// PresentTexture returns the texture holding the last presented frame.
func (s *Surface) PresentTexture() hal.Texture { return s.presentTex }

// frameTexture returns the single-sampled texture the frame is rendered or
// resolved into.
func (s *Surface) frameTexture() (hal.Texture, hal.TextureView) {
	if s.resolveTex != nil {
		return s.resolveTex, s.resolveView
	}
	return s.colorTex, s.colorView
}

// ensureTargets allocates the render targets on the device of ctx and binds
// the frame texture to its present pipeline. Targets on another device are
// released first.
func (s *Surface) ensureTargets(ctx *Context) error {
	device := ctx.device
	if s.device == device && s.colorTex != nil {
		return nil
	}
	s.destroyTargets()
	s.device = device

	size := hal.Extent3D{
		Width:              s.width,
		Height:             s.height,
		DepthOrArrayLayers: 1,
	}
	samples := uint32(s.cfg.SampleCount()) //nolint:gosec // at least 1
	format := s.cfg.ColorFormat()

	usage := gputypes.TextureUsageRenderAttachment
	if samples == 1 {
		usage |= gputypes.TextureUsageTextureBinding
	}
	colorTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "renderloop_color",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   samples,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return fmt.Errorf("create color texture: %w", err)
	}
	s.colorTex = colorTex
	colorView, err := device.CreateTextureView(colorTex, &hal.TextureViewDescriptor{Label: "renderloop_color_view"})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create color texture view: %w", err)
	}
	s.colorView = colorView

	if samples > 1 {
		resolveTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "renderloop_resolve",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   1,
			Dimension:     gputypes.TextureDimension2D,
			Format:        format,
			Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageTextureBinding,
		})
		if err != nil {
			s.destroyTargets()
			return fmt.Errorf("create resolve texture: %w", err)
		}
		s.resolveTex = resolveTex
		resolveView, err := device.CreateTextureView(resolveTex, &hal.TextureViewDescriptor{Label: "renderloop_resolve_view"})
		if err != nil {
			s.destroyTargets()
			return fmt.Errorf("create resolve texture view: %w", err)
		}
		s.resolveView = resolveView
	}

	if dsFormat := s.cfg.DepthStencilFormat(); dsFormat != gputypes.TextureFormatUndefined {
		depthTex, err := device.CreateTexture(&hal.TextureDescriptor{
			Label:         "renderloop_depth_stencil",
			Size:          size,
			MipLevelCount: 1,
			SampleCount:   samples,
			Dimension:     gputypes.TextureDimension2D,
			Format:        dsFormat,
			Usage:         gputypes.TextureUsageRenderAttachment,
		})
		if err != nil {
			s.destroyTargets()
			return fmt.Errorf("create depth/stencil texture: %w", err)
		}
		s.depthTex = depthTex
		depthView, err := device.CreateTextureView(depthTex, &hal.TextureViewDescriptor{Label: "renderloop_depth_stencil_view"})
		if err != nil {
			s.destroyTargets()
			return fmt.Errorf("create depth/stencil texture view: %w", err)
		}
		s.depthView = depthView
	}

	presentTex, err := device.CreateTexture(&hal.TextureDescriptor{
		Label:         "renderloop_present",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create present texture: %w", err)
	}
	s.presentTex = presentTex
	presentView, err := device.CreateTextureView(presentTex, &hal.TextureViewDescriptor{Label: "renderloop_present_view"})
	if err != nil {
		s.destroyTargets()
		return fmt.Errorf("create present texture view: %w", err)
	}
	s.presentView = presentView

	_, frameView := s.frameTexture()
	group, err := ctx.blit.bindFrame(frameView)
	if err != nil {
		s.destroyTargets()
		return err
	}
	s.bindGroup = group
	return nil
}

func (s *Surface) destroyTargets() {
	if s.device == nil {
		return
	}
	if s.bindGroup != nil {
		s.device.DestroyBindGroup(s.bindGroup)
		s.bindGroup = nil
	}
	if s.presentView != nil {
		s.device.DestroyTextureView(s.presentView)
		s.presentView = nil
	}
	if s.presentTex != nil {
		s.device.DestroyTexture(s.presentTex)
		s.presentTex = nil
	}
	if s.depthView != nil {
		s.device.DestroyTextureView(s.depthView)
		s.depthView = nil
	}
	if s.depthTex != nil {
		s.device.DestroyTexture(s.depthTex)
		s.depthTex = nil
	}
	if s.resolveView != nil {
		s.device.DestroyTextureView(s.resolveView)
		s.resolveView = nil
	}
	if s.resolveTex != nil {
		s.device.DestroyTexture(s.resolveTex)
		s.resolveTex = nil
	}
	if s.colorView != nil {
		s.device.DestroyTextureView(s.colorView)
		s.colorView = nil
	}
	if s.colorTex != nil {
		s.device.DestroyTexture(s.colorTex)
		s.colorTex = nil
	}
	s.device = nil
}

// renderPassDescriptor clears the color target and, if present, the
// depth/stencil target.
func (s *Surface) renderPassDescriptor(clear gputypes.Color) *hal.RenderPassDescriptor {
	desc := &hal.RenderPassDescriptor{
		Label: "renderloop_present_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       s.colorView,
			LoadOp:     gputypes.LoadOpClear,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: clear,
		}},
	}
	if s.resolveView != nil {
		desc.ColorAttachments[0].ResolveTarget = s.resolveView
	}
	if s.depthView != nil {
		desc.DepthStencilAttachment = &hal.RenderPassDepthStencilAttachment{
			View:              s.depthView,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		}
	}
	return desc
}

// blitPassDescriptor overwrites the present target.
func (s *Surface) blitPassDescriptor() *hal.RenderPassDescriptor {
	return &hal.RenderPassDescriptor{
		Label: "renderloop_blit_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    s.presentView,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
		}},
	}
}

var _ native.Surface = (*Surface)(nil)
