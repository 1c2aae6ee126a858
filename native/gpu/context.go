// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build !nogpu

package gpu

import (
	"sync"
	"time"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/renderloop/config"
	"github.com/gogpu/renderloop/native"
)

// Context is an open HAL device with its queue. It provides the device
// to renderers through gpucontext.DeviceProvider; Device and Queue return
// a hal.Device and a hal.Queue.
type Context struct {
	cfg     config.Config
	device  hal.Device
	queue   hal.Queue
	adapter hal.Adapter
	info    gputypes.AdapterInfo
	blit    *presentPipeline

	mu    sync.Mutex
	clear gputypes.Color
}

// Config implements native.Context.
func (c *Context) Config() config.Config { return c.cfg }

// SurfaceFormat reports the color format of the render targets.
func (c *Context) SurfaceFormat() gputypes.TextureFormat { return c.cfg.ColorFormat() }

// Device returns the hal.Device of the context, or nil once destroyed.
func (c *Context) Device() gpucontext.Device {
	if c.device == nil {
		return nil
	}
	return c.device
}

// Queue returns the hal.Queue of the context, or nil once destroyed.
func (c *Context) Queue() gpucontext.Queue {
	if c.queue == nil {
		return nil
	}
	return c.queue
}

// Adapter returns the hal.Adapter the device was opened on.
func (c *Context) Adapter() gpucontext.Adapter {
	if c.adapter == nil {
		return nil
	}
	return c.adapter
}

// AdapterInfo reports the name and type of the adapter.
func (c *Context) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: c.info.Name, Type: adapterType(c.info.DeviceType)}
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}

// SetClearColor sets the color the next presents clear to.
func (c *Context) SetClearColor(r, g, b, a float64) {
	c.mu.Lock()
	c.clear = gputypes.Color{R: r, G: g, B: b, A: a}
	c.mu.Unlock()
}

func (c *Context) clearColor() gputypes.Color {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.clear
}

// pollInterval is the sleep between completion polls of a present.
const pollInterval = 100 * time.Microsecond

// present records the clear pass of s and the blit of its frame into the
// present target, then waits until the queue reports the submission
// complete.
func (c *Context) present(s *Surface) native.Status {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "renderloop_present_encoder"})
	if err != nil {
		native.Logger().Warn("gpu: create command encoder", "err", err)
		return native.StatusBadAlloc
	}
	if err := encoder.BeginEncoding("renderloop_present"); err != nil {
		native.Logger().Warn("gpu: begin encoding", "err", err)
		return native.StatusBadAlloc
	}

	rp := encoder.BeginRenderPass(s.renderPassDescriptor(c.clearColor()))
	rp.End()

	frame, _ := s.frameTexture()
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: frame,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageTextureBinding,
		},
	}})
	rp = encoder.BeginRenderPass(s.blitPassDescriptor())
	c.blit.record(rp, s.bindGroup)
	rp.End()
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: frame,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageTextureBinding,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		native.Logger().Warn("gpu: end encoding", "err", err)
		return native.StatusBadAlloc
	}
	defer c.device.FreeCommandBuffer(cmdBuf)

	idx, err := c.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		native.Logger().Warn("gpu: submit", "err", err)
		return native.StatusContextLost
	}
	deadline := time.Now().Add(swapTimeout)
	for c.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			native.Logger().Warn("gpu: present timed out", "timeout", swapTimeout)
			return native.StatusBadSurface
		}
		time.Sleep(pollInterval)
	}
	return native.StatusSuccess
}

var _ native.Context = (*Context)(nil)

var _ gpucontext.DeviceProvider = (*Context)(nil)
