// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package gpu is a native driver on top of the wgpu HAL Vulkan backend.
//
// A display is a HAL instance with one selected adapter. A context is an
// open device with its queue and implements gpucontext.DeviceProvider:
// Device and Queue return the hal.Device and hal.Queue, AdapterInfo the
// adapter name and type. A surface binding is an offscreen render target
// sized to the window, allocated when the surface is first made current.
//
// Each context compiles a WGSL present shader to SPIR-V with naga and
// builds a pipeline from it. SwapBuffers records a clear pass into the
// frame target, draws the frame into the present target with that
// pipeline, submits and polls the queue until the submission completes:
// a failed submit reports CONTEXT_LOST, a timeout BAD_SURFACE.
//
// The driver registers itself as "vulkan" with GPU priority. Build with
// the nogpu tag to leave it out.
package gpu
