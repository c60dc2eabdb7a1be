// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render presents a canvas layer in a view with a scale, a sampling
// method and an offset.
//
// Two backends implement Renderer:
//
//   - SoftwareRenderer: resamples on the CPU and updates only the part of the
//     view that changed.
//   - GPURenderer: uploads the layer into a storage buffer and draws a single
//     quad with a WGSL shader through wgpu/hal, then reads the frame back.
//
// New picks the GPU backend when a device is available and silently falls
// back to software otherwise:
//
//	r := render.New(800, 600)
//	defer r.Close()
//	rect := r.Render(render.DefaultParameter(), canvas.RenderedLayer())
//	img := r.Surface().Image()
//
// Build with the nogpu tag to leave the GPU backend out entirely.
//
// Thread Safety: renderers are NOT safe for concurrent use.
package render
