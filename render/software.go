// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/ekaki"
)

// SoftwareRenderer resamples the layer on the CPU.
//
// Only the part of the view affected by a render is recomputed; everything
// outside the transformed layer is painted with the background.
type SoftwareRenderer struct {
	base
	surface *Surface
}

// NewSoftwareRenderer creates a software renderer for a width x height view.
func NewSoftwareRenderer(width, height int, background ekaki.Color) *SoftwareRenderer {
	b := newBase(width, height, background)
	return &SoftwareRenderer{
		base:    b,
		surface: newSurface(b.size.X, b.size.Y, background),
	}
}

// Kind implements Renderer.
func (r *SoftwareRenderer) Kind() Kind { return KindSoftware }

// Surface implements Renderer.
func (r *SoftwareRenderer) Surface() *Surface { return r.surface }

// SetSize implements Renderer.
func (r *SoftwareRenderer) SetSize(width, height int) {
	r.size = image.Pt(max(width, 0), max(height, 0))
	r.surface.resize(r.size.X, r.size.Y, r.background)
}

// SetBackground implements Renderer. The view is repainted with the new
// background; call Invalidate to draw the layer again.
func (r *SoftwareRenderer) SetBackground(c ekaki.Color) {
	r.background = c
	r.surface.layer.Fill(c)
	r.surface.present(r.surface.Bounds())
}

// Render implements Renderer.
func (r *SoftwareRenderer) Render(param Parameter, layer ekaki.Layer) image.Rectangle {
	return r.RenderRect(param, layer, layer.Bounds())
}

// RenderRect implements Renderer.
func (r *SoftwareRenderer) RenderRect(param Parameter, layer ekaki.Layer, layerRect image.Rectangle) image.Rectangle {
	rect := r.renderRect(param, layer.Bounds(), layerRect)
	return r.draw(param, layer, rect)
}

// Invalidate implements Renderer.
func (r *SoftwareRenderer) Invalidate(param Parameter, layer ekaki.Layer) {
	r.prev = param
	r.draw(param, layer, r.viewBounds())
}

func (r *SoftwareRenderer) draw(param Parameter, layer ekaki.Layer, rect image.Rectangle) image.Rectangle {
	origin := r.layerOrigin(param.Offset, param.Scale, layer.Bounds().Size())
	drawn := ekaki.TransformLayerRect(r.surface.layer, layer, param.Scale, param.ScaleOption, origin, r.background, rect)
	if !drawn.Empty() {
		r.surface.present(drawn)
	}
	return drawn
}

// Close implements Renderer.
func (r *SoftwareRenderer) Close() {}
