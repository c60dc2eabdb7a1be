// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/ekaki"
)

// Parameter places a layer in the view. It is comparable with ==.
type Parameter struct {
	// Scale is the zoom factor; 1 maps one layer pixel to one view pixel.
	Scale float64

	// ScaleOption selects how layer pixels are resampled.
	ScaleOption ekaki.ScaleOption

	// Offset moves the layer center away from the view center, in view
	// coordinates (Y up).
	Offset ekaki.Vec2
}

// DefaultParameter returns scale 1, 2x2 oversampling and no offset.
func DefaultParameter() Parameter {
	return Parameter{Scale: 1, ScaleOption: ekaki.OverSample(2)}
}

// Kind identifies a renderer backend.
type Kind uint8

const (
	KindSoftware Kind = iota
	KindGPU
)

// String returns the backend name.
func (k Kind) String() string {
	switch k {
	case KindSoftware:
		return "software"
	case KindGPU:
		return "gpu"
	default:
		return "unknown"
	}
}

// Renderer draws a layer into a view-sized Surface.
//
// Render and RenderRect return the part of the view that now shows new
// content. When the parameter differs from the previous call, the returned
// rect covers both the old and the new position of the layer.
type Renderer interface {
	// Size returns the view size in pixels.
	Size() image.Point

	// SetSize resizes the view. The next render redraws everything.
	SetSize(width, height int)

	Background() ekaki.Color
	SetBackground(c ekaki.Color)

	// Render draws the whole layer.
	Render(param Parameter, layer ekaki.Layer) image.Rectangle

	// RenderRect draws the part of the layer inside layerRect.
	RenderRect(param Parameter, layer ekaki.Layer, layerRect image.Rectangle) image.Rectangle

	// Invalidate redraws the whole view.
	Invalidate(param Parameter, layer ekaki.Layer)

	// Surface returns the view pixels.
	Surface() *Surface

	// Kind reports the backend.
	Kind() Kind

	// Close releases backend resources.
	Close()
}
