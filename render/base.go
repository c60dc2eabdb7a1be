// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/ekaki"
)

// base holds the state shared by every backend: view size, background and
// the parameter of the previous render.
type base struct {
	size       image.Point
	background ekaki.Color
	prev       Parameter
}

func newBase(width, height int, background ekaki.Color) base {
	return base{
		size:       image.Pt(max(width, 0), max(height, 0)),
		background: background,
		prev:       DefaultParameter(),
	}
}

func (b *base) Size() image.Point           { return b.size }
func (b *base) Background() ekaki.Color     { return b.background }
func (b *base) viewBounds() image.Rectangle { return image.Rectangle{Max: b.size} }

// layerOrigin returns the view pixel (top-left origin) where the layer's
// top-left corner lands.
func (b *base) layerOrigin(offset ekaki.Vec2, scale float64, layerSize image.Point) ekaki.Vec2 {
	return ekaki.V2(
		offset.X+float64(b.size.X)/2-float64(layerSize.X)/2*scale,
		-offset.Y+float64(b.size.Y)/2-float64(layerSize.Y)/2*scale,
	)
}

// renderRect computes the view rect to redraw and records param as the
// previous parameter.
func (b *base) renderRect(param Parameter, layerBounds, layerRect image.Rectangle) image.Rectangle {
	size := layerBounds.Size()

	var r image.Rectangle
	if param != b.prev {
		prev := ekaki.TransformRect(layerBounds, b.prev.Scale, b.layerOrigin(b.prev.Offset, b.prev.Scale, size))
		cur := ekaki.TransformRect(layerBounds, param.Scale, b.layerOrigin(param.Offset, param.Scale, size))
		r = prev.Union(cur)
	} else {
		r = ekaki.TransformRect(layerRect, param.Scale, b.layerOrigin(param.Offset, param.Scale, size))
	}

	b.prev = param
	return r
}
