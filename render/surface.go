// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"image"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/gputypes"
)

// Surface is the CPU-side view image a renderer presents into.
//
// Pixels are straight-alpha RGBA8, row-major, top-left origin. Every present
// grows the damage rect until the host collects it with TakeDamage.
//
// Example:
//
//	r.Render(param, layer)
//	if dirty := r.Surface().TakeDamage(); !dirty.Empty() {
//	    blit(r.Surface().Image(), dirty)
//	}
type Surface struct {
	layer  *ekaki.RGBA8Layer
	damage image.Rectangle
}

func newSurface(width, height int, bg ekaki.Color) *Surface {
	s := &Surface{layer: ekaki.NewRGBA8Layer(width, height)}
	s.layer.Fill(bg)
	return s
}

// Width returns the surface width in pixels.
func (s *Surface) Width() int { return s.layer.Width() }

// Height returns the surface height in pixels.
func (s *Surface) Height() int { return s.layer.Height() }

// Bounds returns the surface extent.
func (s *Surface) Bounds() image.Rectangle { return s.layer.Bounds() }

// Format returns the pixel format (RGBA8).
func (s *Surface) Format() gputypes.TextureFormat {
	return gputypes.TextureFormatRGBA8Unorm
}

// Pixels returns direct access to the pixel data.
func (s *Surface) Pixels() []byte { return s.layer.Pix() }

// Stride returns the number of bytes per row.
func (s *Surface) Stride() int { return s.layer.Stride() }

// Layer returns the surface as a layer. The layer shares memory with the
// surface.
func (s *Surface) Layer() *ekaki.RGBA8Layer { return s.layer }

// Image returns an *image.NRGBA sharing memory with the surface.
func (s *Surface) Image() *image.NRGBA {
	return &image.NRGBA{
		Pix:    s.layer.Pix(),
		Stride: s.layer.Stride(),
		Rect:   s.layer.Bounds(),
	}
}

// Damage returns the presented rect accumulated since the last TakeDamage.
func (s *Surface) Damage() image.Rectangle { return s.damage }

// TakeDamage returns and resets the accumulated damage.
func (s *Surface) TakeDamage() image.Rectangle {
	d := s.damage
	s.damage = image.Rectangle{}
	return d
}

// present marks r as holding new content.
func (s *Surface) present(r image.Rectangle) {
	s.damage = s.damage.Union(r.Intersect(s.layer.Bounds()))
}

// resize replaces the pixel buffer. The contents are not preserved.
func (s *Surface) resize(width, height int, bg ekaki.Color) {
	s.layer = ekaki.NewRGBA8Layer(width, height)
	s.layer.Fill(bg)
	s.damage = s.layer.Bounds()
}
