package ekaki

import "github.com/gogpu/ekaki/internal/blend"

// BlendMode selects how a top pixel is merged into a base pixel.
type BlendMode = blend.Mode

// Blend modes.
const (
	// AlphaBlend composites top over base (Porter-Duff "over" with straight
	// alpha).
	AlphaBlend = blend.AlphaBlend

	// Erase lowers the base alpha by the top alpha. It is used by the eraser.
	Erase = blend.Erase

	// Mask behaves as AlphaBlend only where the base already has ink.
	Mask = blend.Mask

	// DirectBase passes the base through unchanged.
	DirectBase = blend.DirectBase

	// DirectTop copies the top verbatim. The bottom layer of a canvas always
	// composites with DirectTop.
	DirectTop = blend.DirectTop
)

// Blend merges top into base using mode.
func Blend(mode BlendMode, base, top Color) Color {
	switch mode {
	case Erase:
		if top.A > 0 {
			a := base.A - top.A
			if a <= 0 {
				return Transparent
			}
			return base.WithAlpha(a)
		}
		return base
	case Mask:
		if base.A > 0 {
			return AlphaBlendColor(base, top)
		}
		return Transparent
	case DirectBase:
		return base
	case DirectTop:
		return top
	default:
		return AlphaBlendColor(base, top)
	}
}

// AlphaBlendColor composites top over base.
//
//	d = (1 - top.a) * base.a
//	a = top.a + d
//	c = (top.c*top.a + base.c*d) / a
//
// A zero result alpha yields Transparent.
func AlphaBlendColor(base, top Color) Color {
	d := (1 - top.A) * base.A
	a := top.A + d
	if a == 0 {
		return Transparent
	}
	return Color{
		R: (top.R*top.A + base.R*d) / a,
		G: (top.G*top.A + base.G*d) / a,
		B: (top.B*top.A + base.B*d) / a,
		A: a,
	}
}
