package ekaki

import (
	"image/color"
)

// Color represents a straight-alpha color with red, green, blue, and alpha
// components. Each component is in the range [0, 1].
//
// The packed form used by layers is four bytes R, G, B, A with color
// channels that are not premultiplied by alpha.
type Color struct {
	R, G, B, A float64
}

// RGB creates an opaque color from RGB components.
func RGB(r, g, b float64) Color {
	return Color{R: r, G: g, B: b, A: 1.0}
}

// RGBA creates a color from RGBA components.
func RGBA(r, g, b, a float64) Color {
	return Color{R: r, G: g, B: b, A: a}
}

// ColorFromRaw decodes a packed RGBA8 pixel. px must hold at least 4 bytes.
func ColorFromRaw(px []byte) Color {
	_ = px[3]
	return Color{
		R: float64(px[0]) / 255,
		G: float64(px[1]) / 255,
		B: float64(px[2]) / 255,
		A: float64(px[3]) / 255,
	}
}

// PutRaw encodes c into a packed RGBA8 pixel. Components are clamped to
// [0, 1] and truncated. dst must hold at least 4 bytes.
func (c Color) PutRaw(dst []byte) {
	_ = dst[3]
	dst[0] = uint8(clamp255(c.R * 255))
	dst[1] = uint8(clamp255(c.G * 255))
	dst[2] = uint8(clamp255(c.B * 255))
	dst[3] = uint8(clamp255(c.A * 255))
}

// Raw returns the packed RGBA8 form of c.
func (c Color) Raw() [4]byte {
	var px [4]byte
	c.PutRaw(px[:])
	return px
}

// WithAlpha returns c with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// NRGBA converts c to the standard non-premultiplied color type.
func (c Color) NRGBA() color.NRGBA {
	px := c.Raw()
	return color.NRGBA{R: px[0], G: px[1], B: px[2], A: px[3]}
}

// RGBA implements the color.Color interface.
func (c Color) RGBA() (r, g, b, a uint32) {
	return c.NRGBA().RGBA()
}

// ColorFromNRGBA converts a standard color to Color.
func ColorFromNRGBA(c color.Color) Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return ColorFromRaw([]byte{n.R, n.G, n.B, n.A})
}

func clamp255(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 255 {
		return 255
	}
	return x
}

// Common colors
var (
	White       = RGB(1, 1, 1)
	Black       = RGB(0, 0, 0)
	Red         = RGB(1, 0, 0)
	Green       = RGB(0, 1, 0)
	Blue        = RGB(0, 0, 1)
	Gray        = RGB(0.5, 0.5, 0.5)
	Yellow      = RGB(1, 1, 0)
	Purple      = RGB(1, 0, 1)
	Transparent = Color{}
)
