// Package blend implements the raster compositing operators on packed
// RGBA8 pixels.
//
// All operations work with straight (non-premultiplied) alpha values in the
// range 0-255. A pixel is four consecutive bytes: R, G, B, A.
package blend

// Mode selects the operator used when merging a top pixel into a base pixel.
type Mode uint8

const (
	AlphaBlend Mode = iota // Result: top over base
	Erase                  // Result: base with alpha reduced by top alpha
	Mask                   // Result: top over base where base is inked, else clear
	DirectBase             // Result: base
	DirectTop              // Result: top
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case AlphaBlend:
		return "AlphaBlend"
	case Erase:
		return "Erase"
	case Mask:
		return "Mask"
	case DirectBase:
		return "DirectBase"
	case DirectTop:
		return "DirectTop"
	default:
		return "Unknown"
	}
}

// Func is the signature for raw blend operations.
// Parameters:
//   - br, bg, bb, ba: base color (red, green, blue, alpha)
//   - tr, tg, tb, ta: top color (red, green, blue, alpha)
//
// Returns: resulting color (r, g, b, a) after blending.
type Func func(br, bg, bb, ba, tr, tg, tb, ta byte) (r, g, b, a byte)

// GetFunc returns the blend function for the given mode.
// Returns the alpha blend function for unknown modes.
func GetFunc(mode Mode) Func {
	switch mode {
	case AlphaBlend:
		return blendAlpha
	case Erase:
		return blendErase
	case Mask:
		return blendMask
	case DirectBase:
		return blendDirectBase
	case DirectTop:
		return blendDirectTop
	default:
		return blendAlpha
	}
}

// blendAlpha composites top over base.
// Formula: d = (1 - Ta)*Ba, A = Ta + d, C = (Tc*Ta + Bc*d) / A
func blendAlpha(br, bg, bb, ba, tr, tg, tb, ta byte) (byte, byte, byte, byte) {
	if ta == 0 {
		return br, bg, bb, ba
	}
	if ba == 0 {
		return tr, tg, tb, ta
	}

	topA := float64(ta)
	d := (1 - topA/255) * float64(ba)
	ar := topA + d

	return round((float64(tr)*topA + float64(br)*d) / ar),
		round((float64(tg)*topA + float64(bg)*d) / ar),
		round((float64(tb)*topA + float64(bb)*d) / ar),
		round(ar)
}

// round converts a value in [0, 255] to the nearest byte.
func round(v float64) byte {
	if v >= 254.5 {
		return 255
	}
	return byte(v + 0.5)
}

// blendErase lowers the base alpha by the top alpha.
// Color channels are kept from base. Alpha at or below zero clears the pixel.
func blendErase(br, bg, bb, ba, _, _, _, ta byte) (byte, byte, byte, byte) {
	if ta == 0 {
		return br, bg, bb, ba
	}
	if ba <= ta {
		return 0, 0, 0, 0
	}
	return br, bg, bb, ba - ta
}

// blendMask composites top over base only where base has ink.
func blendMask(br, bg, bb, ba, tr, tg, tb, ta byte) (byte, byte, byte, byte) {
	if ba == 0 {
		return 0, 0, 0, 0
	}
	return blendAlpha(br, bg, bb, ba, tr, tg, tb, ta)
}

func blendDirectBase(br, bg, bb, ba, _, _, _, _ byte) (byte, byte, byte, byte) {
	return br, bg, bb, ba
}

func blendDirectTop(_, _, _, _, tr, tg, tb, ta byte) (byte, byte, byte, byte) {
	return tr, tg, tb, ta
}
