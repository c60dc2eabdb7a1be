package ekaki

import "image"

// Layer is a read-only raster surface.
//
// Bounds always has its origin at (0, 0). Rectangles passed to ReadRaw must
// lie within Bounds.
//
// Canvas tells layers apart with ==, so implementations should be pointer
// types. A layer whose dynamic type is not comparable is never treated as
// the active layer while a stroke is shown.
type Layer interface {
	// Bounds returns the layer extent.
	Bounds() image.Rectangle

	// ColorAt returns the color at (x, y), or Transparent outside Bounds.
	ColorAt(x, y int) Color

	// BlendMode returns the mode used when the layer is composited onto the
	// layers beneath it.
	BlendMode() BlendMode

	// ReadRaw copies the pixels of rect into dst as packed RGBA8 rows.
	ReadRaw(rect image.Rectangle, dst Region)
}

// EditableLayer is a Layer whose pixels can be written.
type EditableLayer interface {
	Layer

	// SetColor sets the color at (x, y). Writes outside Bounds are ignored.
	SetColor(x, y int, c Color)

	// Fill sets every pixel to c.
	Fill(c Color)

	// FillRect sets every pixel of rect (clipped to Bounds) to c.
	FillRect(c Color, rect image.Rectangle)

	// WriteRaw copies packed RGBA8 rows from src into rect.
	WriteRaw(rect image.Rectangle, src Region)
}

// DrawingLayer is the per-stroke scratch target of a Canvas. Its blend mode
// is chosen by the tool that draws into it.
type DrawingLayer interface {
	EditableLayer

	// SetBlendMode changes the mode used to bake the layer.
	SetBlendMode(mode BlendMode)
}

// RawReader is implemented by layers that can expose their pixels directly.
//
// RawReadView returns a Region aliasing the pixels of rect. It may return
// false, in which case callers fall back to ReadRaw.
type RawReader interface {
	RawReadView(rect image.Rectangle) (Region, bool)
}

// RawWriter is implemented by editable layers that can expose their pixels
// for in-place modification. RawView may return false, in which case callers
// fall back to ReadRaw and WriteRaw.
type RawWriter interface {
	RawView(rect image.Rectangle) (Region, bool)
}

// rawReadView returns a read view of rect when l offers one.
func rawReadView(l Layer, rect image.Rectangle) (Region, bool) {
	if rr, ok := l.(RawReader); ok {
		return rr.RawReadView(rect)
	}
	return Region{}, false
}

// rawView returns a read/write view of rect when l offers one.
func rawView(l EditableLayer, rect image.Rectangle) (Region, bool) {
	if rw, ok := l.(RawWriter); ok {
		return rw.RawView(rect)
	}
	return Region{}, false
}
