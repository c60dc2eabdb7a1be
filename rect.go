package ekaki

import (
	"image"
	"math"
)

// TransformRect scales r by scale, moves it by offset, and returns the
// smallest integer rectangle containing the result. Left and top are
// floored, right and bottom are ceiled.
//
// An empty r yields an empty rectangle.
func TransformRect(r image.Rectangle, scale float64, offset Vec2) image.Rectangle {
	if r.Empty() {
		return image.Rectangle{}
	}
	x := float64(r.Min.X)*scale + offset.X
	y := float64(r.Min.Y)*scale + offset.Y
	right := x + float64(r.Dx())*scale
	bottom := y + float64(r.Dy())*scale
	return image.Rect(
		int(math.Floor(x)), int(math.Floor(y)),
		int(math.Ceil(right)), int(math.Ceil(bottom)),
	)
}
