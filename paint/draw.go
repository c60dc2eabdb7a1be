package paint

import (
	"image"
	"math"

	"github.com/gogpu/ekaki"
)

// coverageGrid is the number of subsamples per pixel axis used to estimate
// dab coverage.
const coverageGrid = 8

// DrawPoint composites a filled anti-aliased circle of the given radius
// centered at p onto layer and returns the touched rect.
//
// Coverage is estimated on an 8x8 subsample grid per pixel. The color's
// alpha is scaled by the covered fraction and blended over the existing
// pixel with AlphaBlend.
func DrawPoint(layer ekaki.EditableLayer, p ekaki.Vec2, radius float64, c ekaki.Color) image.Rectangle {
	if radius <= 0 {
		return image.Rectangle{}
	}

	bounds := layer.Bounds()
	x0 := max(int(math.Floor(p.X-radius)), bounds.Min.X)
	y0 := max(int(math.Floor(p.Y-radius)), bounds.Min.Y)
	x1 := min(int(math.Floor(p.X+radius)), bounds.Max.X-1)
	y1 := min(int(math.Floor(p.Y+radius)), bounds.Max.Y-1)

	rr := radius * radius
	const step = 1.0 / coverageGrid

	var dirty image.Rectangle
	for iy := y0; iy <= y1; iy++ {
		for ix := x0; ix <= x1; ix++ {
			n := 0
			for jy := range coverageGrid {
				yy := float64(iy) - p.Y + float64(jy)*step
				for jx := range coverageGrid {
					xx := float64(ix) - p.X + float64(jx)*step
					if (xx*xx+yy*yy)/rr < 1 {
						n++
					}
				}
			}
			if n == 0 {
				continue
			}

			alpha := float64(n) / (coverageGrid * coverageGrid) * c.A
			layer.SetColor(ix, iy, ekaki.AlphaBlendColor(layer.ColorAt(ix, iy), c.WithAlpha(alpha)))
			dirty = dirty.Union(image.Rect(ix, iy, ix+1, iy+1))
		}
	}
	return dirty
}

// DrawLine stamps dabs from 'from' towards 'to' every radius/2 pixels of arc
// length and returns the leftover distance into the next segment along with
// the touched rect.
//
// leftover is the distance from 'from' to the first dab. Passing the value
// returned by the previous call keeps spacing even across segments.
func DrawLine(layer ekaki.EditableLayer, from, to ekaki.Vec2, radius float64, c ekaki.Color, leftover float64) (float64, image.Rectangle) {
	d := to.Sub(from)
	length := d.Length()
	if length == 0 {
		return leftover, image.Rectangle{}
	}

	step := max(radius*0.5/length, 0.0001)

	var dirty image.Rectangle
	t := leftover / length
	for t < 1 {
		dirty = dirty.Union(DrawPoint(layer, from.Add(d.Mul(t)), radius, c))
		t += step
	}
	return length * (t - 1), dirty
}
