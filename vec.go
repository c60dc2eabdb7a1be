package ekaki

import (
	"image"
	"math"
)

// Vec2 represents a 2D position, offset, or size in floating point.
type Vec2 struct {
	X, Y float64
}

// V2 is a convenience function to create a Vec2.
func V2(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

// SizeVec returns the width and height of r as a Vec2.
func SizeVec(r image.Rectangle) Vec2 {
	return Vec2{X: float64(r.Dx()), Y: float64(r.Dy())}
}

// Add returns the sum of two vectors.
func (v Vec2) Add(w Vec2) Vec2 {
	return Vec2{X: v.X + w.X, Y: v.Y + w.Y}
}

// Sub returns the difference of two vectors.
func (v Vec2) Sub(w Vec2) Vec2 {
	return Vec2{X: v.X - w.X, Y: v.Y - w.Y}
}

// Mul returns the vector scaled by s.
func (v Vec2) Mul(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Div returns the vector divided by s.
func (v Vec2) Div(s float64) Vec2 {
	return Vec2{X: v.X / s, Y: v.Y / s}
}

// FlipY returns the vector with its Y component negated.
func (v Vec2) FlipY() Vec2 {
	return Vec2{X: v.X, Y: -v.Y}
}

// Mid returns the point halfway between v and w.
func (v Vec2) Mid(w Vec2) Vec2 {
	return v.Add(w.Sub(v).Div(2))
}

// Length returns the length of the vector.
func (v Vec2) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// Approx returns true if v and w are within epsilon of each other.
func (v Vec2) Approx(w Vec2, epsilon float64) bool {
	return math.Abs(v.X-w.X) < epsilon && math.Abs(v.Y-w.Y) < epsilon
}
