package ekaki

// CanvasToView maps a canvas point (origin top-left, y down) to view space
// (origin center, y up):
//
//	view = flipY(p - canvasHalf)*scale + offset
func CanvasToView(p Vec2, scale float64, offset, canvasHalf Vec2) Vec2 {
	return p.Sub(canvasHalf).FlipY().Mul(scale).Add(offset)
}

// ViewToCanvas is the inverse of CanvasToView:
//
//	canvas = canvasHalf + flipY((p - offset)/scale)
func ViewToCanvas(p Vec2, scale float64, offset, canvasHalf Vec2) Vec2 {
	return canvasHalf.Add(p.Sub(offset).Div(scale).FlipY())
}

// ViewToViewport maps a view point to the normalized [-1, 1] space of a
// viewport of the given size.
func ViewToViewport(p Vec2, viewSize Vec2) Vec2 {
	return Vec2{X: p.X / (viewSize.X / 2), Y: p.Y / (viewSize.Y / 2)}
}

// ViewportToView is the inverse of ViewToViewport.
func ViewportToView(p Vec2, viewSize Vec2) Vec2 {
	return Vec2{X: p.X * viewSize.X / 2, Y: p.Y * viewSize.Y / 2}
}
