package ekaki

// Region is a strided window onto packed RGBA8 pixels.
//
// Row y of the region starts at Pix[y*Stride] and spans Width*4 bytes.
// A Region obtained from a layer aliases the layer's buffer; writes through
// it are visible in the layer.
type Region struct {
	Pix    []byte
	Stride int
	Width  int
	Height int
}

// NewRegion allocates a tightly packed region of w x h pixels.
func NewRegion(w, h int) Region {
	if w <= 0 || h <= 0 {
		return Region{}
	}
	return Region{Pix: make([]byte, w*h*4), Stride: w * 4, Width: w, Height: h}
}

// Row returns the bytes of row y.
func (r Region) Row(y int) []byte {
	off := y * r.Stride
	return r.Pix[off : off+r.Width*4 : off+r.Width*4]
}

// Empty reports whether the region has no pixels.
func (r Region) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// CopyFrom copies the overlapping top-left part of src into r row by row.
func (r Region) CopyFrom(src Region) {
	h := min(r.Height, src.Height)
	for y := 0; y < h; y++ {
		copy(r.Row(y), src.Row(y))
	}
}
