package ekaki

import (
	"fmt"
	"image"
	"image/color"
)

// RGBA8Layer is a layer backed by one contiguous RGBA8 buffer.
//
// The buffer holds width*height*4 bytes with a stride of width*4. Pixels use
// straight alpha. RGBA8Layer also implements draw.Image so it can be used
// directly with the image and x/image packages.
type RGBA8Layer struct {
	width  int
	height int
	pix    []byte
	mode   BlendMode
}

// Compile-time interface checks.
var (
	_ DrawingLayer = (*RGBA8Layer)(nil)
	_ RawReader    = (*RGBA8Layer)(nil)
	_ RawWriter    = (*RGBA8Layer)(nil)
)

// NewRGBA8Layer creates a transparent layer with the given dimensions.
// Negative dimensions are treated as zero.
func NewRGBA8Layer(width, height int) *RGBA8Layer {
	width, height = max(width, 0), max(height, 0)
	return &RGBA8Layer{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
	}
}

// NewRGBA8LayerFrom wraps an existing buffer. The layer takes ownership of
// pix, which must hold exactly width*height*4 bytes.
func NewRGBA8LayerFrom(width, height int, pix []byte) (*RGBA8Layer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	if len(pix) != width*height*4 {
		return nil, fmt.Errorf("%w: have %d bytes, want %d", ErrSizeMismatch, len(pix), width*height*4)
	}
	return &RGBA8Layer{width: width, height: height, pix: pix}, nil
}

// Width returns the layer width.
func (l *RGBA8Layer) Width() int { return l.width }

// Height returns the layer height.
func (l *RGBA8Layer) Height() int { return l.height }

// Pix returns the backing buffer.
func (l *RGBA8Layer) Pix() []byte { return l.pix }

// Stride returns the number of bytes per row.
func (l *RGBA8Layer) Stride() int { return l.width * 4 }

// Bounds returns the layer extent.
func (l *RGBA8Layer) Bounds() image.Rectangle {
	return image.Rect(0, 0, l.width, l.height)
}

func (l *RGBA8Layer) offset(x, y int) int {
	return (y*l.width + x) * 4
}

func (l *RGBA8Layer) inBounds(x, y int) bool {
	return x >= 0 && x < l.width && y >= 0 && y < l.height
}

// ColorAt returns the color at (x, y).
func (l *RGBA8Layer) ColorAt(x, y int) Color {
	if !l.inBounds(x, y) {
		return Transparent
	}
	return ColorFromRaw(l.pix[l.offset(x, y):])
}

// SetColor sets the color at (x, y).
func (l *RGBA8Layer) SetColor(x, y int, c Color) {
	if !l.inBounds(x, y) {
		return
	}
	c.PutRaw(l.pix[l.offset(x, y):])
}

// BlendMode returns the layer's blend mode. The default is AlphaBlend.
func (l *RGBA8Layer) BlendMode() BlendMode { return l.mode }

// SetBlendMode changes the layer's blend mode.
func (l *RGBA8Layer) SetBlendMode(mode BlendMode) { l.mode = mode }

// Fill sets every pixel to c.
func (l *RGBA8Layer) Fill(c Color) {
	if c == Transparent {
		clear(l.pix)
		return
	}
	l.FillRect(c, l.Bounds())
}

// FillRect sets every pixel in rect to c.
func (l *RGBA8Layer) FillRect(c Color, rect image.Rectangle) {
	rect = rect.Intersect(l.Bounds())
	if rect.Empty() {
		return
	}
	px := c.Raw()
	row := l.pix[l.offset(rect.Min.X, rect.Min.Y):][:rect.Dx()*4]
	for i := 0; i < len(row); i += 4 {
		copy(row[i:i+4], px[:])
	}
	for y := rect.Min.Y + 1; y < rect.Max.Y; y++ {
		copy(l.pix[l.offset(rect.Min.X, y):], row)
	}
}

// ReadRaw copies the pixels of rect into dst.
func (l *RGBA8Layer) ReadRaw(rect image.Rectangle, dst Region) {
	src, _ := l.RawReadView(rect)
	dst.CopyFrom(src)
}

// WriteRaw copies pixels from src into rect.
func (l *RGBA8Layer) WriteRaw(rect image.Rectangle, src Region) {
	dst, _ := l.RawView(rect)
	dst.CopyFrom(src)
}

// RawReadView returns a view of rect aliasing the layer buffer.
func (l *RGBA8Layer) RawReadView(rect image.Rectangle) (Region, bool) {
	return l.RawView(rect)
}

// RawView returns a writable view of rect aliasing the layer buffer.
// rect is clipped to the layer bounds.
func (l *RGBA8Layer) RawView(rect image.Rectangle) (Region, bool) {
	rect = rect.Intersect(l.Bounds())
	if rect.Empty() {
		return Region{}, true
	}
	return Region{
		Pix:    l.pix[l.offset(rect.Min.X, rect.Min.Y):],
		Stride: l.Stride(),
		Width:  rect.Dx(),
		Height: rect.Dy(),
	}, true
}

// Clone returns a deep copy of the layer.
func (l *RGBA8Layer) Clone() *RGBA8Layer {
	c := &RGBA8Layer{width: l.width, height: l.height, mode: l.mode, pix: make([]byte, len(l.pix))}
	copy(c.pix, l.pix)
	return c
}

// ColorModel implements image.Image.
func (l *RGBA8Layer) ColorModel() color.Model { return color.NRGBAModel }

// At implements image.Image.
func (l *RGBA8Layer) At(x, y int) color.Color {
	if !l.inBounds(x, y) {
		return color.NRGBA{}
	}
	i := l.offset(x, y)
	return color.NRGBA{R: l.pix[i], G: l.pix[i+1], B: l.pix[i+2], A: l.pix[i+3]}
}

// Set implements draw.Image.
func (l *RGBA8Layer) Set(x, y int, c color.Color) {
	if !l.inBounds(x, y) {
		return
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	i := l.offset(x, y)
	l.pix[i], l.pix[i+1], l.pix[i+2], l.pix[i+3] = n.R, n.G, n.B, n.A
}
