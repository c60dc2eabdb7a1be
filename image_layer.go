package ekaki

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// ImageLayer adapts any draw.Image to EditableLayer.
//
// It exposes no raw view, so compositing against it goes through ReadRaw and
// WriteRaw. Use it to bake into host-owned images such as display buffers or
// decoded files.
type ImageLayer struct {
	img  draw.Image
	mode BlendMode
}

var _ DrawingLayer = (*ImageLayer)(nil)

// NewImageLayer wraps img. The layer reports img's size with its origin
// moved to (0, 0).
func NewImageLayer(img draw.Image) *ImageLayer {
	return &ImageLayer{img: img}
}

// Image returns the wrapped image.
func (l *ImageLayer) Image() draw.Image { return l.img }

// Bounds returns the layer extent.
func (l *ImageLayer) Bounds() image.Rectangle {
	b := l.img.Bounds()
	return image.Rect(0, 0, b.Dx(), b.Dy())
}

func (l *ImageLayer) origin() image.Point { return l.img.Bounds().Min }

// ColorAt returns the color at (x, y).
func (l *ImageLayer) ColorAt(x, y int) Color {
	if !(image.Point{X: x, Y: y}).In(l.Bounds()) {
		return Transparent
	}
	o := l.origin()
	return ColorFromNRGBA(l.img.At(o.X+x, o.Y+y))
}

// SetColor sets the color at (x, y).
func (l *ImageLayer) SetColor(x, y int, c Color) {
	if !(image.Point{X: x, Y: y}).In(l.Bounds()) {
		return
	}
	o := l.origin()
	l.img.Set(o.X+x, o.Y+y, c.NRGBA())
}

// BlendMode returns the layer's blend mode.
func (l *ImageLayer) BlendMode() BlendMode { return l.mode }

// SetBlendMode changes the layer's blend mode.
func (l *ImageLayer) SetBlendMode(mode BlendMode) { l.mode = mode }

// Fill sets every pixel to c.
func (l *ImageLayer) Fill(c Color) {
	l.FillRect(c, l.Bounds())
}

// FillRect sets every pixel in rect to c.
func (l *ImageLayer) FillRect(c Color, rect image.Rectangle) {
	rect = rect.Intersect(l.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(l.img, rect.Add(l.origin()), image.NewUniform(c.NRGBA()), image.Point{}, draw.Src)
}

// ReadRaw copies the pixels of rect into dst.
func (l *ImageLayer) ReadRaw(rect image.Rectangle, dst Region) {
	o := l.origin()
	h := min(rect.Dy(), dst.Height)
	w := min(rect.Dx(), dst.Width)
	for y := 0; y < h; y++ {
		row := dst.Row(y)
		for x := 0; x < w; x++ {
			n := color.NRGBAModel.Convert(l.img.At(o.X+rect.Min.X+x, o.Y+rect.Min.Y+y)).(color.NRGBA)
			row[x*4], row[x*4+1], row[x*4+2], row[x*4+3] = n.R, n.G, n.B, n.A
		}
	}
}

// WriteRaw copies pixels from src into rect.
func (l *ImageLayer) WriteRaw(rect image.Rectangle, src Region) {
	o := l.origin()
	h := min(rect.Dy(), src.Height)
	w := min(rect.Dx(), src.Width)
	for y := 0; y < h; y++ {
		row := src.Row(y)
		for x := 0; x < w; x++ {
			l.img.Set(o.X+rect.Min.X+x, o.Y+rect.Min.Y+y,
				color.NRGBA{R: row[x*4], G: row[x*4+1], B: row[x*4+2], A: row[x*4+3]})
		}
	}
}
