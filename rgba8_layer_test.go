package ekaki

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"
)

var _ draw.Image = (*RGBA8Layer)(nil)

func TestRGBA8Layer_Buffer(t *testing.T) {
	l := NewRGBA8Layer(7, 3)
	if got, want := len(l.Pix()), 7*3*4; got != want {
		t.Errorf("len(Pix()) = %d, want %d", got, want)
	}
	if l.Stride() != 28 {
		t.Errorf("Stride() = %d, want 28", l.Stride())
	}
	if l.Bounds() != image.Rect(0, 0, 7, 3) {
		t.Errorf("Bounds() = %v, want (0,0)-(7,3)", l.Bounds())
	}
	if l.BlendMode() != AlphaBlend {
		t.Errorf("BlendMode() = %v, want AlphaBlend", l.BlendMode())
	}
}

func TestRGBA8Layer_SetColor(t *testing.T) {
	l := NewRGBA8Layer(4, 4)
	l.SetColor(1, 2, Red)
	l.SetColor(-1, 0, Red)
	l.SetColor(4, 0, Red)

	if got := l.ColorAt(1, 2); got != Red {
		t.Errorf("ColorAt(1, 2) = %v, want %v", got, Red)
	}
	if got := l.ColorAt(9, 9); got != Transparent {
		t.Errorf("ColorAt(9, 9) = %v, want Transparent", got)
	}
	if got := l.Pix()[(2*4+1)*4:][:4]; got[0] != 255 || got[3] != 255 {
		t.Errorf("raw pixel = %v, want red", got)
	}
}

func TestRGBA8Layer_FillRect(t *testing.T) {
	l := NewRGBA8Layer(5, 5)
	l.FillRect(Blue, image.Rect(1, 1, 3, 4))
	l.FillRect(Blue, image.Rect(10, 10, 20, 20))

	for y := 0; y < 5; y++ {
		for x := 0; x < 5; x++ {
			in := x >= 1 && x < 3 && y >= 1 && y < 4
			want := Transparent
			if in {
				want = Blue
			}
			if got := l.ColorAt(x, y); got != want {
				t.Errorf("ColorAt(%d, %d) = %v, want %v", x, y, got, want)
			}
		}
	}

	l.Fill(Transparent)
	if got := l.ColorAt(2, 2); got != Transparent {
		t.Errorf("after Fill(Transparent), ColorAt = %v", got)
	}
}

func TestRGBA8Layer_RawRoundTrip(t *testing.T) {
	l := NewRGBA8Layer(6, 6)
	for i := range l.Pix() {
		l.Pix()[i] = byte(i)
	}

	rect := image.Rect(2, 1, 5, 4)
	dst := NewRegion(rect.Dx(), rect.Dy())
	l.ReadRaw(rect, dst)

	other := NewRGBA8Layer(6, 6)
	other.WriteRaw(rect, dst)
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if other.ColorAt(x, y) != l.ColorAt(x, y) {
				t.Fatalf("pixel (%d, %d) differs after ReadRaw/WriteRaw", x, y)
			}
		}
	}
	if other.ColorAt(0, 0) != Transparent {
		t.Error("WriteRaw wrote outside rect")
	}
}

func TestRGBA8Layer_RawViewAliases(t *testing.T) {
	l := NewRGBA8Layer(4, 4)
	v, ok := l.RawView(image.Rect(1, 1, 3, 3))
	if !ok {
		t.Fatal("RawView() ok = false")
	}
	copy(v.Row(1), []byte{9, 9, 9, 9})
	if got := l.Pix()[(2*4+1)*4]; got != 9 {
		t.Errorf("write through view not visible, got %d", got)
	}
}

func TestRGBA8Layer_Image(t *testing.T) {
	l := NewRGBA8Layer(2, 2)
	l.Set(1, 1, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	if got := l.At(1, 1); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("At(1, 1) = %v", got)
	}
}

func TestNewRGBA8LayerFrom(t *testing.T) {
	if _, err := NewRGBA8LayerFrom(2, 2, make([]byte, 15)); !errors.Is(err, ErrSizeMismatch) {
		t.Errorf("short buffer: err = %v, want ErrSizeMismatch", err)
	}
	if _, err := NewRGBA8LayerFrom(0, 2, nil); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("zero width: err = %v, want ErrInvalidSize", err)
	}
	pix := make([]byte, 16)
	l, err := NewRGBA8LayerFrom(2, 2, pix)
	if err != nil {
		t.Fatalf("NewRGBA8LayerFrom() = %v", err)
	}
	l.SetColor(0, 0, White)
	if pix[3] != 255 {
		t.Error("layer does not share the supplied buffer")
	}
}

func TestImageLayer(t *testing.T) {
	img := image.NewNRGBA(image.Rect(10, 10, 14, 13))
	l := NewImageLayer(img)

	if l.Bounds() != image.Rect(0, 0, 4, 3) {
		t.Errorf("Bounds() = %v, want (0,0)-(4,3)", l.Bounds())
	}
	if _, ok := Layer(l).(RawReader); ok {
		t.Error("ImageLayer must not expose a raw view")
	}

	l.SetColor(1, 1, Green)
	if got := img.NRGBAAt(11, 11); got != (color.NRGBA{G: 255, A: 255}) {
		t.Errorf("SetColor wrote %v, want opaque green", got)
	}
	if got := l.ColorAt(1, 1); got != Green {
		t.Errorf("ColorAt(1, 1) = %v, want %v", got, Green)
	}

	l.FillRect(Red, image.Rect(2, 0, 4, 3))
	if got := l.ColorAt(3, 2); got != Red {
		t.Errorf("after FillRect, ColorAt(3, 2) = %v, want %v", got, Red)
	}
	if got := l.ColorAt(0, 0); got != Transparent {
		t.Errorf("FillRect leaked to (0, 0): %v", got)
	}
}
