package ekaki

import (
	"image"
	"math"
)

// ScaleMethod selects how source pixels are sampled by TransformLayer.
type ScaleMethod uint8

const (
	// NearestNeighbor maps each destination pixel to one source pixel.
	NearestNeighbor ScaleMethod = iota

	// OverSampling averages an N x N grid of sub-pixel samples per
	// destination pixel.
	OverSampling
)

// String returns the method name.
func (m ScaleMethod) String() string {
	switch m {
	case NearestNeighbor:
		return "NearestNeighbor"
	case OverSampling:
		return "OverSampling"
	default:
		return "Unknown"
	}
}

// ScaleOption configures sampling. Subpixels is only used by OverSampling;
// values below 1 are treated as 1.
//
// ScaleOption is comparable with ==.
type ScaleOption struct {
	Method    ScaleMethod
	Subpixels int
}

// Nearest returns a nearest-neighbor ScaleOption.
func Nearest() ScaleOption {
	return ScaleOption{Method: NearestNeighbor}
}

// OverSample returns an oversampling ScaleOption with n x n sub-pixels.
func OverSample(n int) ScaleOption {
	return ScaleOption{Method: OverSampling, Subpixels: n}
}

// TransformLayer draws src into dst scaled by scale and moved by offset,
// filling uncovered pixels with fill. It returns the rectangle of dst that
// was written.
func TransformLayer(dst EditableLayer, src Layer, scale float64, opt ScaleOption, offset Vec2, fill Color) image.Rectangle {
	return TransformLayerRect(dst, src, scale, opt, offset, fill, dst.Bounds())
}

// TransformLayerRect is like TransformLayer but only writes renderRect.
//
// Source pixel (sx, sy) covers the destination square starting at
// (sx*scale + offset.X, sy*scale + offset.Y). Each destination pixel is
// sampled at its centre, so a pixel takes the source pixel that covers
// (x+0.5, y+0.5). Pixels of renderRect outside the transformed source extent
// are set to fill, as are samples that fall outside the source.
func TransformLayerRect(dst EditableLayer, src Layer, scale float64, opt ScaleOption, offset Vec2, fill Color, renderRect image.Rectangle) image.Rectangle {
	renderRect = renderRect.Intersect(dst.Bounds())
	if renderRect.Empty() || scale <= 0 {
		return image.Rectangle{}
	}

	sb := src.Bounds()
	inter := renderRect.Intersect(TransformRect(sb, scale, offset))
	if inter.Empty() {
		dst.FillRect(fill, renderRect)
		return renderRect
	}

	// Source pixels that can contribute to inter.
	srcRect := image.Rect(
		max(int(math.Floor((float64(inter.Min.X)-offset.X)/scale)), 0),
		max(int(math.Floor((float64(inter.Min.Y)-offset.Y)/scale)), 0),
		min(int(math.Ceil((float64(inter.Max.X)-offset.X)/scale)), sb.Dx()),
		min(int(math.Ceil((float64(inter.Max.Y)-offset.Y)/scale)), sb.Dy()),
	)
	if srcRect.Empty() {
		dst.FillRect(fill, renderRect)
		return renderRect
	}

	w, h := renderRect.Dx(), renderRect.Dy()
	dv, dstRaw := rawView(dst, renderRect)
	if !dstRaw {
		bp := getScratch(w * h * 4)
		defer scratchPool.Put(bp)
		dv = Region{Pix: *bp, Stride: w * 4, Width: w, Height: h}
	}

	sv, srcRaw := rawReadView(src, srcRect)
	if !srcRaw {
		bp := getScratch(srcRect.Dx() * srcRect.Dy() * 4)
		defer scratchPool.Put(bp)
		sv = Region{Pix: *bp, Stride: srcRect.Dx() * 4, Width: srcRect.Dx(), Height: srcRect.Dy()}
		src.ReadRaw(srcRect, sv)
	}

	s := sampler{
		src:    sv,
		origin: srcRect.Min,
		scale:  scale,
		offset: offset,
		fill:   fill.Raw(),
	}

	for y := renderRect.Min.Y; y < renderRect.Max.Y; y++ {
		row := dv.Row(y - renderRect.Min.Y)
		if y < inter.Min.Y || y >= inter.Max.Y {
			fillRow(row, s.fill)
			continue
		}

		left := (inter.Min.X - renderRect.Min.X) * 4
		right := (inter.Max.X - renderRect.Min.X) * 4
		fillRow(row[:left], s.fill)
		fillRow(row[right:], s.fill)

		mid := row[left:right]
		if opt.Method == OverSampling {
			s.overSampleRow(mid, inter.Min.X, y, max(opt.Subpixels, 1))
		} else {
			s.nearestRow(mid, inter.Min.X, y)
		}
	}

	if !dstRaw {
		dst.WriteRaw(renderRect, dv)
	}
	return renderRect
}

// sampler reads a source region placed in destination space.
type sampler struct {
	src    Region
	origin image.Point // source coordinates of src's first pixel
	scale  float64
	offset Vec2
	fill   [4]byte
}

// srcX maps a destination x position to a column of src. The result may be
// out of range.
func (s *sampler) srcX(x float64) int {
	return int(math.Floor((x-s.offset.X)/s.scale)) - s.origin.X
}

// srcY maps a destination y position to a row of src. The result may be out
// of range.
func (s *sampler) srcY(y float64) int {
	return int(math.Floor((y-s.offset.Y)/s.scale)) - s.origin.Y
}

func (s *sampler) nearestRow(dst []byte, x0, y int) {
	sy := s.srcY(float64(y) + 0.5)
	if sy < 0 || sy >= s.src.Height {
		fillRow(dst, s.fill)
		return
	}
	srow := s.src.Row(sy)
	for i := 0; i < len(dst); i += 4 {
		sx := s.srcX(float64(x0+i/4) + 0.5)
		if sx < 0 || sx >= s.src.Width {
			copy(dst[i:i+4], s.fill[:])
			continue
		}
		copy(dst[i:i+4], srow[sx*4:sx*4+4])
	}
}

func (s *sampler) overSampleRow(dst []byte, x0, y, n int) {
	delta := 1 / float64(n)
	for i := 0; i < len(dst); i += 4 {
		x := float64(x0 + i/4)
		var r, g, b, a, count int
		for j := 0; j < n; j++ {
			sy := s.srcY(float64(y) + (float64(j)+0.5)*delta)
			if sy < 0 || sy >= s.src.Height {
				continue
			}
			srow := s.src.Row(sy)
			for k := 0; k < n; k++ {
				sx := s.srcX(x + (float64(k)+0.5)*delta)
				if sx < 0 || sx >= s.src.Width {
					continue
				}
				p := srow[sx*4 : sx*4+4]
				r += int(p[0])
				g += int(p[1])
				b += int(p[2])
				a += int(p[3])
				count++
			}
		}
		if count == 0 {
			copy(dst[i:i+4], s.fill[:])
			continue
		}
		half := count / 2
		dst[i] = byte((r + half) / count)
		dst[i+1] = byte((g + half) / count)
		dst[i+2] = byte((b + half) / count)
		dst[i+3] = byte((a + half) / count)
	}
}

func fillRow(row []byte, px [4]byte) {
	for i := 0; i+4 <= len(row); i += 4 {
		copy(row[i:i+4], px[:])
	}
}
