package ekaki

import (
	"image"
	"sync"

	"github.com/gogpu/ekaki/internal/blend"
)

// scratchPool holds byte buffers used when a layer cannot expose a raw view.
var scratchPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 64*1024)
		return &b
	},
}

func getScratch(n int) *[]byte {
	bp := scratchPool.Get().(*[]byte)
	if cap(*bp) < n {
		*bp = make([]byte, n)
	}
	*bp = (*bp)[:n]
	return bp
}

// Bake composites src onto dst over the overlap of both extents.
func Bake(mode BlendMode, dst EditableLayer, src Layer) {
	BakeRect(mode, dst, src, dst.Bounds())
}

// BakeRect composites src onto dst within clip, using mode for every pixel.
//
// clip is intersected with both extents; an empty result is a no-op. When
// both layers expose raw views the rows are blended in place. Otherwise the
// missing side is staged through a scratch buffer, and dst is written back
// only if it was staged.
func BakeRect(mode BlendMode, dst EditableLayer, src Layer, clip image.Rectangle) {
	clip = clip.Intersect(dst.Bounds()).Intersect(src.Bounds())
	if clip.Empty() {
		return
	}

	w, h := clip.Dx(), clip.Dy()
	size := w * h * 4

	dv, dstRaw := rawView(dst, clip)
	sv, srcRaw := rawReadView(src, clip)

	var scratch *[]byte
	switch {
	case !dstRaw && !srcRaw:
		scratch = getScratch(size * 2)
		dv = Region{Pix: (*scratch)[:size], Stride: w * 4, Width: w, Height: h}
		sv = Region{Pix: (*scratch)[size:], Stride: w * 4, Width: w, Height: h}
		dst.ReadRaw(clip, dv)
		src.ReadRaw(clip, sv)
	case !dstRaw:
		scratch = getScratch(size)
		dv = Region{Pix: *scratch, Stride: w * 4, Width: w, Height: h}
		dst.ReadRaw(clip, dv)
	case !srcRaw:
		scratch = getScratch(size)
		sv = Region{Pix: *scratch, Stride: w * 4, Width: w, Height: h}
		src.ReadRaw(clip, sv)
	}
	if scratch != nil {
		defer scratchPool.Put(scratch)
	}

	for y := 0; y < h; y++ {
		row := dv.Row(y)
		blend.Row(mode, row, row, sv.Row(y))
	}

	if !dstRaw {
		dst.WriteRaw(clip, dv)
	}
}
