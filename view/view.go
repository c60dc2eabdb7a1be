package view

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"slices"
	"time"

	"golang.org/x/image/draw"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/ekaki/paint"
	"github.com/gogpu/ekaki/render"
	"github.com/gogpu/ekaki/undo"
)

const (
	// MinScale and MaxScale bound wheel and pinch zoom.
	MinScale = 0.2
	MaxScale = 10.0

	wheelStep = 0.2

	// softwareDelay throttles software redraws to about 30 fps.
	softwareDelay = 32 * time.Millisecond

	maxRenderVersion = 10000
)

// Background is the color shown around the canvas.
var Background = ekaki.RGBA(0.8, 0.8, 0.8, 1)

// RenderFunc is called after the view redraws. rect is the part of the view
// that changed.
type RenderFunc func(v *CanvasView, param render.Parameter, rect image.Rectangle)

// Handle identifies a subscription made with OnViewRender.
type Handle uint64

type viewSub struct {
	id Handle
	fn RenderFunc
}

// pinchState is captured when a two-finger gesture starts.
type pinchState struct {
	option       ekaki.ScaleOption
	scale        float64
	centerCanvas ekaki.Vec2
	distance     float64
}

// CanvasView shows a Canvas and routes input to painting tools.
//
// View-canvas coordinates, used by every input method, are pixels of the
// view with the origin at the top-left corner.
type CanvasView struct {
	canvas   *ekaki.Canvas
	renderer render.Renderer
	sched    Scheduler
	undo     *undo.Manager
	tools    paint.Provider

	editDisabled bool
	autoAdjust   bool

	param   render.Parameter
	version int

	subs      []viewSub
	nextID    Handle
	canvasSub ekaki.RenderHandle

	stroke *paint.PaintingContext
	pinch  *pinchState
}

var _ paint.View = (*CanvasView)(nil)

// New creates a view of the given size showing canvas.
//
// Unless WithRenderer is given, the renderer is created with render.New and
// falls back to software when no GPU is available.
func New(size image.Point, canvas *ekaki.Canvas, opts ...Option) *CanvasView {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	r := o.renderer
	if r == nil {
		ropts := append([]render.Option{render.WithBackground(Background)}, o.renderOptions...)
		if o.softwareOnly {
			ropts = append(ropts, render.WithSoftwareOnly())
		}
		r = render.New(size.X, size.Y, ropts...)
	}

	sched := o.scheduler
	if sched == nil {
		sched = immediate{}
	}

	v := &CanvasView{
		canvas:       canvas,
		renderer:     r,
		sched:        sched,
		undo:         o.undo,
		tools:        o.tools,
		editDisabled: o.editDisabled,
		autoAdjust:   !o.noAutoAdjust,
		param:        render.DefaultParameter(),
	}
	v.canvasSub = canvas.OnRender(func(_ *ekaki.Canvas, dirty image.Rectangle) {
		v.renderRect(dirty)
	})

	ekaki.Logger().Debug("view: created",
		"width", size.X, "height", size.Y, "renderer", r.Kind().String())
	return v
}

// Canvas returns the canvas shown by the view.
func (v *CanvasView) Canvas() *ekaki.Canvas { return v.canvas }

// Renderer returns the renderer drawing the view.
func (v *CanvasView) Renderer() render.Renderer { return v.renderer }

// Surface returns the image the view is drawn into.
func (v *CanvasView) Surface() *render.Surface { return v.renderer.Surface() }

// Parameter returns the current render parameter.
func (v *CanvasView) Parameter() render.Parameter { return v.param }

// Size returns the view size in pixels.
func (v *CanvasView) Size() image.Point { return v.renderer.Size() }

// SetSize resizes the view and redraws it immediately.
func (v *CanvasView) SetSize(size image.Point) {
	v.renderer.SetSize(size.X, size.Y)
	if v.autoAdjust {
		v.AdjustOffset()
	}
	// The resized surface starts blank; waiting for the delayed render
	// would show it.
	v.render()
}

// SetEditDisabled enables or disables input handling.
func (v *CanvasView) SetEditDisabled(disabled bool) { v.editDisabled = disabled }

// SetToolProvider replaces the tool provider. nil disables input handling.
func (v *CanvasView) SetToolProvider(p paint.Provider) { v.tools = p }

// Scale returns the zoom factor.
func (v *CanvasView) Scale() float64 { return v.param.Scale }

// SetScale sets the zoom factor and schedules a redraw.
func (v *CanvasView) SetScale(scale float64) {
	v.param.Scale = scale
	v.delayRender()
}

// Offset returns the canvas center in view space (origin at the view
// center, y up).
func (v *CanvasView) Offset() ekaki.Vec2 { return v.param.Offset }

// SetOffset sets the offset and schedules a redraw.
func (v *CanvasView) SetOffset(offset ekaki.Vec2) {
	v.param.Offset = offset
	v.delayRender()
}

// ScaleOption returns the sampling option.
func (v *CanvasView) ScaleOption() ekaki.ScaleOption { return v.param.ScaleOption }

// SetScaleOption sets the sampling option and schedules a redraw.
func (v *CanvasView) SetScaleOption(opt ekaki.ScaleOption) {
	v.param.ScaleOption = opt
	v.delayRender()
}

// AdjustOffset moves the canvas back so that at least a border of
// min(viewSide/10, 100) pixels of it stays inside the view.
func (v *CanvasView) AdjustOffset() {
	half := ekaki.SizeVec(v.canvas.Bounds()).Mul(v.param.Scale).Div(2)
	size := v.Size()
	viewHalf := ekaki.V2(float64(size.X), float64(size.Y)).Div(2)
	border := min(float64(min(size.X, size.Y))/10, 100)

	off := v.param.Offset
	next := off
	if off.X < 0 {
		if right := half.X + off.X; right < -viewHalf.X+border {
			next.X = -viewHalf.X + border - half.X
		}
	} else {
		if left := -half.X + off.X; left > viewHalf.X-border {
			next.X = viewHalf.X - border + half.X
		}
	}
	if off.Y < 0 {
		if top := half.Y + off.Y; top < -viewHalf.Y+border {
			next.Y = -viewHalf.Y + border - half.Y
		}
	} else {
		if bottom := -half.Y + off.Y; bottom > viewHalf.Y-border {
			next.Y = viewHalf.Y - border + half.Y
		}
	}
	v.SetOffset(next)
}

// toView maps a view-canvas point to view space.
func (v *CanvasView) toView(x, y float64) ekaki.Vec2 {
	viewHalf := ekaki.SizeVec(image.Rectangle{Max: v.Size()}).Div(2)
	return ekaki.CanvasToView(ekaki.V2(x, y), 1, ekaki.Vec2{}, viewHalf)
}

// toCanvas maps a view space point to canvas pixels.
func (v *CanvasView) toCanvas(p ekaki.Vec2) ekaki.Vec2 {
	return ekaki.ViewToCanvas(p, v.param.Scale, v.param.Offset, v.canvasHalf())
}

func (v *CanvasView) canvasHalf() ekaki.Vec2 {
	return ekaki.SizeVec(v.canvas.Bounds()).Div(2)
}

// CanvasPoint maps a view-canvas point to canvas pixels under the current
// scale and offset.
func (v *CanvasView) CanvasPoint(x, y float64) ekaki.Vec2 {
	return v.toCanvas(v.toView(x, y))
}

func (v *CanvasView) inputEnabled() bool {
	return !v.editDisabled && v.tools != nil
}

// PointerDown starts a stroke with the tool chosen for desc. Any open stroke
// or pinch is cancelled first. It reports whether a stroke was started.
func (v *CanvasView) PointerDown(desc string, x, y, pressure float64) bool {
	if !v.inputEnabled() {
		return false
	}
	tool := v.tools.Tool(desc)
	if tool == nil {
		return false
	}

	v.PinchCancel()
	// A lost PointerUp leaves the previous stroke open.
	v.PointerCancel()

	active, ok := v.canvas.ActiveLayer()
	if !ok {
		return false
	}

	p := v.CanvasPoint(x, y)
	v.stroke = paint.NewPaintingContext(active, v.canvas.DrawingLayer(), tool, v, v.undo)
	v.stroke.Start(p.X, p.Y, pressure)
	return true
}

// PointerMove continues the open stroke. It reports false when no stroke is
// open.
func (v *CanvasView) PointerMove(x, y, pressure float64) bool {
	if v.stroke == nil {
		return false
	}
	p := v.CanvasPoint(x, y)
	v.stroke.Update(p.X, p.Y, pressure)
	return true
}

// PointerUp finishes the open stroke. It reports false when no stroke is
// open.
func (v *CanvasView) PointerUp() bool {
	if v.stroke == nil {
		return false
	}
	v.stroke.End()
	v.stroke = nil
	return true
}

// PointerCancel abandons the open stroke, if any.
func (v *CanvasView) PointerCancel() {
	if v.stroke == nil {
		return
	}
	v.stroke.Cancel()
	v.stroke = nil
}

// Stroking reports whether a stroke is open.
func (v *CanvasView) Stroking() bool { return v.stroke != nil }

// Wheel zooms in (deltaY < 0) or out (deltaY > 0) by one step, keeping the
// canvas point under (x, y) in place.
func (v *CanvasView) Wheel(x, y, deltaY float64) {
	if !v.inputEnabled() || deltaY == 0 {
		return
	}

	vp := v.toView(x, y)
	cp := v.toCanvas(vp)

	if deltaY < 0 {
		v.SetScale(min(v.param.Scale+wheelStep, MaxScale))
	} else {
		v.SetScale(max(v.param.Scale-wheelStep, MinScale))
	}

	p := ekaki.CanvasToView(cp, v.param.Scale, ekaki.Vec2{}, v.canvasHalf())
	v.SetOffset(vp.Sub(p))
	v.AdjustOffset()
}

// PinchStart begins a two-finger zoom with fingers at a and b (view-canvas
// coordinates). An open stroke is cancelled. Sampling switches to nearest
// neighbor until the gesture ends.
func (v *CanvasView) PinchStart(a, b ekaki.Vec2) {
	if !v.inputEnabled() {
		return
	}
	v.PointerCancel()
	v.PinchCancel()

	center := v.toView(a.Mid(b).X, a.Mid(b).Y)
	v.pinch = &pinchState{
		option:       v.param.ScaleOption,
		scale:        v.param.Scale,
		centerCanvas: v.toCanvas(center),
		distance:     b.Sub(a).Length(),
	}
	v.SetScaleOption(ekaki.Nearest())
}

// PinchMove scales by the ratio of the finger distance to the starting
// distance and keeps the starting center under the current center.
func (v *CanvasView) PinchMove(a, b ekaki.Vec2) {
	if v.pinch == nil || v.pinch.distance == 0 {
		return
	}

	mid := a.Mid(b)
	center := v.toView(mid.X, mid.Y)
	ratio := b.Sub(a).Length() / v.pinch.distance
	v.SetScale(min(max(v.pinch.scale*ratio, MinScale), MaxScale))

	p := ekaki.CanvasToView(v.pinch.centerCanvas, v.param.Scale, ekaki.Vec2{}, v.canvasHalf())
	v.SetOffset(center.Sub(p))
	v.AdjustOffset()
}

// PinchEnd finishes the gesture and restores the sampling option.
func (v *CanvasView) PinchEnd() { v.PinchCancel() }

// PinchCancel abandons the gesture. The zoom reached so far is kept; the
// sampling option is restored.
func (v *CanvasView) PinchCancel() {
	if v.pinch == nil {
		return
	}
	opt := v.pinch.option
	v.pinch = nil
	v.SetScaleOption(opt)
}

// CanUndo reports whether Undo would do anything.
func (v *CanvasView) CanUndo() bool {
	return v.undo != nil && v.undo.CanUndo()
}

// Undo reverts the most recent stroke and redraws the affected area.
func (v *CanvasView) Undo() bool {
	if v.undo == nil {
		return false
	}
	res, ok := v.undo.Undo()
	if ok && !res.Rect.Empty() {
		v.canvas.RenderRect(false, res.Rect)
	}
	return ok
}

// CanRedo reports whether Redo would do anything.
func (v *CanvasView) CanRedo() bool {
	return v.undo != nil && v.undo.CanRedo()
}

// Redo reapplies the most recently undone stroke.
func (v *CanvasView) Redo() bool {
	if v.undo == nil {
		return false
	}
	res, ok := v.undo.Redo()
	if ok && !res.Rect.Empty() {
		v.canvas.RenderRect(false, res.Rect)
	}
	return ok
}

// Reset drops the undo history and redraws everything.
func (v *CanvasView) Reset() {
	if v.undo != nil {
		v.undo.Clear()
	}
	v.Invalidate(true)
}

// Invalidate redraws the whole view. With updateCanvas the canvas is
// composited again first.
func (v *CanvasView) Invalidate(updateCanvas bool) {
	if updateCanvas {
		v.canvas.Render(false)
	}
	v.incVersion()
	v.renderer.Invalidate(v.param, v.canvas.RenderedLayer())
	v.notify(image.Rectangle{Max: v.Size()})
}

// OnViewRender subscribes fn to redraw notifications.
func (v *CanvasView) OnViewRender(fn RenderFunc) Handle {
	v.nextID++
	v.subs = append(v.subs, viewSub{id: v.nextID, fn: fn})
	return v.nextID
}

// RemoveOnViewRender cancels a subscription. Unknown handles are ignored.
func (v *CanvasView) RemoveOnViewRender(h Handle) {
	v.subs = slices.DeleteFunc(v.subs, func(s viewSub) bool { return s.id == h })
}

// Flatten returns the composited canvas without any open stroke.
func (v *CanvasView) Flatten() *image.NRGBA {
	return v.canvas.Flatten()
}

// EncodePNG writes the flattened canvas to w as PNG.
func (v *CanvasView) EncodePNG(w io.Writer) error {
	if err := png.Encode(w, v.Flatten()); err != nil {
		return fmt.Errorf("view: encode png: %w", err)
	}
	return nil
}

// Thumbnail returns the flattened canvas scaled down so that its longer
// side is at most maxSide. Canvases that already fit, and non-positive
// maxSide, return the full-size image.
func (v *CanvasView) Thumbnail(maxSide int) *image.NRGBA {
	src := v.Flatten()
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	if maxSide <= 0 || (w <= maxSide && h <= maxSide) {
		return src
	}

	ratio := float64(maxSide) / float64(max(w, h))
	tw := max(int(float64(w)*ratio+0.5), 1)
	th := max(int(float64(h)*ratio+0.5), 1)

	dst := image.NewNRGBA(image.Rect(0, 0, tw, th))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// Close cancels any open stroke, unsubscribes from the canvas and releases
// the renderer.
func (v *CanvasView) Close() {
	v.PointerCancel()
	v.pinch = nil
	v.canvas.RemoveOnRender(v.canvasSub)
	v.renderer.Close()
}

func (v *CanvasView) incVersion() {
	v.version++
	if v.version > maxRenderVersion {
		v.version = 0
	}
}

// render redraws the whole layer.
func (v *CanvasView) render() {
	v.renderRect(v.canvas.Bounds())
}

// renderRect redraws the part of the view showing dirty (canvas pixels).
func (v *CanvasView) renderRect(dirty image.Rectangle) {
	v.incVersion()
	rect := v.renderer.RenderRect(v.param, v.canvas.RenderedLayer(), dirty)
	if rect.Empty() {
		return
	}
	v.notify(rect)
}

func (v *CanvasView) notify(rect image.Rectangle) {
	for _, s := range slices.Clone(v.subs) {
		s.fn(v, v.param, rect)
	}
}

// delayRender schedules a full redraw. It is dropped if any other redraw
// happens first.
func (v *CanvasView) delayRender() {
	version := v.version
	fn := func() {
		if version != v.version {
			return
		}
		v.render()
	}
	if v.renderer.Kind() == render.KindSoftware {
		v.sched.AfterFunc(softwareDelay, fn)
	} else {
		v.sched.NextFrame(fn)
	}
}
