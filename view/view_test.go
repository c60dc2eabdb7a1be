package view

import (
	"bytes"
	"image"
	"image/png"
	"math"
	"testing"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/ekaki/paint"
	"github.com/gogpu/ekaki/render"
	"github.com/gogpu/ekaki/undo"
)

type scene struct {
	view   *CanvasView
	canvas *ekaki.Canvas
	top    *ekaki.RGBA8Layer
	sched  *Manual
	undo   *undo.Manager
	events []image.Rectangle
}

// newScene shows a 100x80 canvas (white bottom, transparent active top) in a
// 200x160 software view.
func newScene(t *testing.T, opts ...Option) *scene {
	t.Helper()
	c := ekaki.NewCanvas(100, 80)
	bottom := ekaki.NewRGBA8Layer(100, 80)
	bottom.Fill(ekaki.White)
	top := ekaki.NewRGBA8Layer(100, 80)
	c.PushLayer(bottom)
	c.PushLayer(top)
	c.SetActiveLayer(top)

	s := &scene{canvas: c, top: top, sched: &Manual{}, undo: undo.NewManager(1<<20, 16)}
	opts = append([]Option{
		WithRenderer(render.NewSoftwareRenderer(200, 160, Background)),
		WithScheduler(s.sched),
		WithUndo(s.undo),
		WithToolProvider(paint.NewToolBox(paint.NewPen())),
	}, opts...)
	s.view = New(image.Pt(200, 160), c, opts...)
	s.view.OnViewRender(func(_ *CanvasView, _ render.Parameter, r image.Rectangle) {
		s.events = append(s.events, r)
	})
	t.Cleanup(s.view.Close)
	return s
}

func near(a, b ekaki.Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestCanvasPoint(t *testing.T) {
	s := newScene(t)

	tests := []struct {
		name   string
		scale  float64
		offset ekaki.Vec2
		x, y   float64
		want   ekaki.Vec2
	}{
		{"center", 1, ekaki.Vec2{}, 100, 80, ekaki.V2(50, 40)},
		{"top left", 1, ekaki.Vec2{}, 50, 40, ekaki.V2(0, 0)},
		{"zoomed", 2, ekaki.Vec2{}, 120, 90, ekaki.V2(60, 45)},
		{"panned up", 1, ekaki.V2(10, 20), 110, 60, ekaki.V2(50, 40)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.view.param.Scale = tt.scale
			s.view.param.Offset = tt.offset
			if got := s.view.CanvasPoint(tt.x, tt.y); !near(got, tt.want) {
				t.Errorf("CanvasPoint(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestPointerStroke(t *testing.T) {
	s := newScene(t)

	if !s.view.PointerDown(paint.DescPrimary, 100, 80, 1) {
		t.Fatal("PointerDown() = false")
	}
	if !s.view.Stroking() {
		t.Error("Stroking() = false during a stroke")
	}
	s.view.PointerMove(120, 80, 1)
	if !s.view.PointerUp() {
		t.Fatal("PointerUp() = false")
	}

	if got := s.top.ColorAt(55, 40); got.A == 0 {
		t.Errorf("active ColorAt(55,40) = %v, want ink", got)
	}
	if len(s.events) == 0 {
		t.Error("no view render events during the stroke")
	}
	if c := s.view.Surface().Layer().ColorAt(105, 80); c == ekaki.White {
		t.Error("view surface does not show the stroke")
	}
	if s.view.PointerUp() {
		t.Error("PointerUp() without a stroke = true")
	}

	if !s.view.CanUndo() {
		t.Fatal("CanUndo() = false after a stroke")
	}
	if !s.view.Undo() {
		t.Fatal("Undo() = false")
	}
	if got := s.top.ColorAt(55, 40); got != ekaki.Transparent {
		t.Errorf("after Undo ColorAt(55,40) = %v, want Transparent", got)
	}
	if got := s.canvas.RenderedLayer().ColorAt(55, 40); got != ekaki.White {
		t.Errorf("after Undo rendered = %v, want White", got)
	}
	if !s.view.CanRedo() || !s.view.Redo() {
		t.Fatal("Redo() failed")
	}
	if got := s.top.ColorAt(55, 40); got.A == 0 {
		t.Errorf("after Redo ColorAt(55,40) = %v, want ink", got)
	}
}

func TestPointerDownCancelsOpenStroke(t *testing.T) {
	s := newScene(t)

	s.view.PointerDown(paint.DescPrimary, 60, 60, 1)
	s.view.PointerMove(80, 60, 1)
	// The matching PointerUp never arrives.
	s.view.PointerDown(paint.DescPrimary, 140, 100, 1)
	s.view.PointerUp()

	if got := s.top.ColorAt(15, 20); got != ekaki.Transparent {
		t.Errorf("first stroke committed: ColorAt(15,20) = %v", got)
	}
	if got := s.undo.Len(); got != 1 {
		t.Errorf("undo Len = %d, want 1", got)
	}
}

func TestPointerIgnored(t *testing.T) {
	tests := []struct {
		name  string
		opts  []Option
		setup func(s *scene)
	}{
		{"edit disabled", []Option{WithEditDisabled()}, nil},
		{"no provider", nil, func(s *scene) { s.view.SetToolProvider(nil) }},
		{"no active layer", nil, func(s *scene) { s.canvas.SetActiveLayer(nil) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t, tt.opts...)
			if tt.setup != nil {
				tt.setup(s)
			}
			if s.view.PointerDown(paint.DescPrimary, 100, 80, 1) {
				t.Error("PointerDown() = true")
			}
			if s.view.PointerMove(110, 80, 1) {
				t.Error("PointerMove() = true")
			}
		})
	}
}

func TestPointerCancel(t *testing.T) {
	s := newScene(t)
	s.view.PointerDown(paint.DescPrimary, 100, 80, 1)
	s.view.PointerMove(120, 90, 1)
	s.view.PointerCancel()

	if s.view.Stroking() {
		t.Error("Stroking() = true after cancel")
	}
	if got := s.top.ColorAt(50, 40); got != ekaki.Transparent {
		t.Errorf("active ColorAt(50,40) = %v, want Transparent", got)
	}
	if got := s.canvas.RenderedLayer().ColorAt(50, 40); got != ekaki.White {
		t.Errorf("rendered ColorAt(50,40) = %v, want White", got)
	}
	if s.view.CanUndo() {
		t.Error("CanUndo() = true after a cancelled stroke")
	}
}

func TestMiddleButtonPans(t *testing.T) {
	s := newScene(t)

	s.view.PointerDown(paint.DescMiddle, 100, 80, 1)
	s.view.PointerMove(110, 70, 1)
	s.view.PointerMove(120, 60, 1)
	s.view.PointerUp()

	if off := s.view.Offset(); off.X <= 0 || off.Y <= 0 {
		t.Errorf("Offset() = %v, want right and up", off)
	}
	if got := s.view.ScaleOption(); got != ekaki.OverSample(2) {
		t.Errorf("ScaleOption() = %v, want restored", got)
	}
	if s.view.CanUndo() {
		t.Error("panning recorded an undo entry")
	}
}

func TestWheelZoomAnchor(t *testing.T) {
	s := newScene(t)
	before := s.view.CanvasPoint(150, 100)

	s.view.Wheel(150, 100, -1)

	if got := s.view.Scale(); math.Abs(got-1.2) > 1e-9 {
		t.Errorf("Scale() = %v, want 1.2", got)
	}
	if after := s.view.CanvasPoint(150, 100); !near(after, before) {
		t.Errorf("point under cursor moved from %v to %v", before, after)
	}
	if want := ekaki.V2(-10, 4); !near(s.view.Offset(), want) {
		t.Errorf("Offset() = %v, want %v", s.view.Offset(), want)
	}
}

func TestWheelClamp(t *testing.T) {
	tests := []struct {
		name   string
		start  float64
		deltaY float64
		want   float64
	}{
		{"max", MaxScale, -1, MaxScale},
		{"min", 0.3, 1, MinScale},
		{"zero delta", 1, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t)
			s.view.SetScale(tt.start)
			s.view.Wheel(100, 80, tt.deltaY)
			if got := s.view.Scale(); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Scale() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAdjustOffset(t *testing.T) {
	// Canvas half size is (50, 40) and the border is 16.
	tests := []struct {
		name   string
		offset ekaki.Vec2
		want   ekaki.Vec2
	}{
		{"inside", ekaki.V2(20, -20), ekaki.V2(20, -20)},
		{"far left", ekaki.V2(-1000, 0), ekaki.V2(-134, 0)},
		{"far right", ekaki.V2(1000, 0), ekaki.V2(134, 0)},
		{"far down", ekaki.V2(0, -1000), ekaki.V2(0, -104)},
		{"far up", ekaki.V2(0, 1000), ekaki.V2(0, 104)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newScene(t)
			s.view.SetOffset(tt.offset)
			s.view.AdjustOffset()
			if got := s.view.Offset(); !near(got, tt.want) {
				t.Errorf("Offset() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPinch(t *testing.T) {
	s := newScene(t)

	s.view.PinchStart(ekaki.V2(90, 80), ekaki.V2(110, 80))
	if got := s.view.ScaleOption(); got != ekaki.Nearest() {
		t.Errorf("ScaleOption() during pinch = %v, want nearest", got)
	}

	s.view.PinchMove(ekaki.V2(80, 80), ekaki.V2(120, 80))
	if got := s.view.Scale(); math.Abs(got-2) > 1e-9 {
		t.Errorf("Scale() = %v, want 2", got)
	}
	if got := s.view.Offset(); !near(got, ekaki.Vec2{}) {
		t.Errorf("Offset() = %v, want (0,0)", got)
	}

	// Moving both fingers pans.
	s.view.PinchMove(ekaki.V2(90, 70), ekaki.V2(130, 70))
	if got := s.view.Offset(); !near(got, ekaki.V2(10, 10)) {
		t.Errorf("Offset() = %v, want (10,10)", got)
	}

	s.view.PinchEnd()
	if got := s.view.ScaleOption(); got != ekaki.OverSample(2) {
		t.Errorf("ScaleOption() after pinch = %v, want restored", got)
	}
}

func TestPinchCancelsStroke(t *testing.T) {
	s := newScene(t)
	s.view.PointerDown(paint.DescPrimary, 100, 80, 1)
	s.view.PinchStart(ekaki.V2(90, 80), ekaki.V2(110, 80))

	if s.view.Stroking() {
		t.Error("Stroking() = true after PinchStart")
	}
	if got := s.canvas.DrawingLayer().ColorAt(50, 40); got != ekaki.Transparent {
		t.Errorf("drawing ColorAt(50,40) = %v, want Transparent", got)
	}

	s.view.PointerDown(paint.DescPrimary, 100, 80, 1)
	if s.view.pinch != nil {
		t.Error("PointerDown did not cancel the pinch")
	}
}

func TestRenderCoalescing(t *testing.T) {
	s := newScene(t)
	s.events = nil

	s.view.SetScale(2)
	s.view.SetOffset(ekaki.V2(5, 5))
	if got := s.sched.Pending(); got != 2 {
		t.Fatalf("Pending() = %d, want 2", got)
	}
	if len(s.events) != 0 {
		t.Fatalf("rendered before the scheduler ran: %v", s.events)
	}

	s.sched.Flush()
	if len(s.events) != 1 {
		t.Errorf("render events = %d, want 1", len(s.events))
	}
}

func TestRenderDroppedAfterCanvasRender(t *testing.T) {
	s := newScene(t)
	s.view.SetScale(2)
	s.canvas.Render(false)
	n := len(s.events)

	s.sched.Flush()
	if len(s.events) != n {
		t.Errorf("delayed render ran after a newer one: %d events, want %d", len(s.events), n)
	}
}

func TestRenderVersionWraps(t *testing.T) {
	s := newScene(t)
	s.view.version = maxRenderVersion
	s.view.incVersion()
	if s.view.version != 0 {
		t.Errorf("version = %d, want 0", s.view.version)
	}
}

func TestRemoveOnViewRender(t *testing.T) {
	s := newScene(t)
	calls := 0
	h := s.view.OnViewRender(func(*CanvasView, render.Parameter, image.Rectangle) { calls++ })

	s.canvas.Render(false)
	s.view.RemoveOnViewRender(h)
	s.canvas.Render(false)

	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestInvalidateAndReset(t *testing.T) {
	s := newScene(t)
	s.view.PointerDown(paint.DescPrimary, 100, 80, 1)
	s.view.PointerUp()
	s.view.Surface().TakeDamage()
	s.events = nil

	s.view.Reset()
	if s.view.CanUndo() {
		t.Error("CanUndo() = true after Reset")
	}
	if d := s.view.Surface().Damage(); d != image.Rect(0, 0, 200, 160) {
		t.Errorf("Damage() = %v, want full view", d)
	}
	if len(s.events) == 0 {
		t.Error("Reset did not notify")
	}
}

func TestSetSize(t *testing.T) {
	s := newScene(t)
	s.view.SetOffset(ekaki.V2(1000, 0))
	s.events = nil

	s.view.SetSize(image.Pt(100, 100))
	if got := s.view.Size(); got != image.Pt(100, 100) {
		t.Errorf("Size() = %v, want (100,100)", got)
	}
	// border 10: 50 - 10 + 50
	if got := s.view.Offset(); !near(got, ekaki.V2(90, 0)) {
		t.Errorf("Offset() = %v, want (90,0)", got)
	}
	if len(s.events) == 0 {
		t.Error("SetSize did not redraw")
	}
}

func TestSetSizeWithoutAutoAdjust(t *testing.T) {
	s := newScene(t, WithoutAutoAdjust())
	s.view.SetOffset(ekaki.V2(1000, 0))
	s.view.SetSize(image.Pt(100, 100))
	if got := s.view.Offset(); !near(got, ekaki.V2(1000, 0)) {
		t.Errorf("Offset() = %v, want unchanged", got)
	}
}

func TestExport(t *testing.T) {
	s := newScene(t)
	s.top.FillRect(ekaki.Red, image.Rect(0, 0, 10, 10))

	flat := s.view.Flatten()
	if got := ekaki.ColorFromNRGBA(flat.NRGBAAt(5, 5)); got != ekaki.Red {
		t.Errorf("Flatten()(5,5) = %v, want Red", got)
	}

	var buf bytes.Buffer
	if err := s.view.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if img.Bounds() != image.Rect(0, 0, 100, 80) {
		t.Errorf("decoded bounds = %v", img.Bounds())
	}

	tests := []struct {
		max  int
		want image.Rectangle
	}{
		{50, image.Rect(0, 0, 50, 40)},
		{0, image.Rect(0, 0, 100, 80)},
		{500, image.Rect(0, 0, 100, 80)},
	}
	for _, tt := range tests {
		if got := s.view.Thumbnail(tt.max).Bounds(); got != tt.want {
			t.Errorf("Thumbnail(%d) bounds = %v, want %v", tt.max, got, tt.want)
		}
	}
}

func TestCloseUnsubscribes(t *testing.T) {
	s := newScene(t)
	s.view.Close()
	s.events = nil

	s.canvas.Render(false)
	if len(s.events) != 0 {
		t.Errorf("render events after Close = %d, want 0", len(s.events))
	}
}

func TestNewDefaultRenderer(t *testing.T) {
	c := ekaki.NewCanvas(10, 10)
	v := New(image.Pt(20, 20), c, WithSoftwareOnly())
	defer v.Close()

	if v.Renderer().Kind() != render.KindSoftware {
		t.Errorf("Kind() = %v, want software", v.Renderer().Kind())
	}
	if v.Renderer().Background() != Background {
		t.Errorf("Background() = %v, want %v", v.Renderer().Background(), Background)
	}

	// Without a scheduler, parameter changes are drawn at once.
	calls := 0
	v.OnViewRender(func(*CanvasView, render.Parameter, image.Rectangle) { calls++ })
	v.SetScale(2)
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}
