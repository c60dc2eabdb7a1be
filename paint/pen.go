package paint

import (
	"image"

	"github.com/gogpu/ekaki"
)

// Pen paints round dabs with AlphaBlend.
type Pen struct {
	Radius float64
	Color  ekaki.Color
}

// NewPen returns a black pen of radius 3.
func NewPen() *Pen {
	return &Pen{Radius: 3, Color: ekaki.Black}
}

// Name implements Tool.
func (p *Pen) Name() string { return "Pen" }

// Begin implements Tool.
func (p *Pen) Begin(ctx Context) ToolContext {
	return newStroke(ctx, p.Radius, p.Color, ekaki.AlphaBlend)
}

// Eraser removes alpha from the active layer along the stroke.
type Eraser struct {
	Radius float64
}

// NewEraser returns an eraser of radius 10.
func NewEraser() *Eraser {
	return &Eraser{Radius: 10}
}

// Name implements Tool.
func (e *Eraser) Name() string { return "Eraser" }

// Begin implements Tool.
func (e *Eraser) Begin(ctx Context) ToolContext {
	return newStroke(ctx, e.Radius, ekaki.Black, ekaki.Erase)
}

// stroke is the shared ToolContext of Pen and Eraser. Dabs go into the
// drawing layer; the bake mode decides what they do to the active layer.
type stroke struct {
	layer    ekaki.EditableLayer
	radius   float64
	color    ekaki.Color
	mode     ekaki.BlendMode
	prev     ekaki.Vec2
	leftover float64
}

func newStroke(ctx Context, radius float64, c ekaki.Color, mode ekaki.BlendMode) *stroke {
	return &stroke{
		layer:  ctx.View().Canvas().DrawingLayer(),
		radius: radius,
		color:  c,
		mode:   mode,
	}
}

func (s *stroke) Start(x, y, _ float64) Result {
	s.prev = ekaki.V2(x, y)
	// The start dab is already drawn; the first line dab lands one spacing
	// further.
	s.leftover = s.radius * 0.5
	return Result{Dirty: DrawPoint(s.layer, s.prev, s.radius, s.color)}
}

func (s *stroke) Update(x, y, _ float64) Result {
	p := ekaki.V2(x, y)
	var dirty image.Rectangle
	s.leftover, dirty = DrawLine(s.layer, s.prev, p, s.radius, s.color, s.leftover)
	s.prev = p
	return Result{Dirty: dirty}
}

func (s *stroke) End() Result { return Result{Finished: true} }

func (s *stroke) Cancel() {}

func (s *stroke) BakeMode() ekaki.BlendMode { return s.mode }
