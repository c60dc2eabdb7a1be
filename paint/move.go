package paint

import "github.com/gogpu/ekaki"

// Move pans the view instead of painting. Sampling is switched to nearest
// neighbor while dragging and restored afterwards.
type Move struct{}

// NewMove returns a move tool.
func NewMove() *Move { return &Move{} }

// Name implements Tool.
func (*Move) Name() string { return "Move" }

// Begin implements Tool.
func (*Move) Begin(ctx Context) ToolContext {
	v := ctx.View()
	m := &moveContext{view: v, scaleOption: v.ScaleOption()}
	v.SetScaleOption(ekaki.Nearest())
	return m
}

type moveContext struct {
	view        View
	scaleOption ekaki.ScaleOption

	startOffset     ekaki.Vec2
	startViewOffset ekaki.Vec2
}

// anchor maps a canvas point to its view position for the current scale and
// offset, relative to the canvas center. It is invariant under panning for a
// fixed pointer.
func (m *moveContext) anchor(x, y float64) ekaki.Vec2 {
	return ekaki.V2(x, -y).Mul(m.view.Scale()).Add(m.view.Offset())
}

func (m *moveContext) Start(x, y, _ float64) Result {
	m.startViewOffset = m.view.Offset()
	m.startOffset = m.anchor(x, y)
	return Result{}
}

func (m *moveContext) Update(x, y, _ float64) Result {
	diff := m.anchor(x, y).Sub(m.startOffset)
	m.view.SetOffset(m.startViewOffset.Add(diff))
	m.view.AdjustOffset()
	return Result{}
}

func (m *moveContext) End() Result {
	m.view.SetScaleOption(m.scaleOption)
	return Result{Finished: true}
}

func (m *moveContext) Cancel() {
	m.view.SetScaleOption(m.scaleOption)
}

func (m *moveContext) BakeMode() ekaki.BlendMode { return ekaki.AlphaBlend }
