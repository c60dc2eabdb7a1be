package paint

import (
	"image"

	"github.com/gogpu/ekaki"
	"github.com/gogpu/ekaki/undo"
)

// PaintingContext runs one stroke of one tool.
//
// It is Active from construction until a tool step reports Finished or the
// stroke is cancelled; afterwards every call is a no-op.
type PaintingContext struct {
	active  ekaki.EditableLayer
	drawing ekaki.DrawingLayer
	canvas  *ekaki.Canvas
	view    View
	undo    *undo.Manager
	tool    ToolContext

	dirty    image.Rectangle
	history  pointHistory
	finished bool
}

// NewPaintingContext begins a stroke of tool that will be committed to
// active. undo may be nil.
func NewPaintingContext(active ekaki.EditableLayer, drawing ekaki.DrawingLayer, tool Tool, view View, undo *undo.Manager) *PaintingContext {
	pc := &PaintingContext{
		active:  active,
		drawing: drawing,
		canvas:  view.Canvas(),
		view:    view,
		undo:    undo,
	}
	pc.tool = tool.Begin(pc)
	drawing.SetBlendMode(pc.tool.BakeMode())
	return pc
}

// View returns the view the stroke is drawn in.
func (pc *PaintingContext) View() View { return pc.view }

// Finished reports whether the stroke was committed or cancelled.
func (pc *PaintingContext) Finished() bool { return pc.finished }

// Dirty returns the canvas rect touched so far.
func (pc *PaintingContext) Dirty() image.Rectangle { return pc.dirty }

// Start begins the stroke at (x, y).
func (pc *PaintingContext) Start(x, y, pressure float64) {
	if pc.finished {
		return
	}
	pc.history.seed(ekaki.V2(x, y))
	pc.apply(pc.tool.Start(x, y, pressure))
}

// Update moves the stroke to (x, y). The tool receives the mean of the
// recent points instead of the raw position.
func (pc *PaintingContext) Update(x, y, pressure float64) {
	if pc.finished {
		return
	}
	pc.history.push(ekaki.V2(x, y))
	p := pc.history.mean()
	pc.apply(pc.tool.Update(p.X, p.Y, pressure))
}

// End finishes the stroke.
func (pc *PaintingContext) End() {
	if pc.finished {
		return
	}
	pc.apply(pc.tool.End())
}

// Cancel abandons the stroke. Transient pixels are cleared and the active
// layer is left unchanged.
func (pc *PaintingContext) Cancel() {
	if pc.finished {
		return
	}
	pc.tool.Cancel()
	if !pc.dirty.Empty() {
		pc.drawing.FillRect(ekaki.Transparent, pc.dirty)
		pc.canvas.RenderRect(false, pc.dirty)
	}
	pc.finished = true
}

func (pc *PaintingContext) apply(res Result) {
	pc.dirty = pc.dirty.Union(res.Dirty)

	if !res.Finished {
		if !res.Dirty.Empty() {
			pc.canvas.RenderRect(true, res.Dirty)
		}
		return
	}

	if !pc.dirty.Empty() {
		// The snapshot must be taken before the bake touches the layer.
		if pc.undo != nil {
			pc.undo.Push(pc.active, pc.dirty)
		}
		ekaki.BakeRect(pc.drawing.BlendMode(), pc.active, pc.drawing, pc.dirty)
		pc.drawing.FillRect(ekaki.Transparent, pc.dirty)
		pc.canvas.RenderRect(false, pc.dirty)
	}
	pc.finished = true
}
