package paint

import (
	"image"

	"github.com/gogpu/ekaki"
)

// Result is returned by every ToolContext step.
type Result struct {
	// Finished ends the stroke. The accumulated dirty rect is committed.
	Finished bool

	// Dirty is the canvas rect touched by this step.
	Dirty image.Rectangle
}

// Tool creates per-stroke tool state.
type Tool interface {
	Name() string
	Begin(ctx Context) ToolContext
}

// ToolContext is the state of one tool for the duration of one stroke.
type ToolContext interface {
	Start(x, y, pressure float64) Result
	Update(x, y, pressure float64) Result
	End() Result
	Cancel()

	// BakeMode is the blend mode used to merge the drawing layer into the
	// active layer when the stroke finishes.
	BakeMode() ekaki.BlendMode
}

// Context is what a tool may see of the running stroke.
type Context interface {
	View() View
}

// View is the part of a canvas view that tools may read and drive.
type View interface {
	Canvas() *ekaki.Canvas
	Scale() float64
	Offset() ekaki.Vec2
	SetOffset(offset ekaki.Vec2)
	AdjustOffset()
	ScaleOption() ekaki.ScaleOption
	SetScaleOption(opt ekaki.ScaleOption)
}
