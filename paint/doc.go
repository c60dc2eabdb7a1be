// Package paint implements the stroke state machine and the painting tools.
//
// A stroke is driven through a PaintingContext:
//
//	pc := paint.NewPaintingContext(active, canvas.DrawingLayer(), paint.NewPen(), view, undoManager)
//	pc.Start(x, y, pressure)
//	pc.Update(x, y, pressure)
//	pc.End()
//
// While the stroke is open the tool draws into the canvas's transient
// drawing layer, and the canvas is re-rendered with that layer overlaid. On
// End the drawing layer is baked onto the active layer with the tool's bake
// mode and a pre-edit snapshot is pushed to the undo log. Cancel discards the
// transient pixels and leaves the active layer untouched.
//
// Coordinates passed to the context are canvas pixels (top-left origin).
package paint
