// Package view presents a canvas through a renderer and turns normalized
// pointer, wheel and pinch input into strokes, panning and zooming.
//
// A CanvasView owns the render parameter (scale, offset, sampling) and
// redraws whenever the canvas composites or the parameter changes.
// Parameter changes are coalesced: several changes in a row produce one
// redraw, scheduled through a Scheduler.
//
// Basic usage:
//
//	canvas := ekaki.NewCanvas(640, 480)
//	bg := ekaki.NewRGBA8Layer(640, 480)
//	bg.Fill(ekaki.White)
//	canvas.PushLayer(bg)
//	canvas.SetActiveLayer(bg)
//
//	loop := view.NewLoop(0)
//	v := view.New(image.Pt(800, 600), canvas,
//	    view.WithScheduler(loop),
//	    view.WithUndo(undo.NewManager(64<<20, 100)),
//	    view.WithToolProvider(paint.NewToolBox(paint.NewPen())),
//	)
//	defer v.Close()
//	go loop.Run(ctx)
//
//	loop.Post(func() { v.PointerDown(paint.DescPrimary, 400, 300, 1) })
//
// CanvasView is not safe for concurrent use. With a Loop, every call into
// the view should go through Loop.Post.
package view
