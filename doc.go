// Package ekaki provides a layered raster painting engine for Go.
//
// # Overview
//
// ekaki keeps a stack of RGBA8 layers on a Canvas, composites them with
// straight-alpha blend operators, and exposes the result as a single rendered
// layer. Renderers in the render/ package display that layer at any scale and
// offset, and the paint/ package turns pointer strokes into edits that are
// recorded by the bounded undo log in undo/.
//
// # Quick Start
//
//	import "github.com/gogpu/ekaki"
//
//	c := ekaki.NewCanvas(640, 480)
//
//	bg := ekaki.NewRGBA8Layer(640, 480)
//	bg.Fill(ekaki.White)
//	ink := ekaki.NewRGBA8Layer(640, 480)
//
//	c.PushLayer(bg)
//	c.PushLayer(ink)
//	c.SetActiveLayer(ink)
//
//	c.Render(false)
//	img := c.Flatten()
//
// # Coordinate Spaces
//
// Three spaces are used throughout:
//   - Canvas: origin top-left, y down, pixel units
//   - View: origin at the view center, y up
//   - Viewport: normalized [-1, 1], used by the GPU renderer
//
// See [CanvasToView] and [ViewToCanvas].
//
// # Architecture
//
// The library is organized into:
//   - Public API: Color, Layer, Canvas, Bake, TransformLayer, coordinates
//   - Internal: blend (raw pixel operators), config (demo configuration)
//   - Sub-packages: render (software and GPU), paint (tools), undo, view
//
// # Logging
//
// ekaki is silent by default. Use [SetLogger] to route diagnostics to any
// [log/slog] handler.
package ekaki
