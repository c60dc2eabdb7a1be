package ekaki

import (
	"image"
	"reflect"
	"slices"
)

// RenderFunc is called after the canvas composites its layers. dirty is the
// rectangle of the rendered layer that was recomputed.
type RenderFunc func(c *Canvas, dirty image.Rectangle)

// RenderHandle identifies a subscription made with OnRender.
type RenderHandle uint64

type renderSub struct {
	id RenderHandle
	fn RenderFunc
}

// Canvas owns an ordered stack of layers and the buffers used to composite
// them.
//
// The bottom layer is always copied with DirectTop; every other layer is
// composited with its own blend mode. While a stroke is in progress the
// drawing layer is shown above the active layer without modifying it.
//
// Canvas is not safe for concurrent use.
type Canvas struct {
	width  int
	height int

	layers []Layer
	active EditableLayer

	drawing  *RGBA8Layer // per-stroke scratch, baked into active on commit
	temp     *RGBA8Layer // active + drawing, composed during a stroke
	rendered *RGBA8Layer // composite of every layer

	subs   []renderSub
	nextID RenderHandle
}

// NewCanvas creates a canvas of the given size with no layers.
func NewCanvas(width, height int) *Canvas {
	return &Canvas{
		width:    width,
		height:   height,
		drawing:  NewRGBA8Layer(width, height),
		temp:     NewRGBA8Layer(width, height),
		rendered: NewRGBA8Layer(width, height),
	}
}

// Width returns the canvas width.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height.
func (c *Canvas) Height() int { return c.height }

// Bounds returns the canvas extent.
func (c *Canvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.width, c.height) }

// PushLayer appends layer on top of the stack.
func (c *Canvas) PushLayer(layer Layer) {
	c.layers = append(c.layers, layer)
}

// ClearLayers removes every layer from the stack. The active layer is
// cleared as well.
func (c *Canvas) ClearLayers() {
	c.layers = c.layers[:0]
	c.active = nil
}

// Layers returns the layer stack, bottom first. The slice must not be
// modified.
func (c *Canvas) Layers() []Layer { return c.layers }

// ActiveLayer returns the layer edits are baked into.
func (c *Canvas) ActiveLayer() (EditableLayer, bool) {
	return c.active, c.active != nil
}

// SetActiveLayer sets the layer edits are baked into.
func (c *Canvas) SetActiveLayer(layer EditableLayer) {
	c.active = layer
}

// DrawingLayer returns the transient per-stroke target.
func (c *Canvas) DrawingLayer() DrawingLayer { return c.drawing }

// RenderedLayer returns the composite of every layer as of the last render.
func (c *Canvas) RenderedLayer() *RGBA8Layer { return c.rendered }

// Render recomposes the whole canvas. See RenderRect.
func (c *Canvas) Render(withDrawing bool) {
	c.RenderRect(withDrawing, c.Bounds())
}

// RenderRect recomposes dirty into the rendered layer and notifies every
// subscriber. When withDrawing is true the drawing layer is shown over the
// active layer using the drawing layer's blend mode.
func (c *Canvas) RenderRect(withDrawing bool, dirty image.Rectangle) {
	dirty = dirty.Intersect(c.Bounds())

	if len(c.layers) == 0 {
		c.rendered.FillRect(Transparent, dirty)
	}
	for i, layer := range c.layers {
		mode := layer.BlendMode()
		if i == 0 {
			mode = DirectTop
		}

		if withDrawing && c.active != nil && isSameLayer(layer, c.active) {
			BakeRect(DirectTop, c.temp, layer, dirty)
			BakeRect(c.drawing.BlendMode(), c.temp, c.drawing, dirty)
			BakeRect(mode, c.rendered, c.temp, dirty)
			continue
		}
		BakeRect(mode, c.rendered, layer, dirty)
	}

	for _, s := range slices.Clone(c.subs) {
		s.fn(c, dirty)
	}
}

// OnRender subscribes fn to render notifications.
func (c *Canvas) OnRender(fn RenderFunc) RenderHandle {
	c.nextID++
	c.subs = append(c.subs, renderSub{id: c.nextID, fn: fn})
	return c.nextID
}

// RemoveOnRender cancels a subscription. Unknown handles are ignored.
func (c *Canvas) RemoveOnRender(h RenderHandle) {
	c.subs = slices.DeleteFunc(c.subs, func(s renderSub) bool { return s.id == h })
}

// Flatten renders the canvas without the drawing layer and returns a copy of
// the result: 4 bytes per pixel, row-major, top-left origin, straight alpha.
func (c *Canvas) Flatten() *image.NRGBA {
	c.Render(false)
	img := image.NewNRGBA(c.Bounds())
	copy(img.Pix, c.rendered.Pix())
	return img
}

// isSameLayer compares layer identity. Layers whose dynamic type is not
// comparable never match.
func isSameLayer(a Layer, b EditableLayer) bool {
	if !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == Layer(b)
}
