package view

import (
	"github.com/gogpu/ekaki/paint"
	"github.com/gogpu/ekaki/render"
	"github.com/gogpu/ekaki/undo"
)

type options struct {
	undo          *undo.Manager
	tools         paint.Provider
	renderer      render.Renderer
	softwareOnly  bool
	scheduler     Scheduler
	editDisabled  bool
	noAutoAdjust  bool
	renderOptions []render.Option
}

// Option configures New.
type Option func(*options)

// WithUndo records every committed stroke in m.
func WithUndo(m *undo.Manager) Option {
	return func(o *options) { o.undo = m }
}

// WithToolProvider sets the source of tools for pointer input. Without a
// provider the view does not react to pointer, wheel or pinch input.
func WithToolProvider(p paint.Provider) Option {
	return func(o *options) { o.tools = p }
}

// WithRenderer uses r instead of creating one. The view takes ownership of
// r and closes it in Close.
func WithRenderer(r render.Renderer) Option {
	return func(o *options) { o.renderer = r }
}

// WithSoftwareOnly skips the GPU renderer.
func WithSoftwareOnly() Option {
	return func(o *options) { o.softwareOnly = true }
}

// WithRenderOptions passes extra options to render.New.
func WithRenderOptions(opts ...render.Option) Option {
	return func(o *options) { o.renderOptions = append(o.renderOptions, opts...) }
}

// WithScheduler sets the scheduler for delayed redraws. By default redraws
// run synchronously.
func WithScheduler(s Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithEditDisabled starts the view with input handling disabled.
func WithEditDisabled() Option {
	return func(o *options) { o.editDisabled = true }
}

// WithoutAutoAdjust keeps the offset unchanged when the view is resized.
func WithoutAutoAdjust() Option {
	return func(o *options) { o.noAutoAdjust = true }
}
