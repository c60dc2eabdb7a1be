// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"

	"github.com/gogpu/ekaki"
)

// ErrGPUUnavailable is returned internally when no GPU backend can be
// created. New converts it into a software fallback.
var ErrGPUUnavailable = errors.New("render: GPU backend unavailable")

type options struct {
	background   ekaki.Color
	softwareOnly bool
	provider     DeviceHandle
}

func defaultOptions() options {
	return options{background: ekaki.Gray}
}

// Option configures New.
type Option func(*options)

// WithBackground sets the color shown where the layer does not cover the
// view. The default is Gray.
func WithBackground(c ekaki.Color) Option {
	return func(o *options) { o.background = c }
}

// WithSoftwareOnly skips the GPU backend.
func WithSoftwareOnly() Option {
	return func(o *options) { o.softwareOnly = true }
}

// WithDeviceProvider makes the GPU backend use a device owned by the host.
func WithDeviceProvider(p DeviceHandle) Option {
	return func(o *options) { o.provider = p }
}

// New creates a renderer for a width x height view.
//
// The GPU backend is tried first unless WithSoftwareOnly is given. If it
// cannot be created for any reason the failure is logged and a
// SoftwareRenderer is returned instead; New never fails.
func New(width, height int, opts ...Option) Renderer {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if !o.softwareOnly {
		r, err := newGPURenderer(width, height, &o)
		if err == nil {
			return r
		}
		ekaki.Logger().Warn("render: GPU renderer unavailable, using software", "err", err)
	}
	return NewSoftwareRenderer(width, height, o.background)
}
