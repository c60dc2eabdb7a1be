// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

//go:build nogpu

package render

func newGPURenderer(int, int, *options) (Renderer, error) {
	return nil, ErrGPUUnavailable
}
