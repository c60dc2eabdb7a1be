package ekaki

import "errors"

var (
	// ErrInvalidSize is returned when a width or height is not positive.
	ErrInvalidSize = errors.New("ekaki: invalid size")

	// ErrNoActiveLayer is returned when an edit needs an active layer and
	// the canvas has none.
	ErrNoActiveLayer = errors.New("ekaki: no active layer")

	// ErrSizeMismatch is returned when a pixel buffer does not match the
	// dimensions it is supposed to describe.
	ErrSizeMismatch = errors.New("ekaki: buffer size mismatch")
)
