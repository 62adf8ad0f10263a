// Sessionrank - Session-Based Next-Item Recommendation Core
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sessionrank

package tensor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidShape is returned when an input has the wrong rank or an
	// unusable dimension (for example ragged rows or a zero-width axis).
	ErrInvalidShape = errors.New("invalid shape")

	// ErrShapeMismatch is returned when two inputs that must share a shape do not.
	ErrShapeMismatch = errors.New("shape mismatch")
)

// invalidShape wraps ErrInvalidShape with context.
func invalidShape(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidShape, fmt.Sprintf(format, args...))
}

// InvalidShapef returns an ErrInvalidShape wrapped with a formatted message.
func InvalidShapef(format string, args ...interface{}) error {
	return invalidShape(format, args...)
}

// ShapeMismatchf returns an ErrShapeMismatch wrapped with a formatted message.
func ShapeMismatchf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrShapeMismatch, fmt.Sprintf(format, args...))
}
