// Package common defines shared constants and sentinel errors used across
// the client and server layers of Story Atlas. Callers should use errors.Is
// to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// Validation errors (missing required field, out-of-range coordinates).
	ErrValidation = errors.New("validation error")

	// Service-level errors (generic/internal flow control).
	ErrInternal = errors.New("internal error")

	// Geocoding errors.
	ErrEmptyQuery = errors.New("empty query")
	ErrNoMatch    = errors.New("no match found")
)
