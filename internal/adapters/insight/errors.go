package insight

import "errors"

var (
	// ErrNotConfigured is returned when no API key was provided.
	ErrNotConfigured = errors.New("insight generator is not configured")
	// ErrTooShort is returned when the model produced less than MinLength characters.
	ErrTooShort = errors.New("generated insight was too short or empty")
	// ErrGeneration wraps failures of the upstream model call.
	ErrGeneration = errors.New("insight generation failed")
)
