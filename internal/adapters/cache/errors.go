package cache

import "errors"

var (
	// ErrInvalidSummary is returned when asked to store a summary without a login.
	ErrInvalidSummary = errors.New("summary has no login")
	// ErrDecode is returned when a cached value cannot be decoded.
	ErrDecode = errors.New("cached summary is corrupt")
)
