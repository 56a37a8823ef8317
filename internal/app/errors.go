package service

import "errors"

var (
	// ErrInsightsUnavailable is returned when no narrative generator is configured.
	ErrInsightsUnavailable = errors.New("insights are not configured")
	// ErrNotStarted is returned by operations that need the persistence pipeline.
	ErrNotStarted = errors.New("service not started")
)
