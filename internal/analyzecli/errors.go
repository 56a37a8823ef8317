package analyzecli

import "errors"

var (
	ErrMissingUser    = errors.New("missing -user")
	ErrInvalidTimeout = errors.New("-timeout must be positive")
)
