package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound     = errors.New("profile not found")
	ErrInvalidLimit = errors.New("invalid leaderboard limit")
	ErrInvalidLogin = errors.New("invalid login")
)
