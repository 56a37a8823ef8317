package githubapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v68/github"
)

// Sentinel kinds for upstream failures.
var (
	ErrNotFound    = errors.New("github: not found")
	ErrRateLimited = errors.New("github: rate limited")
	ErrUpstream    = errors.New("github: upstream error")
	ErrMalformed   = errors.New("github: malformed record")
)

// translate maps go-github errors onto the package sentinels so callers can
// branch with errors.Is without importing go-github. go-github reports a 403
// with an exhausted quota or a secondary limit as its own rate limit errors;
// any other 403 is an upstream error.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var rle *github.RateLimitError
	var abuse *github.AbuseRateLimitError
	var er *github.ErrorResponse
	switch {
	case errors.As(err, &rle), errors.As(err, &abuse):
		return fmt.Errorf("%s: %w: %w", op, ErrRateLimited, err)
	case errors.As(err, &er) && er.Response != nil:
		switch er.Response.StatusCode {
		case http.StatusNotFound:
			return fmt.Errorf("%s: %w: %w", op, ErrNotFound, err)
		case http.StatusTooManyRequests:
			return fmt.Errorf("%s: %w: %w", op, ErrRateLimited, err)
		}
		return fmt.Errorf("%s: %w: %w", op, ErrUpstream, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// outcomeLabel classifies an error for the upstream request metric.
func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ErrUpstream):
		return "upstream_error"
	}
	return "error"
}
