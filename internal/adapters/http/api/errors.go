package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/smarrtifai/github-optimizer/internal/adapters/githubapi"
	"github.com/smarrtifai/github-optimizer/internal/adapters/repository"
	service "github.com/smarrtifai/github-optimizer/internal/app"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest     = errors.New("bad request")
	ErrLimitExceeded  = errors.New("limit exceeded")
	ErrRequestTimeout = errors.New("request timed out")
)

// Error tags a failure with the handler operation that produced it.
// Kind, when set, is the sentinel the response status is chosen from.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(e.Kind.Error())
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	out := make([]error, 0, 2)
	if e.Kind != nil {
		out = append(out, e.Kind)
	}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

// Wrap tags err with op. A nil err stays nil.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}

// WrapKind tags err with op and a sentinel kind.
func WrapKind(op string, kind, err error) error {
	return &Error{Op: op, Kind: kind, Err: err}
}

// NewKind returns an error that only carries op and kind.
func NewKind(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// classify picks the response status and error code for err.
func classify(err error) (int, string) {
	var ne net.Error
	switch {
	case errors.Is(err, ErrBadRequest), errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, repository.ErrInvalidLogin):
		return http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrLimitExceeded):
		return http.StatusBadRequest, "limit_exceeded"
	case errors.Is(err, githubapi.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, githubapi.ErrRateLimited):
		return http.StatusTooManyRequests, "rate_limited"
	case errors.Is(err, service.ErrInsightsUnavailable):
		return http.StatusServiceUnavailable, "insights_unavailable"
	case errors.Is(err, ErrRequestTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "timeout"
	case errors.As(err, &ne) && ne.Timeout():
		return http.StatusGatewayTimeout, "timeout"
	}
	return http.StatusInternalServerError, "internal_error"
}
