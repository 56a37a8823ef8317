// Package cache keeps recently computed profile summaries so repeated
// dashboard loads within a short window do not walk the GitHub API again.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// SummaryCache stores summaries per (login, range token).
type SummaryCache interface {
	// Get returns the cached summary; found is false on a miss.
	Get(ctx context.Context, login, token string) (summary *model.ProfileSummary, found bool, err error)
	Set(ctx context.Context, s *model.ProfileSummary) error
	Enabled() bool
	Close() error
}

// Key is the cache key for a login and range token. Logins are
// case-insensitive on GitHub, so they are folded.
func Key(login, token string) string {
	return fmt.Sprintf("profile:%s:%s", strings.ToLower(strings.TrimSpace(login)), token)
}

// Noop never stores anything.
type Noop struct{}

var _ SummaryCache = Noop{}

func (Noop) Get(context.Context, string, string) (*model.ProfileSummary, bool, error) {
	return nil, false, nil
}

func (Noop) Set(context.Context, *model.ProfileSummary) error {
	return nil
}

func (Noop) Enabled() bool {
	return false
}

func (Noop) Close() error {
	return nil
}
