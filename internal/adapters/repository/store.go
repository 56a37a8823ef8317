// Package repository persists analyzed profiles and serves the rating
// leaderboard over them.
package repository

import (
	"context"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/types"
)

// Store provides read/write access to persisted profiles.
type Store interface {
	// UpsertProfile inserts or replaces the profile document keyed by login.
	UpsertProfile(ctx context.Context, s *model.ProfileSummary, fetchedAt time.Time) error

	// SaveInsight attaches a generated insight to an existing profile.
	// Returns ErrNotFound if the profile was never stored.
	SaveInsight(ctx context.Context, login, text string, at time.Time) error

	// Get returns the stored document for login.
	Get(ctx context.Context, login string) (Document, error)

	// Rank returns the leaderboard entry for login.
	// Returns ErrNotFound if the login is unknown.
	Rank(ctx context.Context, login string) (types.Entry, error)

	// TopN returns the top-N entries ordered by rating desc, login asc.
	TopN(ctx context.Context, n int) ([]types.Entry, error)

	// Count returns the number of stored profiles.
	Count(ctx context.Context) (int, error)

	// Close releases the store's resources.
	Close(ctx context.Context) error
}
