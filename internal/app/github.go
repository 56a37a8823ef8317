package service

import (
	"context"

	"github.com/smarrtifai/github-optimizer/internal/adapters/githubapi"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// GitHub is the upstream surface the service reads from.
type GitHub interface {
	User(ctx context.Context, login string) (model.Profile, error)
	Repositories(ctx context.Context, login string) ([]model.RemoteRepository, error)
	CountPullRequests(ctx context.Context, login string) (int, error)
	CountIssues(ctx context.Context, login string) (int, error)
	Languages(ctx context.Context, owner, repo string) (map[string]int, error)
	Feed(login string, opts githubapi.FeedOptions) *githubapi.Feed
	Authenticated() bool
}

var _ GitHub = (*githubapi.Client)(nil)
