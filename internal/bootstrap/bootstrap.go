// Package bootstrap builds the analyzer service and its collaborators from
// configuration. Optional collaborators that fail to come up are logged and
// left out; the service then runs without them.
package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"github.com/smarrtifai/github-optimizer/internal/adapters/cache"
	"github.com/smarrtifai/github-optimizer/internal/adapters/githubapi"
	"github.com/smarrtifai/github-optimizer/internal/adapters/insight"
	"github.com/smarrtifai/github-optimizer/internal/adapters/repository"
	service "github.com/smarrtifai/github-optimizer/internal/app"
	"github.com/smarrtifai/github-optimizer/internal/config"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// GitHub creates the upstream client.
func GitHub(cfg *config.Config, l logger.Logger) (*githubapi.Client, error) {
	return githubapi.New(
		githubapi.WithToken(cfg.GitHubToken),
		githubapi.WithBaseURL(cfg.GitHubBaseURL),
		githubapi.WithTimeout(cfg.GitHubTimeout),
		githubapi.WithPageSize(cfg.PageSize),
		githubapi.WithRepoMaxPages(cfg.RepoMaxPages),
		githubapi.WithLogger(l.Named("github")),
	)
}

// Store returns the MongoDB store when a URI is configured and reachable,
// the in-memory store otherwise.
func Store(ctx context.Context, cfg *config.Config, l logger.Logger) repository.Store {
	if cfg.MongoURI == "" {
		l.Info(ctx, "mongo_uri not set; profiles are kept in memory")
		return repository.NewMemStore()
	}
	st, err := repository.NewMongoStore(ctx, cfg.MongoURI,
		repository.WithDatabase(cfg.MongoDatabase),
		repository.WithCollection(cfg.MongoCollection),
		repository.WithLogger(l.Named("mongo")),
	)
	if err != nil {
		l.Warn(ctx, "mongodb unavailable; profiles are kept in memory", logger.Error(err))
		return repository.NewMemStore()
	}
	return st
}

// Cache returns the Redis summary cache when an address is configured and
// reachable, a no-op cache otherwise.
func Cache(ctx context.Context, cfg *config.Config, l logger.Logger) cache.SummaryCache {
	if cfg.RedisAddr == "" {
		return cache.Noop{}
	}
	c, err := cache.NewRedisCache(ctx, cfg.RedisAddr,
		cache.WithPassword(cfg.RedisPassword),
		cache.WithDB(cfg.RedisDB),
		cache.WithTTL(cfg.CacheTTL),
		cache.WithLogger(l.Named("cache")),
	)
	if err != nil {
		l.Warn(ctx, "redis unavailable; summary cache disabled", logger.Error(err))
		return cache.Noop{}
	}
	return c
}

// Generator returns the Gemini generator, or nil when no key is configured
// or the client cannot be created.
func Generator(ctx context.Context, cfg *config.Config, l logger.Logger) insight.Generator {
	g, err := insight.NewGemini(ctx, cfg.GeminiAPIKey,
		insight.WithModel(cfg.GeminiModel),
		insight.WithTimeout(cfg.GeminiTimeout),
		insight.WithLogger(l.Named("insight")),
	)
	switch {
	case errors.Is(err, insight.ErrNotConfigured):
		l.Info(ctx, "gemini_api_key not set; insights disabled")
		return nil
	case err != nil:
		l.Warn(ctx, "gemini unavailable; insights disabled", logger.Error(err))
		return nil
	}
	return g
}

// Build wires every collaborator into a service. The service is not started.
func Build(ctx context.Context, cfg *config.Config, l logger.Logger) (*service.Service, error) {
	if l == nil {
		l = logger.Get()
	}
	gh, err := GitHub(cfg, l)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	opts := []service.Option{
		service.WithLogger(l.Named("service")),
		service.WithWorkerCount(cfg.WorkerCount),
		service.WithQueueSize(cfg.QueueSize),
		service.WithRecentWrites(cfg.RecentWrites),
		service.WithStore(Store(ctx, cfg, l)),
		service.WithCache(Cache(ctx, cfg, l)),
		service.WithAggregatorOptions(
			service.WithConcurrency(cfg.AggregateConcurrency),
			service.WithTopLanguages(cfg.TopLanguages),
		),
	}
	if g := Generator(ctx, cfg, l); g != nil {
		opts = append(opts, service.WithGenerator(g))
	}
	return service.New(gh, opts...), nil
}
