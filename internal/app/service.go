// Package service wires the GitHub client, the aggregation engine and the
// collaborators (cache, store, insight generator) behind the operations the
// HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smarrtifai/github-optimizer/internal/adapters/cache"
	"github.com/smarrtifai/github-optimizer/internal/adapters/insight"
	"github.com/smarrtifai/github-optimizer/internal/adapters/mq/queue"
	"github.com/smarrtifai/github-optimizer/internal/adapters/mq/worker"
	"github.com/smarrtifai/github-optimizer/internal/adapters/repository"
	"github.com/smarrtifai/github-optimizer/internal/domain/activity"
	"github.com/smarrtifai/github-optimizer/internal/domain/dedupe"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/types"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

const (
	defaultWorkerCount         = 4
	defaultQueueSize           = 1024
	defaultRecentWrites        = 4096
	defaultLanguageConcurrency = 8
	defaultShutdownTimeout     = 10 * time.Second
)

// Service implements the dependencies of the HTTP API.
type Service struct {
	mu sync.RWMutex

	gh        GitHub
	agg       *Aggregator
	aggOpts   []AggregatorOption
	store     repository.Store
	cache     cache.SummaryCache
	generator insight.Generator
	queue     *queue.InMemoryQueue
	pool      *worker.Pool
	recent    dedupe.Deduper

	workerCount         int
	queueSize           int
	recentWrites        int
	languageConcurrency int
	shutdownTimeout     time.Duration

	started bool
	logger  logger.Logger
}

// New constructs a Service reading from gh.
func New(gh GitHub, opts ...Option) *Service {
	s := &Service{
		gh:                  gh,
		store:               repository.NewMemStore(),
		cache:               cache.Noop{},
		workerCount:         defaultWorkerCount,
		queueSize:           defaultQueueSize,
		recentWrites:        defaultRecentWrites,
		languageConcurrency: defaultLanguageConcurrency,
		shutdownTimeout:     defaultShutdownTimeout,
		logger:              logger.Get().Named("service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.recent = dedupe.NewWindow(dedupe.WithMaxSize(s.recentWrites))
	s.agg = NewAggregator(gh, append([]AggregatorOption{WithAggregatorLogger(s.logger.Named("aggregator"))}, s.aggOpts...)...)
	return s
}

// Start launches the persistence workers. Calling it twice is a no-op.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return nil
	}

	s.queue = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.queue, s.store, worker.WithLogger(s.logger.Named("worker")))
	// Workers outlive the request that started them; Stop drains them.
	s.pool.Start(context.WithoutCancel(ctx))
	s.started = true

	if n, err := s.store.Count(ctx); err == nil {
		metrics.UpdateProfilesStored(n)
	}
	s.logger.Info(ctx, "analyzer service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Bool("cache", s.cache.Enabled()),
		logger.Bool("insights", s.generator != nil),
	)
	return nil
}

// Stop drains queued writes and closes the store and cache.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping analyzer service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "persistence workers did not drain", logger.Error(err))
	}
	if err := s.store.Close(ctx); err != nil {
		s.logger.Warn(ctx, "closing store", logger.Error(err))
	}
	if err := s.cache.Close(); err != nil {
		s.logger.Warn(ctx, "closing cache", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "analyzer service stopped")
}

// Range resolves a range token against the service clock.
func (s *Service) Range(token string) model.TimeRange {
	return activity.RangeFor(token, s.agg.Now())
}

// Profile returns the summary of login for the range token, from cache when
// possible. Fresh summaries are cached and queued for persistence.
func (s *Service) Profile(ctx context.Context, login, token string) (*model.ProfileSummary, error) {
	r := s.Range(token)

	if sum, found, err := s.cache.Get(ctx, login, r.Token); err != nil {
		s.logger.Warn(ctx, "cache read failed", logger.String("login", login), logger.Error(err))
	} else if found && sum.Range.End.Equal(r.End) {
		return sum, nil
	}

	sum, err := s.agg.Summarize(ctx, login, r)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, sum); err != nil {
		s.logger.Warn(ctx, "cache write failed", logger.String("login", login), logger.Error(err))
	}
	s.persistSummary(ctx, sum)
	return sum, nil
}

// Activity returns the three daily series of login for the range token,
// plus the names of degraded inputs.
func (s *Service) Activity(ctx context.Context, login, token string) (model.Activity, []string, error) {
	return s.agg.Activity(ctx, login, s.Range(token))
}

// Repositories lists every public repository of login.
func (s *Service) Repositories(ctx context.Context, login string) ([]model.RemoteRepository, error) {
	return s.gh.Repositories(ctx, login)
}

// Languages returns the language byte counts of one repository.
func (s *Service) Languages(ctx context.Context, owner, repo string) (map[string]int, error) {
	return s.gh.Languages(ctx, owner, repo)
}

// UserLanguages sums language bytes over the non-fork repositories of login.
// Repositories whose languages cannot be read are skipped.
func (s *Service) UserLanguages(ctx context.Context, login string) (map[string]int, error) {
	repos, err := s.gh.Repositories(ctx, login)
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	out := make(map[string]int)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.languageConcurrency)
	for _, repo := range repos {
		if repo.IsFork {
			continue
		}
		g.Go(func() error {
			langs, err := s.gh.Languages(gctx, login, repo.Name)
			if err != nil {
				s.logger.Warn(gctx, "skipping repository languages",
					logger.String("repo", repo.Name),
					logger.Error(err),
				)
				return nil
			}
			mu.Lock()
			for lang, n := range langs {
				out[lang] += n
			}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out, nil
}

// Insight generates the narrative report for login and queues it for storage.
func (s *Service) Insight(ctx context.Context, login string) (*model.Insight, error) {
	const op = "service.Insight"
	if s.generator == nil {
		return nil, ErrInsightsUnavailable
	}

	var (
		profile model.Profile
		repos   []model.RemoteRepository
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := s.gh.User(gctx, login)
		profile = p
		return err
	})
	g.Go(func() error {
		rs, err := s.gh.Repositories(gctx, login)
		repos = rs
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	ic := insight.NewContext(profile, activity.Totals(repos), activity.TopLanguages(repos, insight.PromptLanguages), s.agg.Now())
	text, err := s.generator.Generate(ctx, insight.Prompt(ic))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	job := model.PersistJob{Kind: model.PersistInsight, Login: profile.Login, InsightText: text, At: ic.GeneratedAt}
	// A cached summary lets the worker create the document when the
	// profile was never analyzed.
	if sum, found, err := s.cache.Get(ctx, profile.Login, activity.DefaultToken); err == nil && found {
		job.Summary = sum
	}
	s.persist(ctx, job)
	return &model.Insight{Text: text, ProfileSummary: ic}, nil
}

// InsightsEnabled reports whether a generator is configured.
func (s *Service) InsightsEnabled() bool { return s.generator != nil }

// TopN returns the top n stored ratings.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	return s.store.TopN(ctx, n)
}

// Rank returns the leaderboard position of login.
func (s *Service) Rank(ctx context.Context, login string) (types.Entry, error) {
	return s.store.Rank(ctx, login)
}

// Status reports which collaborators are configured.
func (s *Service) Status() map[string]any {
	_, mongo := s.store.(*repository.MongoStore)
	return map[string]any{
		"message":                 "GitHub Profile Analyzer API",
		"status":                  "running",
		"gemini_configured":       s.generator != nil,
		"github_token_configured": s.gh.Authenticated(),
		"mongodb_configured":      mongo,
		"cache_enabled":           s.cache.Enabled(),
	}
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats(ctx context.Context) map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":      s.started,
		"workerCount":  s.workerCount,
		"queueSize":    s.queueSize,
		"cacheEnabled": s.cache.Enabled(),
		"recentWrites": s.recent.Size(),
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		if n, err := s.store.Count(ctx); err == nil {
			stats["profilesStored"] = n
			metrics.UpdateProfilesStored(n)
		}
	}
	return stats
}

// persistSummary queues sum unless an identical summary was queued recently.
func (s *Service) persistSummary(ctx context.Context, sum *model.ProfileSummary) {
	key := summaryKey(sum)
	if s.recent.SeenAndRecord(ctx, key) {
		s.logger.Debug(ctx, "identical summary already queued", logger.String("login", sum.Profile.Login))
		return
	}
	job := model.PersistJob{Kind: model.PersistProfile, Login: sum.Profile.Login, Summary: sum, At: sum.GeneratedAt}
	if !s.persist(ctx, job) {
		s.recent.Unrecord(ctx, key)
	}
}

// summaryKey identifies the stored content of a summary for one day.
func summaryKey(sum *model.ProfileSummary) string {
	p := sum.Profile
	return fmt.Sprintf("%s|%s|%s|%d|%d|%+v",
		strings.ToLower(p.Login), sum.Range.Token, sum.Range.End.Format(model.DateLayout),
		p.PublicRepos, p.Followers, sum.Stats)
}

// persist queues job and reports whether it was accepted.
func (s *Service) persist(ctx context.Context, job model.PersistJob) bool {
	s.mu.RLock()
	q, started := s.queue, s.started
	s.mu.RUnlock()
	if !started {
		s.logger.Debug(ctx, "persistence skipped", logger.String("login", job.Login), logger.Error(ErrNotStarted))
		return false
	}
	if err := q.Enqueue(ctx, job); err != nil {
		lvl := s.logger.Warn
		if errors.Is(err, queue.ErrClosed) {
			lvl = s.logger.Debug
		}
		lvl(ctx, "persistence job dropped", logger.String("login", job.Login), logger.Error(err))
		return false
	}
	return true
}
