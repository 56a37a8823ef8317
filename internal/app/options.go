package service

import (
	"time"

	"github.com/smarrtifai/github-optimizer/internal/adapters/cache"
	"github.com/smarrtifai/github-optimizer/internal/adapters/insight"
	"github.com/smarrtifai/github-optimizer/internal/adapters/repository"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of persistence workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the persistence queue capacity.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithRecentWrites sets how many queued summaries are remembered so an
// identical one is not written twice. Zero or negative removes the bound.
func WithRecentWrites(n int) Option {
	return func(s *Service) {
		s.recentWrites = n
	}
}

// WithStore sets the profile store. The default is an in-memory store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithCache sets the summary cache. The default caches nothing.
func WithCache(c cache.SummaryCache) Option {
	return func(s *Service) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithGenerator enables insights.
func WithGenerator(g insight.Generator) Option {
	return func(s *Service) {
		s.generator = g
	}
}

// WithAggregatorOptions passes options through to the Aggregator.
func WithAggregatorOptions(opts ...AggregatorOption) Option {
	return func(s *Service) {
		s.aggOpts = append(s.aggOpts, opts...)
	}
}

// WithLanguageConcurrency bounds concurrent per-repository language lookups.
func WithLanguageConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.languageConcurrency = n
		}
	}
}

// WithShutdownTimeout bounds how long Stop waits for queued writes.
func WithShutdownTimeout(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.shutdownTimeout = d
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
