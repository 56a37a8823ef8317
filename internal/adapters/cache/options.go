package cache

import (
	"time"

	"github.com/smarrtifai/github-optimizer/pkg/logger"
)

// Option configures a RedisCache.
type Option func(*RedisCache)

// WithTTL sets how long a summary stays cached. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *RedisCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithPassword sets the AUTH password.
func WithPassword(password string) Option {
	return func(c *RedisCache) {
		c.password = password
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(c *RedisCache) {
		if db >= 0 {
			c.db = db
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(c *RedisCache) {
		if l != nil {
			c.logger = l
		}
	}
}
