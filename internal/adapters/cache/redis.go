package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

const defaultTTL = 10 * time.Minute

// RedisCache is a SummaryCache backed by Redis string values holding JSON.
type RedisCache struct {
	client   *redis.Client
	ttl      time.Duration
	password string
	db       int
	logger   logger.Logger
}

var _ SummaryCache = (*RedisCache)(nil)

// NewRedisCache connects to addr and verifies the connection with PING.
func NewRedisCache(ctx context.Context, addr string, opts ...Option) (*RedisCache, error) {
	c := &RedisCache{
		ttl:    defaultTTL,
		logger: logger.Get().Named("cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.client = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: c.password,
		DB:       c.db,
	})
	if err := c.client.Ping(ctx).Err(); err != nil {
		_ = c.client.Close()
		return nil, fmt.Errorf("cache: ping %s: %w", addr, err)
	}
	return c, nil
}

// Get implements SummaryCache.Get.
func (c *RedisCache) Get(ctx context.Context, login, token string) (*model.ProfileSummary, bool, error) {
	key := Key(login, token)
	data, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		metrics.RecordCacheMiss()
		return nil, false, nil
	}
	if err != nil {
		metrics.RecordCacheError()
		return nil, false, fmt.Errorf("cache: get %s: %w", key, err)
	}

	var s model.ProfileSummary
	if err := json.Unmarshal(data, &s); err != nil {
		metrics.RecordCacheError()
		c.logger.Warn(ctx, "dropping corrupt cache entry", logger.String("key", key), logger.Error(err))
		_ = c.client.Del(ctx, key).Err()
		return nil, false, fmt.Errorf("%w: %s: %v", ErrDecode, key, err)
	}
	metrics.RecordCacheHit()
	return &s, true, nil
}

// Set implements SummaryCache.Set.
func (c *RedisCache) Set(ctx context.Context, s *model.ProfileSummary) error {
	if s == nil || s.Profile.Login == "" {
		return ErrInvalidSummary
	}
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("cache: encode summary: %w", err)
	}
	key := Key(s.Profile.Login, s.Range.Token)
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		metrics.RecordCacheError()
		return fmt.Errorf("cache: set %s: %w", key, err)
	}
	return nil
}

// Enabled implements SummaryCache.Enabled.
func (c *RedisCache) Enabled() bool { return true }

// Close releases the connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }
