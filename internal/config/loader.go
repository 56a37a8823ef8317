package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GHOPT_"

// FileEnv names the variable holding an optional YAML config path.
const FileEnv = EnvPrefix + "CONFIG"

// legacyEnv maps the unprefixed variable names deployments already use.
var legacyEnv = map[string]string{ //nolint:gochecknoglobals // fixed lookup table
	"GITHUB_TOKEN":   "github_token",
	"MONGO_URI":      "mongo_uri",
	"GEMINI_API_KEY": "gemini_api_key",
	"REDIS_ADDR":     "redis_addr",
	"PORT":           "addr",
}

// listKeys are settings read from the environment as comma-separated lists.
var listKeys = map[string]struct{}{ //nolint:gochecknoglobals // fixed lookup table
	"cors_allowed_origins": {},
}

// splitList splits a comma-separated value, trimming blanks and dropping
// empty items.
func splitList(value string) []string {
	items := make([]string, 0, strings.Count(value, ",")+1)
	for item := range strings.SplitSeq(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// Load builds a Config by layering, from lowest to highest precedence:
//  1. defaults (New)
//  2. a YAML file if GHOPT_CONFIG is set
//  3. legacy unprefixed env (GITHUB_TOKEN, MONGO_URI, GEMINI_API_KEY, REDIS_ADDR, PORT)
//  4. GHOPT_* env, e.g. GHOPT_QUEUE_SIZE -> queue_size
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	legacy := env.ProviderWithValue("", ".", func(key, value string) (string, interface{}) {
		name, ok := legacyEnv[key]
		if !ok || value == "" {
			return "", nil
		}
		if name == "addr" && !strings.Contains(value, ":") {
			value = ":" + value
		}
		return name, value
	})
	if err := k.Load(legacy, nil); err != nil {
		return nil, fmt.Errorf("%w: legacy env: %w", ErrLoadConfig, err)
	}

	prefixed := env.ProviderWithValue(EnvPrefix, ".", func(key, value string) (string, interface{}) {
		if key == FileEnv {
			return "", nil
		}
		name := strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
		if _, ok := listKeys[name]; ok {
			return name, splitList(value)
		}
		return name, value
	})
	if err := k.Load(prefixed, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.PageSize < 1 || c.PageSize > 100:
		return fmt.Errorf("%w: page_size must be in 1..100, got %d", ErrInvalidConfig, c.PageSize)
	case c.RepoMaxPages < 1:
		return fmt.Errorf("%w: repo_max_pages must be positive, got %d", ErrInvalidConfig, c.RepoMaxPages)
	case c.RequestTimeout <= 0:
		return fmt.Errorf("%w: request_timeout must be positive", ErrInvalidConfig)
	case c.QueueSize < 1:
		return fmt.Errorf("%w: queue_size must be positive, got %d", ErrInvalidConfig, c.QueueSize)
	case c.WorkerCount < 1:
		return fmt.Errorf("%w: worker_count must be positive, got %d", ErrInvalidConfig, c.WorkerCount)
	case c.MaxLeaderboardLimit < 1:
		return fmt.Errorf("%w: max_leaderboard_limit must be positive, got %d", ErrInvalidConfig, c.MaxLeaderboardLimit)
	}
	return nil
}
