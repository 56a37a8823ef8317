// Package config defines the service configuration and how it is loaded.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat is "text" or "json".
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":5000".
	Addr string `koanf:"addr"`
	// RequestTimeout bounds one API request end to end.
	RequestTimeout time.Duration `koanf:"request_timeout"`
	// CORSAllowedOrigins lists origins allowed to call the API.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	GitHubToken   string        `koanf:"github_token"`
	GitHubBaseURL string        `koanf:"github_base_url"`
	GitHubTimeout time.Duration `koanf:"github_timeout"`
	// PageSize is the per_page used for list endpoints (1..100).
	PageSize int `koanf:"page_size"`
	// RepoMaxPages caps repository listing pagination.
	RepoMaxPages int `koanf:"repo_max_pages"`
	// AggregateConcurrency bounds concurrent upstream calls per summary.
	AggregateConcurrency int `koanf:"aggregate_concurrency"`
	// TopLanguages is how many languages a summary lists.
	TopLanguages int `koanf:"top_languages"`

	// MongoURI enables the MongoDB store when set.
	MongoURI        string `koanf:"mongo_uri"`
	MongoDatabase   string `koanf:"mongo_database"`
	MongoCollection string `koanf:"mongo_collection"`

	// RedisAddr enables the summary cache when set.
	RedisAddr     string        `koanf:"redis_addr"`
	RedisPassword string        `koanf:"redis_password"`
	RedisDB       int           `koanf:"redis_db"`
	CacheTTL      time.Duration `koanf:"cache_ttl"`

	// GeminiAPIKey enables insights when set.
	GeminiAPIKey  string        `koanf:"gemini_api_key"`
	GeminiModel   string        `koanf:"gemini_model"`
	GeminiTimeout time.Duration `koanf:"gemini_timeout"`

	// QueueSize bounds the persistence queue.
	QueueSize int `koanf:"queue_size"`
	// WorkerCount sets the number of persistence workers.
	WorkerCount int `koanf:"worker_count"`

	// MaxLeaderboardLimit caps GET /leaderboard?limit.
	MaxLeaderboardLimit int `koanf:"max_leaderboard_limit"`

	// RecentWrites bounds how many summary keys are remembered to skip
	// identical writes. Zero or less remembers without bound.
	RecentWrites int `koanf:"recent_writes"`
}

// New returns a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		LogFormat:            "text",
		Addr:                 ":5000",
		RequestTimeout:       60 * time.Second,
		CORSAllowedOrigins:   []string{"*"},
		GitHubBaseURL:        "https://api.github.com/",
		GitHubTimeout:        15 * time.Second,
		PageSize:             100,
		RepoMaxPages:         50,
		AggregateConcurrency: 4,
		TopLanguages:         5,
		MongoDatabase:        "github_optimizer",
		MongoCollection:      "profiles",
		CacheTTL:             10 * time.Minute,
		GeminiModel:          "gemini-1.5-flash",
		GeminiTimeout:        60 * time.Second,
		QueueSize:            1024,
		WorkerCount:          max(2, runtime.NumCPU()),
		MaxLeaderboardLimit:  100,
		RecentWrites:         4096,
	}
}
