package config_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/smarrtifai/github-optimizer/internal/config"
)

var configEnvVars = []string{
	"GHOPT_CONFIG", "GHOPT_ADDR", "GHOPT_QUEUE_SIZE", "GHOPT_WORKER_COUNT", "GHOPT_PAGE_SIZE",
	"GHOPT_REQUEST_TIMEOUT", "GHOPT_CORS_ALLOWED_ORIGINS", "GHOPT_GITHUB_TOKEN", "GHOPT_MONGO_URI",
	"GITHUB_TOKEN", "MONGO_URI", "GEMINI_API_KEY", "REDIS_ADDR", "PORT",
}

// clearConfigEnv unsets every variable Load reads, restoring them after the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, name := range configEnvVars {
		t.Setenv(name, "")
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const fileConfig = `
addr: ":9090"
queue_size: 300
worker_count: 6
request_timeout: 20s
github_token: from-file
cors_allowed_origins:
  - https://app.example.com
`

func TestConfigLoader(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a config loader", t, func() {
		clearConfigEnv(t)

		convey.Convey("When loading with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then the defaults come back", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
				convey.So(cfg.GitHubToken, convey.ShouldBeEmpty)
				convey.So(cfg.QueueSize, convey.ShouldEqual, 1024)
			})
		})

		convey.Convey("When prefixed environment variables are set", func() {
			t.Setenv("GHOPT_ADDR", ":8080")
			t.Setenv("GHOPT_QUEUE_SIZE", "64")
			t.Setenv("GHOPT_REQUEST_TIMEOUT", "5s")
			t.Setenv("GHOPT_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 64)
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 5*time.Second)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When the origin list has blanks and empty items", func() {
			t.Setenv("GHOPT_CORS_ALLOWED_ORIGINS", " https://a.example , ,https://b.example,")

			cfg, err := config.Load(ctx)

			convey.Convey("Then each origin is a separate trimmed entry", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When only legacy variables are set", func() {
			t.Setenv("GITHUB_TOKEN", "legacy-token")
			t.Setenv("MONGO_URI", "mongodb://db:27017")
			t.Setenv("GEMINI_API_KEY", "gem")
			t.Setenv("PORT", "7000")

			cfg, err := config.Load(ctx)

			convey.Convey("Then they are honored", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "legacy-token")
				convey.So(cfg.MongoURI, convey.ShouldEqual, "mongodb://db:27017")
				convey.So(cfg.GeminiAPIKey, convey.ShouldEqual, "gem")
				convey.So(cfg.Addr, convey.ShouldEqual, ":7000")
			})

			convey.Convey("Then prefixed variables still win", func() {
				t.Setenv("GHOPT_GITHUB_TOKEN", "prefixed-token")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "prefixed-token")
			})
		})

		convey.Convey("When a YAML file is provided", func() {
			t.Setenv("GHOPT_CONFIG", writeConfigFile(t, fileConfig))

			cfg, err := config.Load(ctx)

			convey.Convey("Then file values replace defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
				convey.So(cfg.WorkerCount, convey.ShouldEqual, 6)
				convey.So(cfg.RequestTimeout, convey.ShouldEqual, 20*time.Second)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://app.example.com"})
				convey.So(cfg.PageSize, convey.ShouldEqual, 100)
			})

			convey.Convey("Then environment variables override the file", func() {
				t.Setenv("GHOPT_ADDR", ":8081")
				t.Setenv("GITHUB_TOKEN", "legacy-token")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8081")
				convey.So(cfg.GitHubToken, convey.ShouldEqual, "legacy-token")
				convey.So(cfg.QueueSize, convey.ShouldEqual, 300)
			})

			convey.Convey("Then an origin list from the environment replaces the file's", func() {
				t.Setenv("GHOPT_CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"https://a.example", "https://b.example"})
			})
		})

		convey.Convey("When the config file does not exist", func() {
			t.Setenv("GHOPT_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a value fails validation", func() {
			t.Setenv("GHOPT_PAGE_SIZE", "500")
			_, err := config.Load(ctx)

			convey.Convey("Then an invalid config error is returned", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		})

		convey.Convey("When a number is malformed", func() {
			t.Setenv("GHOPT_QUEUE_SIZE", "lots")
			_, err := config.Load(ctx)

			convey.Convey("Then a load error is returned", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
			})
		})
	})
}
