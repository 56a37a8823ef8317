package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/smarrtifai/github-optimizer/internal/config"
)

func TestConfig_New(t *testing.T) {
	convey.Convey("Given a new config with default options", t, func() {
		cfg := config.New()

		convey.Convey("Then it should have sensible defaults", func() {
			convey.So(cfg.Addr, convey.ShouldEqual, ":5000")
			convey.So(cfg.PageSize, convey.ShouldEqual, 100)
			convey.So(cfg.RequestTimeout, convey.ShouldEqual, 60*time.Second)
			convey.So(cfg.CORSAllowedOrigins, convey.ShouldResemble, []string{"*"})
			convey.So(cfg.WorkerCount, convey.ShouldBeGreaterThanOrEqualTo, 2)
			convey.So(cfg.MaxLeaderboardLimit, convey.ShouldEqual, 100)
			convey.So(cfg.Validate(), convey.ShouldBeNil)
		})
	})
}

func TestConfig_Validate(t *testing.T) {
	convey.Convey("Given configs with one bad setting each", t, func() {
		cases := []struct {
			name   string
			mutate func(c *config.Config)
		}{
			{"empty addr", func(c *config.Config) { c.Addr = " " }},
			{"page size zero", func(c *config.Config) { c.PageSize = 0 }},
			{"page size 101", func(c *config.Config) { c.PageSize = 101 }},
			{"repo pages", func(c *config.Config) { c.RepoMaxPages = 0 }},
			{"request timeout", func(c *config.Config) { c.RequestTimeout = 0 }},
			{"queue size", func(c *config.Config) { c.QueueSize = -1 }},
			{"worker count", func(c *config.Config) { c.WorkerCount = 0 }},
			{"leaderboard size", func(c *config.Config) { c.MaxLeaderboardLimit = 0 }},
		}
		for _, tc := range cases {
			cfg := config.New()
			tc.mutate(cfg)
			convey.Convey("Then "+tc.name+" is rejected", func() {
				convey.So(errors.Is(cfg.Validate(), config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
		}
	})
}
