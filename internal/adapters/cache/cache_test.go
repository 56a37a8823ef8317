package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/smarrtifai/github-optimizer/internal/adapters/cache"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

func sampleSummary() *model.ProfileSummary {
	end := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	r := model.TimeRange{Token: "15days", Start: end.AddDate(0, 0, -15), End: end}
	act := model.Activity{
		Commits:      model.NewDailySeries(r),
		PullRequests: model.NewDailySeries(r),
		Issues:       model.NewDailySeries(r),
	}
	act.Commits.Add(end, 4)
	act.Issues.Add(r.Start, 1)
	return &model.ProfileSummary{
		Profile:  model.Profile{Login: "OctoCat", Name: "The Octocat", PublicRepos: 8},
		Range:    r,
		Stats:    model.Stats{TotalStars: 50, Rating: 54},
		Activity: act,
	}
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a Redis cache backed by miniredis", t, func() {
		mr := miniredis.RunT(t)
		c, err := cache.NewRedisCache(ctx, mr.Addr(), cache.WithTTL(time.Minute))
		So(err, ShouldBeNil)
		Reset(func() { _ = c.Close() })

		So(c.Enabled(), ShouldBeTrue)

		Convey("When nothing was stored", func() {
			s, found, err := c.Get(ctx, "octocat", "15days")

			Convey("Then it is a miss without error", func() {
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
				So(s, ShouldBeNil)
			})
		})

		Convey("When a summary is stored", func() {
			So(c.Set(ctx, sampleSummary()), ShouldBeNil)

			Convey("Then it is keyed by folded login and range", func() {
				So(mr.Exists("profile:octocat:15days"), ShouldBeTrue)
				So(mr.TTL("profile:octocat:15days"), ShouldEqual, time.Minute)
			})

			Convey("Then it reads back with the series intact", func() {
				s, found, err := c.Get(ctx, "octocat", "15days")
				So(err, ShouldBeNil)
				So(found, ShouldBeTrue)
				So(s.Profile.Name, ShouldEqual, "The Octocat")
				So(s.Stats.Rating, ShouldEqual, 54)
				So(s.Activity.Commits.Len(), ShouldEqual, 16)
				So(s.Activity.Commits.Sum(), ShouldEqual, 4)
				So(s.Activity.Issues.Counts()[0], ShouldEqual, 1)
				So(s.Activity.Commits.Dates()[15], ShouldEqual, "2025-03-10")
			})

			Convey("Then another range is still a miss", func() {
				_, found, err := c.Get(ctx, "octocat", "1month")
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})

			Convey("Then it expires after the TTL", func() {
				mr.FastForward(2 * time.Minute)
				_, found, err := c.Get(ctx, "octocat", "15days")
				So(err, ShouldBeNil)
				So(found, ShouldBeFalse)
			})
		})

		Convey("When the stored value is corrupt", func() {
			So(mr.Set("profile:octocat:15days", "{not json"), ShouldBeNil)
			_, found, err := c.Get(ctx, "octocat", "15days")

			Convey("Then a decode error is returned and the entry dropped", func() {
				So(found, ShouldBeFalse)
				So(errors.Is(err, cache.ErrDecode), ShouldBeTrue)
				So(mr.Exists("profile:octocat:15days"), ShouldBeFalse)
			})
		})

		Convey("When storing a summary without a login", func() {
			err := c.Set(ctx, &model.ProfileSummary{})
			So(errors.Is(err, cache.ErrInvalidSummary), ShouldBeTrue)
		})

		Convey("When the server goes away", func() {
			mr.Close()
			_, _, err := c.Get(ctx, "octocat", "15days")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestNewRedisCacheUnreachable(t *testing.T) {
	Convey("Connecting to a closed port fails fast", t, func() {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_, err := cache.NewRedisCache(ctx, addr)
		So(err, ShouldNotBeNil)
	})
}

func TestNoop(t *testing.T) {
	Convey("The noop cache never hits", t, func() {
		var c cache.SummaryCache = cache.Noop{}
		So(c.Set(context.Background(), sampleSummary()), ShouldBeNil)
		s, found, err := c.Get(context.Background(), "octocat", "15days")
		So(s, ShouldBeNil)
		So(found, ShouldBeFalse)
		So(err, ShouldBeNil)
		So(c.Enabled(), ShouldBeFalse)
		So(c.Close(), ShouldBeNil)
		So(cache.Key(" OctoCat ", "all"), ShouldEqual, "profile:octocat:all")
	})
}
