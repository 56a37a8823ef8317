package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/smarrtifai/github-optimizer/internal/adapters/githubapi"
	"github.com/smarrtifai/github-optimizer/internal/domain/activity"
	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/internal/domain/outcome"
	"github.com/smarrtifai/github-optimizer/internal/domain/scoring"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// Names used in ProfileSummary.Degraded.
const (
	MetricPullRequests = "pull_requests"
	MetricIssues       = "issues"
	MetricEvents       = "events"
)

const (
	// profileEventPages is how many feed pages the rating reads (commits this
	// year, contributed repos), whatever the chart range.
	profileEventPages   = 5
	defaultConcurrency  = 4
	defaultTopLanguages = 5
	yearDays            = 365
)

// AggregatorOption configures an Aggregator.
type AggregatorOption func(*Aggregator)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) AggregatorOption {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithConcurrency bounds the concurrent upstream fetches of one summary.
func WithConcurrency(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithTopLanguages sets how many languages a summary lists.
func WithTopLanguages(n int) AggregatorOption {
	return func(a *Aggregator) {
		if n > 0 {
			a.topLanguages = n
		}
	}
}

// WithAggregatorLogger sets the logger.
func WithAggregatorLogger(l logger.Logger) AggregatorOption {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// Aggregator builds profile summaries from upstream data.
type Aggregator struct {
	gh           GitHub
	now          func() time.Time
	concurrency  int
	topLanguages int
	logger       logger.Logger
}

// NewAggregator creates an Aggregator reading from gh.
func NewAggregator(gh GitHub, opts ...AggregatorOption) *Aggregator {
	a := &Aggregator{
		gh:           gh,
		now:          time.Now,
		concurrency:  defaultConcurrency,
		topLanguages: defaultTopLanguages,
		logger:       logger.Get().Named("aggregator"),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Now is the aggregator's clock in UTC.
func (a *Aggregator) Now() time.Time { return a.now().UTC() }

// Summarize builds the summary of login for r.
//
// The user lookup and the repository listing are required: their errors are
// returned. Search counts and the event feed are best effort; a failure there
// zeroes the metric and names it in Degraded.
func (a *Aggregator) Summarize(ctx context.Context, login string, r model.TimeRange) (*model.ProfileSummary, error) {
	const op = "service.Summarize"
	start := time.Now()
	now := a.Now()

	profile, err := a.gh.User(ctx, login)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		repos  []model.RemoteRepository
		prs    outcome.Outcome[int]
		issues outcome.Outcome[int]
		events outcome.Outcome[feedEvents]
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	g.Go(func() error {
		rs, err := a.gh.Repositories(gctx, profile.Login)
		if err != nil {
			return err
		}
		repos = rs
		return nil
	})
	g.Go(func() error {
		n, err := a.gh.CountPullRequests(gctx, profile.Login)
		prs = outcome.From(n, err, 0)
		return nil
	})
	g.Go(func() error {
		n, err := a.gh.CountIssues(gctx, profile.Login)
		issues = outcome.From(n, err, 0)
		return nil
	})
	g.Go(func() error {
		events = a.events(gctx, profile.Login, githubapi.FeedOptions{
			MaxPages:   max(activity.MaxPages(r.Token), profileEventPages),
			StopBefore: earliest(r.Start, yearStart(now), now.AddDate(0, 0, -yearDays)),
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%s: repositories: %w", op, err)
	}

	s := &model.ProfileSummary{
		Profile:      profile,
		Range:        r,
		Totals:       activity.Totals(repos),
		TopLanguages: activity.TopLanguages(repos, a.topLanguages),
		Activity:     activity.Bucket(events.Value().all, r),
		GeneratedAt:  now,
	}
	s.Degraded = degraded(ctx, a.logger, login,
		named{MetricPullRequests, prs.Err()},
		named{MetricIssues, issues.Err()},
		named{MetricEvents, events.Err()},
	)

	s.Inputs = scoring.Inputs{
		Stars:            s.Totals.Stars,
		Commits:          activity.CommitsInYear(events.Value().rating, now.Year()),
		PullRequests:     prs.Value(),
		Issues:           issues.Value(),
		ContributedRepos: activity.ContributedRepos(events.Value().rating, now.AddDate(0, 0, -yearDays)),
		AccountAgeDays:   profile.AccountAgeDays(now),
		PublicRepos:      profile.PublicRepos,
	}
	res := scoring.Score(s.Inputs)
	s.Breakdown = res.Contributions
	s.Stats = model.Stats{
		TotalStars:         s.Inputs.Stars,
		TotalPRs:           s.Inputs.PullRequests,
		TotalIssues:        s.Inputs.Issues,
		ContributedTo:      s.Inputs.ContributedRepos,
		CommitsCurrentYear: s.Inputs.Commits,
		Rating:             res.Rating,
	}

	metrics.RecordRating(res.Rating)
	metrics.RecordAggregateLatency(metrics.Since(start))
	a.logger.Info(ctx, "profile summarized",
		logger.String("login", profile.Login),
		logger.String("range", r.Token),
		logger.Int("rating", res.Rating),
		logger.Int("repos", s.Totals.Repositories),
		logger.Any("degraded", s.Degraded),
	)
	return s, nil
}

// Activity buckets only the event feed for r. Used by the chart endpoints,
// which do not need repositories or search counts. A feed that fails before
// yielding anything returns the error; a later failure keeps what was read
// and reports the feed as degraded.
func (a *Aggregator) Activity(ctx context.Context, login string, r model.TimeRange) (model.Activity, []string, error) {
	const op = "service.Activity"
	feed := a.gh.Feed(login, githubapi.FeedOptions{MaxPages: activity.MaxPages(r.Token), StopBefore: r.Start})
	var raws []model.RawEvent
	for page := range feed.Pages(ctx) {
		raws = append(raws, page...)
	}
	_, err := feed.Stop()
	if err != nil && len(raws) == 0 {
		return model.Activity{}, nil, fmt.Errorf("%s: %w", op, err)
	}
	events := a.classify(raws)
	var deg []string
	if err != nil {
		deg = degraded(ctx, a.logger, login, named{MetricEvents, err})
	}
	return activity.Bucket(events, r), deg, nil
}

// feedEvents holds one drained feed twice: every event for the chart, and
// the events of the first profileEventPages pages for the rating.
type feedEvents struct {
	all    []model.RemoteEvent
	rating []model.RemoteEvent
}

// events drains a feed into classified events. Events read before an upstream
// failure are kept as the degraded value.
func (a *Aggregator) events(ctx context.Context, login string, opts githubapi.FeedOptions) outcome.Outcome[feedEvents] {
	feed := a.gh.Feed(login, opts)
	var out feedEvents
	page := 0
	for raws := range feed.Pages(ctx) {
		page++
		events := a.classify(raws)
		out.all = append(out.all, events...)
		if page <= profileEventPages {
			out.rating = append(out.rating, events...)
		}
	}
	if _, err := feed.Stop(); err != nil {
		return outcome.Degrade(out, err)
	}
	return outcome.Ok(out)
}

func (a *Aggregator) classify(raws []model.RawEvent) []model.RemoteEvent {
	events, skipped := activity.ClassifyAll(raws)
	for range skipped {
		metrics.RecordMalformedRecord("event")
	}
	for _, ev := range events {
		metrics.RecordEventClassified(ev.Kind.String())
	}
	return events
}

type named struct {
	metric string
	err    error
}

func degraded(ctx context.Context, l logger.Logger, login string, parts ...named) []string {
	var out []string
	for _, p := range parts {
		if p.err == nil {
			continue
		}
		out = append(out, p.metric)
		metrics.RecordDegradedMetric(p.metric)
		l.Warn(ctx, "metric degraded",
			logger.String("login", login),
			logger.String("metric", p.metric),
			logger.Error(p.err),
		)
	}
	return out
}

func yearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

func earliest(first time.Time, rest ...time.Time) time.Time {
	out := first
	for _, t := range rest {
		if t.Before(out) {
			out = t
		}
	}
	return out
}
