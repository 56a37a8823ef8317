package githubapi

import (
	"context"
	"encoding/json"
	"fmt"
	"iter"
	"net/url"
	"time"

	"github.com/google/go-github/v68/github"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
	"github.com/smarrtifai/github-optimizer/pkg/logger"
	"github.com/smarrtifai/github-optimizer/pkg/metrics"
)

// eventTimeLayout is the feed's created_at format.
const eventTimeLayout = "2006-01-02T15:04:05Z"

// StopReason says why a feed stopped requesting pages.
type StopReason string

// Feed termination reasons.
const (
	StopNotStarted StopReason = ""
	StopEmptyPage  StopReason = "empty_page"
	StopShortPage  StopReason = "short_page"
	StopLastPage   StopReason = "last_page"
	StopMaxPages   StopReason = "max_pages"
	StopEarly      StopReason = "early_stop"
	StopUpstream   StopReason = "upstream_error"
	StopConsumer   StopReason = "consumer"
)

// FeedOptions bound a feed walk. MaxPages is required; StopBefore is optional.
type FeedOptions struct {
	MaxPages int
	// PageSize overrides the client page size when positive.
	PageSize int
	// StopBefore ends pagination once the oldest event of a page is older.
	StopBefore time.Time
}

// Feed is a lazy, one-shot walk over a user's public events, newest first.
//
// The early stop relies on the feed being reverse-chronological. Each page is
// checked: if a record is newer than the one before it, or a page starts newer
// than the previous page ended, early stop is switched off and the walk is
// bounded by MaxPages alone.
type Feed struct {
	client *Client
	login  string
	opts   FeedOptions

	started   bool
	reason    StopReason
	err       error
	requests  int
	skipped   int
	unordered bool
}

// Feed prepares an event feed walk for login. Nothing is requested until
// Pages is iterated.
func (c *Client) Feed(login string, opts FeedOptions) *Feed {
	if opts.PageSize <= 0 || opts.PageSize > maxPageSize {
		opts.PageSize = c.pageSize
	}
	return &Feed{client: c, login: login, opts: opts}
}

// Pages yields each fetched page in order. A second iteration yields nothing.
func (f *Feed) Pages(ctx context.Context) iter.Seq[[]model.RawEvent] {
	return func(yield func([]model.RawEvent) bool) {
		if f.started {
			return
		}
		f.started = true
		f.reason = f.walk(ctx, yield)
		metrics.RecordFeedStop(string(f.reason))
		f.client.logger.Debug(ctx, "event feed stopped",
			logger.String("login", f.login),
			logger.String("reason", string(f.reason)),
			logger.Int("requests", f.requests),
			logger.Int("skipped", f.skipped),
			logger.Bool("unordered", f.unordered),
		)
	}
}

// Collect drains the feed and returns every event along with the upstream
// error that ended it, if any. Events fetched before the error are kept.
func (f *Feed) Collect(ctx context.Context) ([]model.RawEvent, error) {
	var out []model.RawEvent
	for page := range f.Pages(ctx) {
		out = append(out, page...)
	}
	return out, f.err
}

// Stop reports why the walk ended and the upstream error, if that was the cause.
func (f *Feed) Stop() (StopReason, error) { return f.reason, f.err }

// Requests is the number of page requests made.
func (f *Feed) Requests() int { return f.requests }

// Skipped is the number of records dropped because they could not be decoded.
func (f *Feed) Skipped() int { return f.skipped }

// Unordered reports whether the ordering check failed and early stop was disabled.
func (f *Feed) Unordered() bool { return f.unordered }

func (f *Feed) walk(ctx context.Context, yield func([]model.RawEvent) bool) StopReason {
	c := f.client
	path := fmt.Sprintf("users/%s/events", url.PathEscape(f.login))
	earlyStop := !f.opts.StopBefore.IsZero()
	var prevTail time.Time

	for page := 1; ; page++ {
		if page > f.opts.MaxPages {
			return StopMaxPages
		}
		records, resp, err := f.fetch(ctx, path, page)
		f.requests++
		if err != nil {
			f.err = err
			c.logger.Warn(ctx, "event feed request failed",
				logger.String("login", f.login),
				logger.Int("page", page),
				logger.Error(err),
			)
			return StopUpstream
		}
		if len(records) == 0 {
			return StopEmptyPage
		}

		events, times := f.decode(ctx, records, page)
		if earlyStop && !ordered(times, prevTail) {
			earlyStop = false
			f.unordered = true
			c.logger.Warn(ctx, "event feed is not reverse-chronological, early stop disabled",
				logger.String("login", f.login),
				logger.Int("page", page),
			)
		}
		tail := oldest(times)
		if !tail.IsZero() {
			prevTail = tail
		}

		if !yield(events) {
			return StopConsumer
		}
		if len(records) < f.opts.PageSize {
			return StopShortPage
		}
		if isLastPage(resp) {
			return StopLastPage
		}
		if earlyStop && !tail.IsZero() && tail.Before(f.opts.StopBefore) {
			return StopEarly
		}
	}
}

func (f *Feed) fetch(ctx context.Context, path string, page int) ([]json.RawMessage, *github.Response, error) {
	if f.opts.PageSize == f.client.pageSize {
		return f.client.getPage(ctx, endpointEvents, path, page)
	}
	sized := *f.client
	sized.pageSize = f.opts.PageSize
	return sized.getPage(ctx, endpointEvents, path, page)
}

type eventPayload struct {
	Action  string            `json:"action"`
	Commits []json.RawMessage `json:"commits"`
}

// eventStamp keeps created_at as sent so the classifier sees the original
// text rather than a re-formatted time.
type eventStamp struct {
	CreatedAt string `json:"created_at"`
}

// decode converts raw records into RawEvents, skipping the ones that do not
// decode. times holds the parsed timestamp of each kept event, zero when the
// timestamp is missing.
func (f *Feed) decode(ctx context.Context, records []json.RawMessage, page int) ([]model.RawEvent, []time.Time) {
	events := make([]model.RawEvent, 0, len(records))
	times := make([]time.Time, 0, len(records))
	for _, raw := range records {
		ev, at, err := decodeEvent(raw)
		if err != nil {
			f.skipped++
			metrics.RecordMalformedRecord("event")
			f.client.logger.Warn(ctx, "skipping malformed event record",
				logger.String("login", f.login),
				logger.Int("page", page),
				logger.Error(err),
			)
			continue
		}
		events = append(events, ev)
		times = append(times, at)
	}
	return events, times
}

func decodeEvent(raw json.RawMessage) (model.RawEvent, time.Time, error) {
	var ev github.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return model.RawEvent{}, time.Time{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	var payload eventPayload
	if ev.RawPayload != nil {
		if err := json.Unmarshal(*ev.RawPayload, &payload); err != nil {
			return model.RawEvent{}, time.Time{}, fmt.Errorf("%w: payload: %w", ErrMalformed, err)
		}
	}
	out := model.RawEvent{
		Type:     ev.GetType(),
		RepoName: ev.GetRepo().GetName(),
		Action:   payload.Action,
		Commits:  len(payload.Commits),
	}
	var stamp eventStamp
	if err := json.Unmarshal(raw, &stamp); err != nil {
		return model.RawEvent{}, time.Time{}, fmt.Errorf("%w: created_at: %w", ErrMalformed, err)
	}
	out.CreatedAt = stamp.CreatedAt
	// A timestamp off the fixed layout is left for the classifier to reject
	// and does not take part in the ordering checks.
	at, err := time.Parse(eventTimeLayout, stamp.CreatedAt)
	if err != nil {
		at = time.Time{}
	}
	return out, at, nil
}

// ordered reports whether times are non-increasing and start no later than prev.
func ordered(times []time.Time, prev time.Time) bool {
	for _, t := range times {
		if t.IsZero() {
			continue
		}
		if !prev.IsZero() && t.After(prev) {
			return false
		}
		prev = t
	}
	return true
}

// oldest returns the last non-zero timestamp, which is the page tail in a
// reverse-chronological feed.
func oldest(times []time.Time) time.Time {
	for i := len(times) - 1; i >= 0; i-- {
		if !times[i].IsZero() {
			return times[i]
		}
	}
	return time.Time{}
}
