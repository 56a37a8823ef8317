package activity

import (
	"errors"
	"fmt"
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// TimestampLayout is the feed's created_at format.
const TimestampLayout = "2006-01-02T15:04:05Z"

// ErrMalformedEvent marks a single event that could not be classified.
var ErrMalformedEvent = errors.New("malformed event")

var kinds = map[string]model.Kind{ //nolint:gochecknoglobals // fixed lookup table
	"PushEvent":        model.KindPush,
	"PullRequestEvent": model.KindPullRequest,
	"IssuesEvent":      model.KindIssue,
	"CreateEvent":      model.KindCreate,
	"ForkEvent":        model.KindFork,
}

// Classify maps a raw feed record to its kind. Unknown types become
// KindOther without error; only a bad timestamp fails.
func Classify(raw model.RawEvent) (model.RemoteEvent, error) {
	at, err := time.Parse(TimestampLayout, raw.CreatedAt)
	if err != nil {
		return model.RemoteEvent{}, fmt.Errorf("%w: created_at %q: %w", ErrMalformedEvent, raw.CreatedAt, err)
	}
	ev := model.RemoteEvent{
		Kind:       kinds[raw.Type],
		OccurredAt: at.UTC(),
		Repository: raw.RepoName,
		Action:     raw.Action,
	}
	if ev.Kind == model.KindPush && raw.Commits > 0 {
		ev.PayloadCount = raw.Commits
	}
	return ev, nil
}

// ClassifyAll classifies every record, skipping the malformed ones.
// The number skipped is returned alongside.
func ClassifyAll(raws []model.RawEvent) ([]model.RemoteEvent, int) {
	out := make([]model.RemoteEvent, 0, len(raws))
	skipped := 0
	for _, raw := range raws {
		ev, err := Classify(raw)
		if err != nil {
			skipped++
			continue
		}
		out = append(out, ev)
	}
	return out, skipped
}
