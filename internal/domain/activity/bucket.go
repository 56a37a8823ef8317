package activity

import (
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// Bucket folds events into zero-filled daily series for r.
// Events outside r are ignored; same-day events accumulate.
func Bucket(events []model.RemoteEvent, r model.TimeRange) model.Activity {
	act := model.Activity{
		Commits:      model.NewDailySeries(r),
		PullRequests: model.NewDailySeries(r),
		Issues:       model.NewDailySeries(r),
	}
	for _, ev := range events {
		w := ev.Weight()
		if w == 0 {
			continue
		}
		switch ev.Kind {
		case model.KindPush:
			act.Commits.Add(ev.OccurredAt, w)
		case model.KindPullRequest:
			act.PullRequests.Add(ev.OccurredAt, w)
		case model.KindIssue:
			act.Issues.Add(ev.OccurredAt, w)
		}
	}
	return act
}

// CommitsInYear sums push commit entries whose UTC date falls in year.
func CommitsInYear(events []model.RemoteEvent, year int) int {
	total := 0
	for _, ev := range events {
		if ev.Kind == model.KindPush && ev.OccurredAt.Year() == year {
			total += ev.PayloadCount
		}
	}
	return total
}

// ContributedRepos counts distinct repositories touched by contributing
// events strictly newer than since.
func ContributedRepos(events []model.RemoteEvent, since time.Time) int {
	seen := make(map[string]struct{})
	for _, ev := range events {
		if !ev.Kind.Contributes() || ev.Repository == "" || !ev.OccurredAt.After(since) {
			continue
		}
		seen[ev.Repository] = struct{}{}
	}
	return len(seen)
}
