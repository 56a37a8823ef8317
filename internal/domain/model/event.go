// Package model contains domain models passed between layers.
package model

import "time"

// Kind is the closed set of event categories the aggregator understands.
type Kind int

const (
	KindOther Kind = iota
	KindPush
	KindPullRequest
	KindIssue
	KindCreate
	KindFork
)

// String returns the lowercase label used in logs and metrics.
func (k Kind) String() string {
	switch k {
	case KindPush:
		return "push"
	case KindPullRequest:
		return "pull_request"
	case KindIssue:
		return "issue"
	case KindCreate:
		return "create"
	case KindFork:
		return "fork"
	default:
		return "other"
	}
}

// Contributes reports whether an event of this kind counts towards the
// distinct contributed-to repositories.
func (k Kind) Contributes() bool {
	return k != KindOther
}

// RawEvent is one record of the public events feed, reduced to the fields
// the classifier reads. It is produced by the fetcher and consumed once.
type RawEvent struct {
	Type      string // e.g. "PushEvent"
	CreatedAt string // fixed-format timestamp, UTC
	RepoName  string // "owner/name"
	Action    string // payload.action for PR and issue events
	Commits   int    // number of payload.commits entries
}

// RemoteEvent is a classified event. Immutable once built.
type RemoteEvent struct {
	Kind         Kind
	OccurredAt   time.Time // UTC
	Repository   string
	PayloadCount int // commits attached to a push
	Action       string
}

// IsCreation reports whether a PR or issue event opened (or reopened) the item.
func (e RemoteEvent) IsCreation() bool {
	return e.Action == "opened" || e.Action == "reopened"
}

// Weight is how much the event adds to its kind's daily counter:
// the commit count for pushes, one for a PR or issue creation, zero otherwise.
func (e RemoteEvent) Weight() int {
	switch e.Kind {
	case KindPush:
		return e.PayloadCount
	case KindPullRequest, KindIssue:
		if e.IsCreation() {
			return 1
		}
	}
	return 0
}
