package model

import (
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/scoring"
)

// Stats are the headline figures the rating is derived from.
type Stats struct {
	TotalStars         int `json:"total_stars"`
	TotalPRs           int `json:"total_prs"`
	TotalIssues        int `json:"total_issues"`
	ContributedTo      int `json:"contributed_to"`
	CommitsCurrentYear int `json:"commits_current_year"`
	Rating             int `json:"rating"`
}

// ProfileSummary is the aggregated view of one developer for one range.
// Built per request and not mutated after it is returned.
type ProfileSummary struct {
	Profile      Profile                `json:"profile"`
	Range        TimeRange              `json:"range"`
	Totals       RepoTotals             `json:"totals"`
	TopLanguages []LanguageCount        `json:"top_languages"`
	Stats        Stats                  `json:"stats"`
	Inputs       scoring.Inputs         `json:"rating_inputs"`
	Breakdown    []scoring.Contribution `json:"rating_breakdown"`
	Activity     Activity               `json:"activity"`
	Degraded     []string               `json:"degraded,omitempty"`
	GeneratedAt  time.Time              `json:"generated_at"`
}

// InsightContext is what the narrative generator is told about a profile.
type InsightContext struct {
	Username        string          `json:"username"`
	Name            string          `json:"name,omitempty"`
	PublicRepos     int             `json:"public_repos"`
	TotalStars      int             `json:"total_stars"`
	AccountAgeYears float64         `json:"account_age_years"`
	TopLanguages    []LanguageCount `json:"top_languages"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// Insight is a generated narrative report.
type Insight struct {
	Text           string         `json:"insight"`
	ProfileSummary InsightContext `json:"profile_summary"`
}

// PersistKind distinguishes the two write-behind job types.
type PersistKind int

const (
	PersistProfile PersistKind = iota
	PersistInsight
)

// PersistJob is one unit of work for the persistence workers.
type PersistJob struct {
	Kind        PersistKind
	Login       string
	Summary     *ProfileSummary
	InsightText string
	At          time.Time
}
