package repository

import (
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// Document is the persisted shape of a profile, one per login.
type Document struct {
	Login              string      `bson:"_id" json:"login"`
	GitHubID           int64       `bson:"github_id" json:"github_id"`
	Name               string      `bson:"name" json:"name,omitempty"`
	Bio                string      `bson:"bio" json:"bio,omitempty"`
	Email              string      `bson:"email" json:"email,omitempty"`
	Blog               string      `bson:"blog" json:"blog,omitempty"`
	Company            string      `bson:"company" json:"company,omitempty"`
	Location           string      `bson:"location" json:"location,omitempty"`
	HTMLURL            string      `bson:"html_url" json:"html_url,omitempty"`
	PublicRepos        int         `bson:"public_repos" json:"public_repos"`
	Followers          int         `bson:"followers" json:"followers"`
	CreatedAt          time.Time   `bson:"created_at" json:"created_at"`
	LastFetchedProfile time.Time   `bson:"last_fetched_profile" json:"last_fetched_profile"`
	Rating             int         `bson:"rating" json:"rating"`
	Stats              StatsDoc    `bson:"stats" json:"stats"`
	Insight            *InsightDoc `bson:"insight,omitempty" json:"insight,omitempty"`
}

// StatsDoc mirrors model.Stats with storage field names.
type StatsDoc struct {
	TotalStars         int `bson:"total_stars" json:"total_stars"`
	TotalPRs           int `bson:"total_prs" json:"total_prs"`
	TotalIssues        int `bson:"total_issues" json:"total_issues"`
	ContributedTo      int `bson:"contributed_to" json:"contributed_to"`
	CommitsCurrentYear int `bson:"commits_current_year" json:"commits_current_year"`
	Rating             int `bson:"rating" json:"rating"`
}

// InsightDoc is the last generated narrative for a profile.
type InsightDoc struct {
	Text        string    `bson:"text" json:"text"`
	GeneratedAt time.Time `bson:"generated_at" json:"generated_at"`
}

// NewDocument builds the stored document for a summary.
func NewDocument(s *model.ProfileSummary, fetchedAt time.Time) Document {
	p := s.Profile
	return Document{
		Login:              p.Login,
		GitHubID:           p.ID,
		Name:               p.Name,
		Bio:                p.Bio,
		Email:              p.Email,
		Blog:               p.Blog,
		Company:            p.Company,
		Location:           p.Location,
		HTMLURL:            p.HTMLURL,
		PublicRepos:        p.PublicRepos,
		Followers:          p.Followers,
		CreatedAt:          p.CreatedAt.UTC(),
		LastFetchedProfile: fetchedAt.UTC(),
		Rating:             s.Stats.Rating,
		Stats: StatsDoc{
			TotalStars:         s.Stats.TotalStars,
			TotalPRs:           s.Stats.TotalPRs,
			TotalIssues:        s.Stats.TotalIssues,
			ContributedTo:      s.Stats.ContributedTo,
			CommitsCurrentYear: s.Stats.CommitsCurrentYear,
			Rating:             s.Stats.Rating,
		},
	}
}
