package model

import "time"

// Profile is the subset of a GitHub user record the service keeps.
type Profile struct {
	Login       string    `json:"login"`
	ID          int64     `json:"id"`
	Name        string    `json:"name,omitempty"`
	Bio         string    `json:"bio,omitempty"`
	Email       string    `json:"email,omitempty"`
	Blog        string    `json:"blog,omitempty"`
	Company     string    `json:"company,omitempty"`
	Location    string    `json:"location,omitempty"`
	HTMLURL     string    `json:"html_url,omitempty"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	PublicRepos int       `json:"public_repos"`
	Followers   int       `json:"followers"`
	Following   int       `json:"following"`
	CreatedAt   time.Time `json:"created_at"`
}

// AccountAgeDays is the number of whole days between account creation and now.
func (p Profile) AccountAgeDays(now time.Time) int {
	if p.CreatedAt.IsZero() || now.Before(p.CreatedAt) {
		return 0
	}
	return int(now.Sub(p.CreatedAt).Hours() / 24)
}

// RemoteRepository is an immutable snapshot of a repository listing entry.
type RemoteRepository struct {
	Name            string    `json:"name"`
	FullName        string    `json:"full_name,omitempty"`
	Description     string    `json:"description,omitempty"`
	HTMLURL         string    `json:"html_url,omitempty"`
	Stars           int       `json:"stargazers_count"`
	Forks           int       `json:"forks_count"`
	SizeKB          int       `json:"size"`
	PrimaryLanguage string    `json:"language,omitempty"`
	IsFork          bool      `json:"fork"`
	UpdatedAt       time.Time `json:"updated_at"`
	LanguagesURL    string    `json:"languages_url,omitempty"`
}

// LanguageCount is one entry of the top-languages list.
type LanguageCount struct {
	Language string `json:"language"`
	Repos    int    `json:"repos"`
}

// RepoTotals sums repository-level figures over a listing.
type RepoTotals struct {
	Repositories int `json:"repositories"`
	Stars        int `json:"stars"`
	Forks        int `json:"forks"`
	SizeKB       int `json:"size_kb"`
}
