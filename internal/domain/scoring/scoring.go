// Package scoring computes the bounded composite rating of a developer profile.
package scoring

import "math"

const (
	minRating = 0
	maxRating = 100
)

// Factor names, in the order contributions are reported.
const (
	FactorStars         = "stars"
	FactorCommits       = "commits"
	FactorPullRequests  = "pull_requests"
	FactorIssues        = "issues"
	FactorContributions = "contributed_repos"
	FactorAccountAge    = "account_age"
	FactorPublicRepos   = "public_repos"
)

// factor is one row of the fixed scoring policy.
type factor struct {
	name   string
	weight float64
	cap    float64
	raw    func(Inputs) float64
}

var policy = [...]factor{ //nolint:gochecknoglobals // fixed scoring table
	{FactorStars, 0.05, 5, func(in Inputs) float64 { return float64(in.Stars) }},
	{FactorCommits, 0.15, 55, func(in Inputs) float64 { return float64(in.Commits) }},
	{FactorPullRequests, 0.3, 15, func(in Inputs) float64 { return float64(in.PullRequests) }},
	{FactorIssues, 0.2, 10, func(in Inputs) float64 { return float64(in.Issues) }},
	{FactorContributions, 2, 15, func(in Inputs) float64 { return float64(in.ContributedRepos) }},
	{FactorAccountAge, 1, 5, func(in Inputs) float64 { return float64(in.AccountAgeDays) / 365 }},
	{FactorPublicRepos, 0.5, 10, func(in Inputs) float64 { return float64(in.PublicRepos) }},
}

// Inputs are the raw totals the rating is computed from. Negative values are
// treated as zero.
type Inputs struct {
	Stars            int `json:"stars"`
	Commits          int `json:"commits"`
	PullRequests     int `json:"prs"`
	Issues           int `json:"issues"`
	ContributedRepos int `json:"contributed_repos"`
	AccountAgeDays   int `json:"account_age_days"`
	PublicRepos      int `json:"public_repos"`
}

// Contribution is one factor's share of the total.
type Contribution struct {
	Factor string  `json:"factor"`
	Raw    float64 `json:"raw"`
	Weight float64 `json:"weight"`
	Cap    float64 `json:"cap"`
	Score  float64 `json:"score"`
}

// Result is the rating plus the breakdown it was derived from.
type Result struct {
	Rating        int            `json:"rating"`
	Total         float64        `json:"total"`
	Contributions []Contribution `json:"contributions"`
}

// Score applies the weighted, per-factor capped policy. Each factor is capped
// before summation; the sum is rounded half to even and clamped to [0,100].
// Score is pure: equal inputs always give equal results.
func Score(in Inputs) Result {
	res := Result{Contributions: make([]Contribution, 0, len(policy))}
	for _, f := range policy {
		raw := math.Max(0, f.raw(in))
		c := Contribution{
			Factor: f.name,
			Raw:    raw,
			Weight: f.weight,
			Cap:    f.cap,
			Score:  math.Min(f.cap, raw*f.weight),
		}
		res.Total += c.Score
		res.Contributions = append(res.Contributions, c)
	}
	res.Rating = clamp(int(math.RoundToEven(res.Total)))
	return res
}

// Rating is Score(in).Rating.
func Rating(in Inputs) int {
	return Score(in).Rating
}

func clamp(v int) int {
	if v < minRating {
		return minRating
	}
	if v > maxRating {
		return maxRating
	}
	return v
}
