// Package activity classifies feed events and folds them into daily series
// and rating inputs.
package activity

import (
	"time"

	"github.com/smarrtifai/github-optimizer/internal/domain/model"
)

// DefaultToken is used for empty or unknown range tokens.
const DefaultToken = "1month"

// Range tokens accepted by the API.
const (
	Token15Days  = "15days"
	Token1Month  = "1month"
	Token3Months = "3months"
	Token6Months = "6months"
	Token1Year   = "1year"
	TokenAll     = "all"
)

type rangePolicy struct {
	days     int
	maxPages int
}

var ranges = map[string]rangePolicy{ //nolint:gochecknoglobals // fixed lookup table
	Token15Days:  {days: 15, maxPages: 8},
	Token1Month:  {days: 30, maxPages: 8},
	Token3Months: {days: 90, maxPages: 8},
	Token6Months: {days: 180, maxPages: 8},
	Token1Year:   {days: 365, maxPages: 15},
	TokenAll:     {days: 1095, maxPages: 15},
}

// Tokens lists the accepted range tokens, shortest first.
func Tokens() []string {
	return []string{Token15Days, Token1Month, Token3Months, Token6Months, Token1Year, TokenAll}
}

// NormalizeToken maps unknown tokens to DefaultToken.
func NormalizeToken(token string) string {
	if _, ok := ranges[token]; ok {
		return token
	}
	return DefaultToken
}

// RangeFor builds the inclusive range ending on now's UTC date.
func RangeFor(token string, now time.Time) model.TimeRange {
	token = NormalizeToken(token)
	end := model.Day(now)
	return model.TimeRange{
		Token: token,
		Start: end.AddDate(0, 0, -ranges[token].days),
		End:   end,
	}
}

// MaxPages is the event-feed page ceiling for a range token.
func MaxPages(token string) int {
	return ranges[NormalizeToken(token)].maxPages
}
