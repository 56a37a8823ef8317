// Package types contains common types used across the application
package types

// Entry represents a leaderboard entry
type Entry struct {
	Rank   int    `json:"rank"`
	Login  string `json:"login"`
	Rating int    `json:"rating"`
}

// Less orders entries by rating descending, then login ascending (bytewise,
// the same order the document store sorts _id in).
func Less(a, b Entry) bool {
	if a.Rating != b.Rating {
		return a.Rating > b.Rating
	}
	return a.Login < b.Login
}

// AssignRanks fills Rank on entries already sorted with Less, using
// competition ranking: equal ratings share a rank and the next rank skips
// (1, 1, 3). Ranks start at 1 for the first element.
func AssignRanks(entries []Entry) {
	for i := range entries {
		if i > 0 && entries[i].Rating == entries[i-1].Rating {
			entries[i].Rank = entries[i-1].Rank
			continue
		}
		entries[i].Rank = i + 1
	}
}
