package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"iter"
	"strconv"
	"time"
)

// ErrSeriesGap is returned when decoding a series whose dates are not consecutive.
var ErrSeriesGap = errors.New("daily series dates are not consecutive")

// DailySeries maps each date of a TimeRange to a non-negative count.
// Iteration and JSON encoding are chronological.
type DailySeries struct {
	start  time.Time
	counts []int
}

// NewDailySeries returns a series with a zero for every date in r.
func NewDailySeries(r TimeRange) DailySeries {
	n := r.Days() + 1
	if n < 0 {
		n = 0
	}
	return DailySeries{start: Day(r.Start), counts: make([]int, n)}
}

// Len is the number of dates in the series.
func (s DailySeries) Len() int { return len(s.counts) }

// Add accumulates n onto the date of t. Dates outside the series are ignored
// and reported as false.
func (s *DailySeries) Add(t time.Time, n int) bool {
	idx, ok := s.index(t)
	if !ok {
		return false
	}
	s.counts[idx] += n
	return true
}

// Get returns the count stored for the date of t.
func (s DailySeries) Get(t time.Time) int {
	idx, ok := s.index(t)
	if !ok {
		return 0
	}
	return s.counts[idx]
}

func (s DailySeries) index(t time.Time) (int, bool) {
	if len(s.counts) == 0 {
		return 0, false
	}
	d := Day(t)
	if d.Before(s.start) {
		return 0, false
	}
	idx := int(d.Sub(s.start).Hours() / 24)
	if idx >= len(s.counts) {
		return 0, false
	}
	return idx, true
}

// Sum adds up every daily count.
func (s DailySeries) Sum() int {
	total := 0
	for _, c := range s.counts {
		total += c
	}
	return total
}

// Dates returns the date keys in order.
func (s DailySeries) Dates() []string {
	out := make([]string, len(s.counts))
	for i := range s.counts {
		out[i] = s.start.AddDate(0, 0, i).Format(DateLayout)
	}
	return out
}

// Counts returns a copy of the counts, positionally aligned with Dates.
func (s DailySeries) Counts() []int {
	out := make([]int, len(s.counts))
	copy(out, s.counts)
	return out
}

// All yields date/count pairs in chronological order.
func (s DailySeries) All() iter.Seq2[string, int] {
	return func(yield func(string, int) bool) {
		for i, c := range s.counts {
			if !yield(s.start.AddDate(0, 0, i).Format(DateLayout), c) {
				return
			}
		}
	}
}

// MarshalJSON encodes the series as an object whose keys keep date order.
func (s DailySeries) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, c := range s.counts {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('"')
		buf.WriteString(s.start.AddDate(0, 0, i).Format(DateLayout))
		buf.WriteString(`":`)
		buf.WriteString(strconv.Itoa(c))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object written by MarshalJSON. Keys must be
// consecutive dates in ascending order.
func (s *DailySeries) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("decode series: %w", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("decode series: expected object, got %v", tok)
	}
	var out DailySeries
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("decode series: %w", err)
		}
		key, _ := tok.(string)
		day, err := time.Parse(DateLayout, key)
		if err != nil {
			return fmt.Errorf("decode series key %q: %w", key, err)
		}
		if len(out.counts) == 0 {
			out.start = day
		} else if !day.Equal(out.start.AddDate(0, 0, len(out.counts))) {
			return fmt.Errorf("%w: %s", ErrSeriesGap, key)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("decode series value for %s: %w", key, err)
		}
		out.counts = append(out.counts, count)
	}
	*s = out
	return nil
}

// Activity holds the three per-day series reported for a range.
type Activity struct {
	Commits      DailySeries `json:"commits"`
	PullRequests DailySeries `json:"pullRequests"`
	Issues       DailySeries `json:"issues"`
}
