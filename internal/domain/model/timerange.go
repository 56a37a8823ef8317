package model

import "time"

// DateLayout is the calendar-date key format used by every daily series.
const DateLayout = "2006-01-02"

// TimeRange is an inclusive span of UTC calendar dates.
// End - Start is exactly Days() days, so a range covers Days()+1 dates.
type TimeRange struct {
	Token string    `json:"token"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Day truncates t to its UTC calendar date.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Days is the distance between Start and End in days.
func (r TimeRange) Days() int {
	return int(r.End.Sub(r.Start).Hours() / 24)
}

// Contains reports whether t falls on a date inside the range.
func (r TimeRange) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(r.Start) && !d.After(r.End)
}

// Dates lists every date key of the range in chronological order.
func (r TimeRange) Dates() []string {
	n := r.Days() + 1
	if n <= 0 {
		return nil
	}
	out := make([]string, n)
	for i := range out {
		out[i] = r.Start.AddDate(0, 0, i).Format(DateLayout)
	}
	return out
}
