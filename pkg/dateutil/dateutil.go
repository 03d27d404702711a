// Package dateutil holds the day-granularity helpers every date comparison in the
// ledger goes through.
package dateutil

import (
	"strings"
	"time"
)

// Accepted layouts, most specific first. Date-only values carry no zone and are
// read in the caller's location.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.DateOnly,
}

// NormalizeToDay truncates t to midnight of its calendar day in t's own location.
func NormalizeToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Parse reads value with the accepted layouts. Zoned values are converted into loc
// before use so both sides of a comparison share one calendar.
func Parse(value string, loc *time.Location) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range layouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t.In(loc), true
		}
	}
	return time.Time{}, false
}

// IsValidDate reports whether value parses with any accepted layout.
func IsValidDate(value string) bool {
	_, ok := Parse(value, time.UTC)
	return ok
}

// DaysBetween returns the signed number of whole calendar days from -> to.
// Both sides are normalized first, so any two instants on the same day give 0.
func DaysBetween(from, to time.Time) int {
	fy, fm, fd := from.Date()
	ty, tm, td := to.Date()
	a := time.Date(fy, fm, fd, 0, 0, 0, 0, time.UTC)
	b := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// AddMonths adds n calendar months. Overflowing days roll forward, so Jan 31 plus one
// month is Mar 2 or 3.
func AddMonths(t time.Time, n int) time.Time {
	return t.AddDate(0, n, 0)
}

// Before reports whether a's calendar day is strictly before b's.
func Before(a, b time.Time) bool {
	return DaysBetween(a, b) > 0
}
