// Package calendar holds the date helpers shared by the record store and the
// CLI. Dates are plain YYYY-MM-DD strings throughout the system.
package calendar

import "time"

// DateLayout is the only accepted date format.
const DateLayout = "2006-01-02"

const (
	minYear = 1900
	maxYear = 2100
)

// Clock returns the current instant. Tests substitute a fixed clock.
type Clock func() time.Time

// SystemClock is the wall clock.
func SystemClock() time.Time { return time.Now() }

// IsValidDate reports whether s is a real calendar date in strict YYYY-MM-DD
// form with a year between 1900 and 2100. Month lengths and leap years are
// enforced by time.Parse.
func IsValidDate(s string) bool {
	if len(s) != len(DateLayout) {
		return false
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return false
	}
	return t.Year() >= minYear && t.Year() <= maxYear
}

// Today formats the local date of now as YYYY-MM-DD.
func Today(now time.Time) string {
	return now.Local().Format(DateLayout)
}
