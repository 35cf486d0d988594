package grid

import (
	"fmt"
	"time"
)

const daysPerWeek = 7

// Supported calendar range. Arithmetic outside of it is a programming error.
const (
	minYear = 1
	maxYear = 9999
)

// Date returns the civil date y-m-d as midnight UTC. Every date produced by
// this package uses that representation so that equality, map keys and day
// arithmetic are free of time zone and DST effects.
func Date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("grid: invalid date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders a civil date as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// FirstOfMonth returns the first civil day of d's month.
func FirstOfMonth(d time.Time) time.Time {
	return Date(d.Year(), d.Month(), 1)
}

// AddDays shifts a civil date by n days.
func AddDays(d time.Time, n int) time.Time {
	return d.AddDate(0, 0, n)
}

// SameDay reports whether a and b fall on the same civil date.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

func monthIndex(d time.Time) int {
	return d.Year()*12 + int(d.Month()) - 1
}

// mustInRange panics when d is outside the supported calendar range. Callers
// never construct such dates, so there is no recoverable path.
func mustInRange(d time.Time) {
	if y := d.Year(); y < minYear || y > maxYear {
		panic(fmt.Sprintf("grid: date %s outside supported range %04d..%04d", d.Format(time.RFC3339), minYear, maxYear))
	}
}
