package grid

import (
	"fmt"
	"strings"
	"time"
)

// WeekStart selects the weekday shown in the first grid column.
type WeekStart int

const (
	Monday WeekStart = iota
	Sunday
)

func (w WeekStart) String() string {
	if w == Sunday {
		return "sunday"
	}
	return "monday"
}

// ParseWeekStart accepts "monday" or "sunday" (case-insensitive).
func ParseWeekStart(s string) (WeekStart, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monday", "mon":
		return Monday, nil
	case "sunday", "sun":
		return Sunday, nil
	default:
		return Monday, fmt.Errorf("grid: unknown week start %q", s)
	}
}

// Calendar is the immutable calendar configuration threaded through every
// generator call.
type Calendar struct {
	// Location converts instants such as "now" to civil dates.
	// Nil means UTC.
	Location  *time.Location
	WeekStart WeekStart
	Locale    Locale
}

// DefaultCalendar returns a UTC, Monday-first, English calendar.
func DefaultCalendar() Calendar {
	return Calendar{
		Location:  time.UTC,
		WeekStart: Monday,
		Locale:    English,
	}
}

// Truncate drops the time of day, keeping the civil date of t's own wall
// clock. Truncating an already truncated date is a no-op.
func (c Calendar) Truncate(t time.Time) time.Time {
	return Date(t.Year(), t.Month(), t.Day())
}

// Today converts an instant to the civil date it falls on in c.Location.
func (c Calendar) Today(now time.Time) time.Time {
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return c.Truncate(now.In(loc))
}

// LeadingCount returns how many grid columns precede a day with weekday wd.
//
// Monday-first maps Sunday to 6 and every other weekday to wd-1.
// Sunday-first uses the Go weekday number unchanged.
func (c Calendar) LeadingCount(wd time.Weekday) int {
	if c.WeekStart == Sunday {
		return int(wd)
	}
	if wd == time.Sunday {
		return 6
	}
	return int(wd) - 1
}

// WeekStartOf returns the first day of the week containing d.
func (c Calendar) WeekStartOf(d time.Time) time.Time {
	d = c.Truncate(d)
	return AddDays(d, -c.LeadingCount(d.Weekday()))
}

// WeekOf returns the week-of-year and the year that week belongs to.
//
// Monday-first weeks follow ISO 8601. Sunday-first weeks belong to the year
// of their Saturday, so the week containing January 1st is always week 1.
func (c Calendar) WeekOf(d time.Time) (year, week int) {
	d = c.Truncate(d)
	if c.WeekStart == Monday {
		return d.ISOWeek()
	}
	sat := AddDays(c.WeekStartOf(d), daysPerWeek-1)
	return sat.Year(), (sat.YearDay()-1)/daysPerWeek + 1
}

// Symbols returns the locale's weekday symbols in display order.
func (c Calendar) Symbols(style SymbolStyle) []string {
	return WeekdaySymbols(c.Locale.weekdays(style), c.WeekStart == Sunday)
}

// MonthName returns the locale's name for m.
func (c Calendar) MonthName(m time.Month) string {
	return c.Locale.MonthName(m)
}

// WeekdaySymbols reorders a Sunday-first symbol list for display. When
// sundayFirst is false the list is rotated left by one so it starts on
// Monday. The input is not modified.
func WeekdaySymbols(native []string, sundayFirst bool) []string {
	out := make([]string, 0, len(native))
	if sundayFirst || len(native) == 0 {
		return append(out, native...)
	}
	out = append(out, native[1:]...)
	return append(out, native[0])
}
