package grid

import (
	"fmt"
	"strings"
	"time"
)

// Role tags a day relative to the page it appears on.
type Role int

const (
	RolePrevious Role = iota
	RoleCurrent
	RoleNext
)

func (r Role) String() string {
	switch r {
	case RolePrevious:
		return "previous"
	case RoleNext:
		return "next"
	default:
		return "current"
	}
}

// MarshalText encodes the role as its name.
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText parses a role name.
func (r *Role) UnmarshalText(b []byte) error {
	switch string(b) {
	case "previous":
		*r = RolePrevious
	case "current":
		*r = RoleCurrent
	case "next":
		*r = RoleNext
	default:
		return fmt.Errorf("grid: unknown role %q", b)
	}
	return nil
}

// Day is a single civil date placed on a page.
type Day struct {
	Date time.Time
	Role Role
}

// Granularity is the period a page covers.
type Granularity int

const (
	Month Granularity = iota
	Week
)

func (g Granularity) String() string {
	if g == Week {
		return "week"
	}
	return "month"
}

// MarshalText encodes the granularity as its name.
func (g Granularity) MarshalText() ([]byte, error) {
	return []byte(g.String()), nil
}

// UnmarshalText parses "month" or "week".
func (g *Granularity) UnmarshalText(b []byte) error {
	v, err := ParseGranularity(string(b))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseGranularity accepts "month" or "week" (case-insensitive).
func ParseGranularity(s string) (Granularity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "month":
		return Month, nil
	case "week":
		return Week, nil
	default:
		return Month, fmt.Errorf("%w: %q", ErrInvalidGranularity, s)
	}
}

func (g Granularity) valid() bool {
	return g == Month || g == Week
}

// Page is one screen of days padded to whole weeks.
type Page struct {
	Granularity Granularity
	// Start is the first day of the period: the first of the month for
	// month pages, the first day of the week for week pages.
	Start time.Time
	// Year and Week identify week pages (week-of-year numbering of the
	// calendar); both are zero for month pages.
	Year int
	Week int
	Days []Day
}

// Previous returns the leading days borrowed from the preceding period.
func (p Page) Previous() []Day { return p.byRole(RolePrevious) }

// Current returns the days of the page's own period.
func (p Page) Current() []Day { return p.byRole(RoleCurrent) }

// Next returns the trailing days borrowed from the following period.
func (p Page) Next() []Day { return p.byRole(RoleNext) }

func (p Page) byRole(r Role) []Day {
	out := make([]Day, 0, len(p.Days))
	for _, d := range p.Days {
		if d.Role == r {
			out = append(out, d)
		}
	}
	return out
}

// FirstCurrent returns the first day in the current role. Every page
// produced by this package has at least one.
func (p Page) FirstCurrent() time.Time {
	for _, d := range p.Days {
		if d.Role == RoleCurrent {
			return d.Date
		}
	}
	return time.Time{}
}

// Contains reports whether date appears on the page in the current role.
func (p Page) Contains(date time.Time) bool {
	for _, d := range p.Days {
		if d.Role == RoleCurrent && SameDay(d.Date, date) {
			return true
		}
	}
	return false
}

// Rows splits the page into 7-day rows.
func (p Page) Rows() [][]Day {
	rows := make([][]Day, 0, (len(p.Days)+daysPerWeek-1)/daysPerWeek)
	for i := 0; i < len(p.Days); i += daysPerWeek {
		end := min(i+daysPerWeek, len(p.Days))
		rows = append(rows, p.Days[i:end])
	}
	return rows
}

// Window is the ordered set of pages kept around the reference date.
type Window struct {
	Granularity Granularity
	Radius      int
	Reference   time.Time
	Pages       []Page
}

// Center returns the page containing the reference date.
func (w Window) Center() Page {
	return w.Pages[w.Radius]
}

// IndexOf returns the index of the page containing date in its current
// role, or -1.
func (w Window) IndexOf(date time.Time) int {
	for i, p := range w.Pages {
		if p.Contains(date) {
			return i
		}
	}
	return -1
}
