package grid

import (
	"errors"
	"fmt"
	"time"
)

// DefaultRadius is the number of pages kept on each side of the center page.
const DefaultRadius = 3

var (
	ErrInvalidRadius      = errors.New("grid: window radius must be positive")
	ErrInvalidGranularity = errors.New("grid: unknown granularity")
)

// MonthPage builds the page for the month containing date. Leading days
// fill the first row back to the week start; trailing days are always
// 7 - (count mod 7), so a month already ending on a week boundary still gets
// one full trailing week.
func MonthPage(cal Calendar, date time.Time) Page {
	d := cal.Truncate(date)
	mustInRange(d)

	first := FirstOfMonth(d)
	leading := cal.LeadingCount(first.Weekday())
	current := DaysIn(first.Year(), first.Month())
	trailing := daysPerWeek - (leading+current)%daysPerWeek

	total := leading + current + trailing
	start := AddDays(first, -leading)
	days := make([]Day, 0, total)
	for i := 0; i < total; i++ {
		role := RoleCurrent
		switch {
		case i < leading:
			role = RolePrevious
		case i >= leading+current:
			role = RoleNext
		}
		days = append(days, Day{Date: AddDays(start, i), Role: role})
	}

	return Page{
		Granularity: Month,
		Start:       first,
		Days:        days,
	}
}

// WeekPage builds the page for the week containing date. Days outside
// date's month are tagged previous or next depending on which side of it
// they fall, so a week can carry all three roles.
func WeekPage(cal Calendar, date time.Time) Page {
	d := cal.Truncate(date)
	mustInRange(d)

	start := cal.WeekStartOf(d)
	year, week := cal.WeekOf(d)
	ref := monthIndex(d)

	days := make([]Day, 0, daysPerWeek)
	for i := 0; i < daysPerWeek; i++ {
		day := AddDays(start, i)
		role := RoleCurrent
		switch m := monthIndex(day); {
		case m < ref:
			role = RolePrevious
		case m > ref:
			role = RoleNext
		}
		days = append(days, Day{Date: day, Role: role})
	}

	return Page{
		Granularity: Week,
		Start:       start,
		Year:        year,
		Week:        week,
		Days:        days,
	}
}

// PageFor builds the page of granularity g containing date.
func PageFor(cal Calendar, g Granularity, date time.Time) Page {
	if g == Week {
		return WeekPage(cal, date)
	}
	return MonthPage(cal, date)
}

// Shift moves date by n periods. Month shifts clamp the day of month to the
// target month's length, so January 31st plus one month is the last day of
// February rather than a day in March.
func Shift(date time.Time, g Granularity, n int) time.Time {
	date = Date(date.Year(), date.Month(), date.Day())
	var out time.Time
	switch g {
	case Week:
		out = AddDays(date, n*daysPerWeek)
	default:
		target := FirstOfMonth(date).AddDate(0, n, 0)
		day := min(date.Day(), DaysIn(target.Year(), target.Month()))
		out = Date(target.Year(), target.Month(), day)
	}
	mustInRange(out)
	return out
}

// Options configures a Generator.
type Options struct {
	Calendar    Calendar
	Granularity Granularity
	Radius      int
}

// Generator produces windows for a fixed calendar, granularity and radius.
// It holds no mutable state and is safe for concurrent use.
type Generator struct {
	opts Options
}

// NewGenerator validates opts and returns a Generator.
func NewGenerator(opts Options) (*Generator, error) {
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidRadius, opts.Radius)
	}
	if !opts.Granularity.valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGranularity, int(opts.Granularity))
	}
	return &Generator{opts: opts}, nil
}

// Options returns the generator's configuration.
func (g *Generator) Options() Options {
	return g.opts
}

// Window builds the 2*Radius+1 pages centered on the page containing date.
func (g *Generator) Window(date time.Time) Window {
	cal := g.opts.Calendar
	gran := g.opts.Granularity
	r := g.opts.Radius
	d := cal.Truncate(date)

	pages := make([]Page, 2*r+1)
	pages[r] = PageFor(cal, gran, d)
	for i := 1; i <= r; i++ {
		pages[r-i] = PageFor(cal, gran, Shift(d, gran, -i))
		pages[r+i] = PageFor(cal, gran, Shift(d, gran, i))
	}

	return Window{
		Granularity: gran,
		Radius:      r,
		Reference:   d,
		Pages:       pages,
	}
}

// GenerateWindow is a one-shot helper around NewGenerator and Window.
func GenerateWindow(cal Calendar, date time.Time, g Granularity, radius int) (Window, error) {
	gen, err := NewGenerator(Options{Calendar: cal, Granularity: g, Radius: radius})
	if err != nil {
		return Window{}, err
	}
	return gen.Window(date), nil
}
