// Package widget is the headless calendar view: it owns the reference date,
// the selection and the current window, and reports changes to a Delegate.
// A View is not safe for concurrent use; hosts serialize access.
package widget

import (
	"errors"
	"fmt"
	"time"

	"calgrid/internal/grid"
	appLog "calgrid/internal/log"
	"calgrid/internal/paging"
	"calgrid/internal/selection"
)

// DefaultPageWidth is the page width assumed until the host reports one.
const DefaultPageWidth = 320

// Delegate receives view notifications. All methods are called
// synchronously from the goroutine driving the View.
type Delegate interface {
	DidChangeDate(date time.Time)
	WillChangeDate(date time.Time)
	DidSelect(day time.Time)
	DidDeselect(day time.Time)
}

// NopDelegate ignores every notification.
type NopDelegate struct{}

func (NopDelegate) DidChangeDate(time.Time)  {}
func (NopDelegate) WillChangeDate(time.Time) {}
func (NopDelegate) DidSelect(time.Time)      {}
func (NopDelegate) DidDeselect(time.Time)    {}

// Options configures a View.
type Options struct {
	Calendar    grid.Calendar
	Granularity grid.Granularity
	// Radius must be positive; use grid.DefaultRadius for the usual three
	// pages on each side.
	Radius int
	// MultiSelect makes Tap toggle days. When false a tap replaces the
	// selection with the tapped day.
	MultiSelect bool
	// Date is the initial reference date; zero means today.
	Date      time.Time
	Delegate  Delegate
	Now       func() time.Time
	PageWidth float64
}

// View is the calendar widget state.
type View struct {
	cal         grid.Calendar
	granularity grid.Granularity
	radius      int
	multiSelect bool
	delegate    Delegate
	now         func() time.Time
	pageWidth   float64

	date     time.Time
	window   grid.Window
	selected selection.Set
	markers  map[time.Time]int
	tracker  *paging.Tracker
	// crossed latches the first boundary crossing of the current drag.
	crossed bool
}

// New validates opts and builds the initial window.
func New(opts Options) (*View, error) {
	if opts.Delegate == nil {
		opts.Delegate = NopDelegate{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.PageWidth == 0 {
		opts.PageWidth = DefaultPageWidth
	}
	if opts.PageWidth < 0 {
		return nil, errors.New("widget: page width must be positive")
	}

	v := &View{
		cal:         opts.Calendar,
		granularity: opts.Granularity,
		radius:      opts.Radius,
		multiSelect: opts.MultiSelect,
		delegate:    opts.Delegate,
		now:         opts.Now,
		pageWidth:   opts.PageWidth,
	}
	v.date = v.today()
	if !opts.Date.IsZero() {
		v.date = v.cal.Truncate(opts.Date)
	}
	if err := v.rebuild(); err != nil {
		return nil, err
	}
	return v, nil
}

func (v *View) today() time.Time {
	return v.cal.Today(v.now())
}

// rebuild regenerates the window from scratch for the current settings.
func (v *View) rebuild() error {
	gen, err := grid.NewGenerator(grid.Options{
		Calendar:    v.cal,
		Granularity: v.granularity,
		Radius:      v.radius,
	})
	if err != nil {
		return fmt.Errorf("widget: %w", err)
	}
	tracker, err := paging.NewTracker(2*v.radius+1, v.pageWidth)
	if err != nil {
		return fmt.Errorf("widget: %w", err)
	}
	v.window = gen.Window(v.date)
	v.tracker = tracker
	appLog.Debug("window regenerated",
		"date", grid.FormatDate(v.date),
		"granularity", v.granularity.String(),
		"radius", v.radius,
	)
	return nil
}

// Date returns the reference date.
func (v *View) Date() time.Time { return v.date }

// Window returns the current window.
func (v *View) Window() grid.Window { return v.window }

// Granularity returns the active page period.
func (v *View) Granularity() grid.Granularity { return v.granularity }

// Radius returns the number of pages on each side of the current page.
func (v *View) Radius() int { return v.radius }

// Calendar returns the active calendar configuration.
func (v *View) Calendar() grid.Calendar { return v.cal }

// MultiSelect reports whether taps toggle days.
func (v *View) MultiSelect() bool { return v.multiSelect }

// SetMultiSelect switches tap behavior.
func (v *View) SetMultiSelect(on bool) { v.multiSelect = on }

// ChangeTo recenters the window on date and notifies the delegate.
func (v *View) ChangeTo(date time.Time) {
	v.date = v.cal.Truncate(date)
	v.mustRebuild()
	v.delegate.DidChangeDate(v.date)
}

// Next moves one period forward.
func (v *View) Next() {
	v.ChangeTo(grid.Shift(v.date, v.granularity, 1))
}

// Previous moves one period back.
func (v *View) Previous() {
	v.ChangeTo(grid.Shift(v.date, v.granularity, -1))
}

// Today recenters on the current date.
func (v *View) Today() {
	v.ChangeTo(v.today())
}

// Rollover follows a change of calendar day. A view still on the previous
// day moves to the new today; any other reference date is kept and the
// window regenerated.
func (v *View) Rollover() {
	today := v.today()
	if grid.SameDay(grid.AddDays(v.date, 1), today) {
		v.ChangeTo(today)
		return
	}
	v.mustRebuild()
}

// SetGranularity switches between month and week pages.
func (v *View) SetGranularity(g grid.Granularity) error {
	prev := v.granularity
	v.granularity = g
	if err := v.rebuild(); err != nil {
		v.granularity = prev
		return err
	}
	return nil
}

// SetRadius changes the number of pages kept on each side.
func (v *View) SetRadius(n int) error {
	prev := v.radius
	v.radius = n
	if err := v.rebuild(); err != nil {
		v.radius = prev
		return err
	}
	return nil
}

// SetCalendar swaps the calendar configuration, e.g. a new week start.
func (v *View) SetCalendar(cal grid.Calendar) {
	v.cal = cal
	v.mustRebuild()
}

// SetPageWidth updates the page width used for scroll resolution.
func (v *View) SetPageWidth(w float64) error {
	prev := v.pageWidth
	v.pageWidth = w
	if err := v.rebuild(); err != nil {
		v.pageWidth = prev
		return err
	}
	return nil
}

// mustRebuild is used where the settings were already validated.
func (v *View) mustRebuild() {
	if err := v.rebuild(); err != nil {
		panic(err)
	}
}

// SetMarkers replaces the per-day event counts shown on cells.
func (v *View) SetMarkers(m map[time.Time]int) {
	v.markers = m
}

// Selected returns the selected days in chronological order.
func (v *View) Selected() []time.Time {
	return v.selected.Days()
}

// IsSelected reports whether day is selected.
func (v *View) IsSelected(day time.Time) bool {
	return v.selected.Contains(day)
}

// Select adds day to the selection. Selecting a selected day does nothing.
func (v *View) Select(day time.Time) {
	v.selected.Add(v.cal.Truncate(day))
}

// SelectDates replaces the selection, reporting a deselect for each day
// that was selected before.
func (v *View) SelectDates(days ...time.Time) {
	norm := make([]time.Time, 0, len(days))
	for _, d := range days {
		norm = append(norm, v.cal.Truncate(d))
	}
	for _, d := range v.selected.Replace(norm...) {
		v.delegate.DidDeselect(d)
	}
}

// Deselect removes day from the selection.
func (v *View) Deselect(day time.Time) {
	v.selected.Remove(v.cal.Truncate(day))
}

// ClearSelection deselects every day.
func (v *View) ClearSelection() {
	v.SelectDates()
}

// Tap handles a tap on day. In multi-select mode it toggles the day; in
// single-select mode it makes day the only selected day, and tapping the
// only selected day again changes nothing.
func (v *View) Tap(day time.Time) {
	day = v.cal.Truncate(day)
	if !v.multiSelect {
		if v.selected.Len() == 1 && v.selected.Contains(day) {
			return
		}
		v.SelectDates(day)
		v.delegate.DidSelect(day)
		return
	}
	if v.selected.Contains(day) {
		v.selected.Remove(day)
		v.delegate.DidDeselect(day)
		return
	}
	v.selected.Add(day)
	v.delegate.DidSelect(day)
}
