package model

import "time"

// Occurrence is a single concrete instance of a calendar event after
// recurrence expansion, normalized to the display timezone.
type Occurrence struct {
	SourceID string // feed ID from config
	UID      string // iCalendar UID

	// InstanceKey identifies one occurrence of a recurring event; it is the
	// local start time in RFC 3339.
	InstanceKey string

	Summary  string
	Location string

	AllDay bool

	Start time.Time
	End   time.Time
}

// Days returns the civil dates (midnight UTC) the occurrence covers in loc.
// End is exclusive, so an all-day event ending at the next midnight covers
// one day and a zero-length event covers its start day.
func (o Occurrence) Days(loc *time.Location) []time.Time {
	if loc == nil {
		loc = time.Local
	}
	start := o.Start.In(loc)
	end := o.End.In(loc)
	first := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	if !end.After(start) {
		return []time.Time{first}
	}
	// Step back one nanosecond so an exclusive midnight end does not count.
	end = end.Add(-time.Nanosecond)
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)

	var out []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		out = append(out, d)
	}
	return out
}
