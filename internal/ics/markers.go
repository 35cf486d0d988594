package ics

import (
	"context"
	"errors"
	"time"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

// Markers counts events per civil day (midnight UTC keys).
type Markers map[time.Time]int

// DayMarkers counts occurrences on every day they cover in loc.
func DayMarkers(occs []model.Occurrence, loc *time.Location) Markers {
	m := make(Markers)
	for _, o := range occs {
		for _, d := range o.Days(loc) {
			m[d]++
		}
	}
	return m
}

// Loader runs the fetch, parse and expand pipeline for a set of feeds.
type Loader struct {
	Fetcher *Fetcher
	Sources []Source
	// Location is the display zone events are bucketed in.
	Location *time.Location
}

// Load returns per-day event counts for days in [from, to]. Individual
// feed failures are logged; Load fails only when every feed failed.
func (l *Loader) Load(ctx context.Context, from, to time.Time) (Markers, error) {
	if len(l.Sources) == 0 {
		return Markers{}, nil
	}
	loc := l.Location
	if loc == nil {
		loc = time.Local
	}

	results, errs := l.Fetcher.FetchAll(ctx, l.Sources)
	if len(results) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	var events []ParsedEvent
	for _, res := range results {
		evs, err := ParseICS(res.Source, res.Body)
		if err != nil {
			appLog.Error("ics parse failed", err, "source", res.Source.ID)
			continue
		}
		events = append(events, evs...)
	}

	rangeStart := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	rangeEnd := time.Date(to.Year(), to.Month(), to.Day()+1, 0, 0, 0, 0, loc)
	expanded, err := ExpandOccurrences(events, ExpandConfig{
		DisplayLocation: loc,
		RangeStart:      rangeStart,
		RangeEnd:        rangeEnd,
	})
	if err != nil {
		return nil, err
	}

	markers := DayMarkers(expanded.Occurrences, loc)
	appLog.Info("event markers loaded",
		"sources", len(l.Sources),
		"failed", len(errs),
		"occurrences", len(expanded.Occurrences),
		"days", len(markers),
	)
	return markers, nil
}
