// Package selection tracks the set of user-selected days and derives the
// neighbor state used to draw continuous selection bands.
package selection

import (
	"fmt"
	"slices"
	"time"

	"calgrid/internal/grid"
)

// Neighbor describes which adjacent days of a day are selected.
type Neighbor int

const (
	NeighborNone Neighbor = iota
	// NeighborPrevious: the day before is selected.
	NeighborPrevious
	// NeighborNext: the day after is selected.
	NeighborNext
	NeighborBoth
)

func (n Neighbor) String() string {
	switch n {
	case NeighborPrevious:
		return "previous"
	case NeighborNext:
		return "next"
	case NeighborBoth:
		return "both"
	default:
		return "none"
	}
}

// MarshalText encodes the state as its name.
func (n Neighbor) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *Neighbor) UnmarshalText(b []byte) error {
	switch string(b) {
	case "none":
		*n = NeighborNone
	case "previous":
		*n = NeighborPrevious
	case "next":
		*n = NeighborNext
	case "both":
		*n = NeighborBoth
	default:
		return fmt.Errorf("selection: unknown neighbor state %q", b)
	}
	return nil
}

// Set is a set of civil days. Adding the same day twice keeps one entry;
// instants are reduced to their wall-clock date. The zero value is empty
// and ready to use. Set is not safe for concurrent mutation.
type Set struct {
	days map[time.Time]struct{}
}

// New returns a set holding the given days.
func New(days ...time.Time) *Set {
	s := &Set{}
	for _, d := range days {
		s.Add(d)
	}
	return s
}

func key(d time.Time) time.Time {
	return grid.Date(d.Year(), d.Month(), d.Day())
}

// Add inserts d and reports whether it was not already present.
func (s *Set) Add(d time.Time) bool {
	if s.days == nil {
		s.days = make(map[time.Time]struct{})
	}
	k := key(d)
	if _, ok := s.days[k]; ok {
		return false
	}
	s.days[k] = struct{}{}
	return true
}

// Remove deletes d and reports whether it was present.
func (s *Set) Remove(d time.Time) bool {
	k := key(d)
	if _, ok := s.days[k]; !ok {
		return false
	}
	delete(s.days, k)
	return true
}

// Toggle flips the membership of d and reports whether it is now selected.
func (s *Set) Toggle(d time.Time) bool {
	if s.Remove(d) {
		return false
	}
	s.Add(d)
	return true
}

// Replace swaps the contents for days and returns the days that were
// previously selected, in chronological order.
func (s *Set) Replace(days ...time.Time) []time.Time {
	old := s.Days()
	s.days = nil
	for _, d := range days {
		s.Add(d)
	}
	return old
}

// Contains reports whether d is selected.
func (s *Set) Contains(d time.Time) bool {
	if s == nil {
		return false
	}
	_, ok := s.days[key(d)]
	return ok
}

// Len returns the number of selected days.
func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.days)
}

// Days returns the selected days in chronological order.
func (s *Set) Days() []time.Time {
	if s == nil {
		return nil
	}
	out := make([]time.Time, 0, len(s.days))
	for d := range s.days {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b time.Time) int { return a.Compare(b) })
	return out
}

// Neighbor reports which of d's adjacent days are selected. The state
// depends only on d-1 and d+1; d itself may or may not be selected.
func (s *Set) Neighbor(d time.Time) Neighbor {
	k := key(d)
	prev := s.Contains(grid.AddDays(k, -1))
	next := s.Contains(grid.AddDays(k, 1))
	switch {
	case prev && next:
		return NeighborBoth
	case prev:
		return NeighborPrevious
	case next:
		return NeighborNext
	default:
		return NeighborNone
	}
}
