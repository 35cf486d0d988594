package selection

import (
	"testing"
	"time"

	"calgrid/internal/grid"
)

func TestSetCollapsesDuplicates(t *testing.T) {
	d := grid.Date(2024, time.February, 10)
	s := New(d, d.Add(15*time.Hour))
	if s.Len() != 1 {
		t.Fatalf("expected 1 day, got %d", s.Len())
	}
	if s.Add(d) {
		t.Fatalf("expected Add of an existing day to report false")
	}
	if !s.Contains(d.Add(3 * time.Hour)) {
		t.Fatalf("expected set to contain the day regardless of time of day")
	}
}

func TestSetToggleAndRemove(t *testing.T) {
	var s Set
	d := grid.Date(2024, time.March, 3)
	if !s.Toggle(d) {
		t.Fatalf("expected toggle to select")
	}
	if s.Toggle(d) {
		t.Fatalf("expected toggle to deselect")
	}
	if s.Remove(d) {
		t.Fatalf("expected remove of missing day to report false")
	}
}

func TestReplaceReturnsPreviousDays(t *testing.T) {
	a := grid.Date(2024, time.January, 2)
	b := grid.Date(2024, time.January, 1)
	c := grid.Date(2024, time.May, 5)
	s := New(a, b)
	old := s.Replace(c)
	if len(old) != 2 || !old[0].Equal(b) || !old[1].Equal(a) {
		t.Fatalf("expected previous days in order [%s %s], got %v", grid.FormatDate(b), grid.FormatDate(a), old)
	}
	if s.Len() != 1 || !s.Contains(c) {
		t.Fatalf("expected only %s selected, got %v", grid.FormatDate(c), s.Days())
	}
}

func TestNeighbor(t *testing.T) {
	d := grid.Date(2024, time.February, 28)
	s := New(d)

	tests := []struct {
		day  time.Time
		want Neighbor
	}{
		{grid.AddDays(d, -1), NeighborNext},
		{grid.AddDays(d, 1), NeighborPrevious},
		{d, NeighborNone},
		{grid.AddDays(d, 3), NeighborNone},
	}
	for _, tt := range tests {
		if got := s.Neighbor(tt.day); got != tt.want {
			t.Fatalf("%s: expected %s, got %s", grid.FormatDate(tt.day), tt.want, got)
		}
	}

	s.Add(grid.AddDays(d, 2))
	if got := s.Neighbor(grid.AddDays(d, 1)); got != NeighborBoth {
		t.Fatalf("expected both, got %s", got)
	}
}

func TestNeighborAcrossMonthBoundary(t *testing.T) {
	s := New(grid.Date(2024, time.March, 1))
	if got := s.Neighbor(grid.Date(2024, time.February, 29)); got != NeighborNext {
		t.Fatalf("expected next, got %s", got)
	}
}

func TestNilSetIsEmpty(t *testing.T) {
	var s *Set
	if s.Contains(grid.Date(2024, time.January, 1)) || s.Len() != 0 || s.Days() != nil {
		t.Fatalf("nil set should be empty")
	}
	if s.Neighbor(grid.Date(2024, time.January, 1)) != NeighborNone {
		t.Fatalf("nil set should have no neighbors")
	}
}
