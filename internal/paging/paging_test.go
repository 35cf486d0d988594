package paging

import "testing"

func newTracker(t *testing.T) *Tracker {
	t.Helper()
	tr, err := NewTracker(7, 320)
	if err != nil {
		t.Fatalf("NewTracker returned error: %v", err)
	}
	return tr
}

func TestNewTrackerValidation(t *testing.T) {
	if _, err := NewTracker(0, 320); err == nil {
		t.Fatalf("expected error for zero pages")
	}
	if _, err := NewTracker(7, 0); err == nil {
		t.Fatalf("expected error for zero width")
	}
}

func TestIndexRounds(t *testing.T) {
	tr := newTracker(t)
	tests := map[float64]int{0: 0, 159: 0, 161: 1, 960: 3, 1119: 3, 1121: 4}
	for off, want := range tests {
		if got := tr.Index(off); got != want {
			t.Fatalf("Index(%v): expected %d, got %d", off, want, got)
		}
	}
}

func TestScroll(t *testing.T) {
	tr := newTracker(t)
	tests := []struct {
		offset float64
		want   Event
	}{
		{-101, Event{Kind: Boundary, Index: 0}},
		{-50, Event{Kind: WillChange, Index: 0}},
		{1000, Event{Kind: WillChange, Index: 3}},
		{7*320 + 1, Event{Kind: Boundary, Index: 6}},
		{7 * 320, Event{Kind: WillChange, Index: 6}},
	}
	for _, tt := range tests {
		if got := tr.Scroll(tt.offset); got != tt.want {
			t.Fatalf("Scroll(%v): expected %+v, got %+v", tt.offset, tt.want, got)
		}
	}
}

func TestDragToNextPage(t *testing.T) {
	tr := newTracker(t)
	tr.BeginDrag(tr.CenterOffset())
	target := tr.EndDrag(tr.CenterOffset()+200, 0)
	if target != 4*320 {
		t.Fatalf("expected snap to page 4, got offset %v", target)
	}
	ev, ok := tr.Settle()
	if !ok || ev.Kind != DidChange || ev.Index != 4 {
		t.Fatalf("expected did_change to 4, got %+v %v", ev, ok)
	}
}

func TestFlickWithinSamePage(t *testing.T) {
	tr := newTracker(t)
	tr.BeginDrag(960)
	if target := tr.EndDrag(900, -0.5); target != 2*320 {
		t.Fatalf("expected flick to previous page, got offset %v", target)
	}
	if ev, ok := tr.Settle(); !ok || ev.Index != 2 {
		t.Fatalf("expected did_change to 2, got %+v %v", ev, ok)
	}
}

func TestNoChangeWithoutMovement(t *testing.T) {
	tr := newTracker(t)
	tr.BeginDrag(960)
	if target := tr.EndDrag(1000, 0); target != 960 {
		t.Fatalf("expected snap back to 960, got %v", target)
	}
	if _, ok := tr.Settle(); ok {
		t.Fatalf("expected no event")
	}
}

func TestFlickAtEdgeStaysInBounds(t *testing.T) {
	tr := newTracker(t)
	tr.BeginDrag(6 * 320)
	if target := tr.EndDrag(6*320, 2); target != 6*320 {
		t.Fatalf("expected to stay on last page, got %v", target)
	}
	if _, ok := tr.Settle(); ok {
		t.Fatalf("expected no event")
	}
}
