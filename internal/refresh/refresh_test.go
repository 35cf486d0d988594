package refresh

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeTarget struct {
	mu        sync.Mutex
	markers   map[time.Time]int
	rollovers int
}

func (f *fakeTarget) Range() (time.Time, time.Time) {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
}

func (f *fakeTarget) SetMarkers(m map[time.Time]int) {
	f.mu.Lock()
	f.markers = m
	f.mu.Unlock()
}

func (f *fakeTarget) Rollover() {
	f.mu.Lock()
	f.rollovers++
	f.mu.Unlock()
}

func TestNewRejectsBadSchedule(t *testing.T) {
	if _, err := New(&fakeTarget{}, nil, "every minute", time.UTC); err == nil {
		t.Fatalf("expected error for invalid schedule")
	}
}

func TestRefreshNowAppliesMarkers(t *testing.T) {
	target := &fakeTarget{}
	var gotFrom, gotTo time.Time
	src := MarkerFunc(func(_ context.Context, from, to time.Time) (map[time.Time]int, error) {
		gotFrom, gotTo = from, to
		return map[time.Time]int{from: 3}, nil
	})
	s, err := New(target, src, "*/15 * * * *", time.UTC)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := s.RefreshNow(context.Background()); err != nil {
		t.Fatalf("RefreshNow returned error: %v", err)
	}
	if gotFrom.Day() != 1 || gotTo.Day() != 31 {
		t.Fatalf("unexpected range %s..%s", gotFrom, gotTo)
	}
	if target.markers[gotFrom] != 3 {
		t.Fatalf("markers not applied: %v", target.markers)
	}
}

func TestRefreshNowKeepsMarkersOnError(t *testing.T) {
	target := &fakeTarget{markers: map[time.Time]int{{}: 1}}
	src := MarkerFunc(func(context.Context, time.Time, time.Time) (map[time.Time]int, error) {
		return nil, errors.New("feed down")
	})
	s, err := New(target, src, "@hourly", time.UTC)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := s.RefreshNow(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if len(target.markers) != 1 {
		t.Fatalf("previous markers should be kept")
	}
}

func TestRunStopsWithContext(t *testing.T) {
	target := &fakeTarget{}
	loaded := make(chan struct{}, 1)
	src := MarkerFunc(func(context.Context, time.Time, time.Time) (map[time.Time]int, error) {
		select {
		case loaded <- struct{}{}:
		default:
		}
		return map[time.Time]int{}, nil
	})
	s, err := New(target, src, "@hourly", time.UTC)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	select {
	case <-loaded:
	case <-time.After(2 * time.Second):
		t.Fatalf("initial refresh did not run")
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Run did not stop")
	}
}

func TestTriggerRefreshesWhileRunning(t *testing.T) {
	target := &fakeTarget{}
	calls := make(chan struct{}, 4)
	src := MarkerFunc(func(context.Context, time.Time, time.Time) (map[time.Time]int, error) {
		calls <- struct{}{}
		return map[time.Time]int{}, nil
	})
	s, err := New(target, src, "@hourly", time.UTC)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = s.Run(ctx) }()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("initial refresh did not run")
	}
	s.Trigger()
	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatalf("triggered refresh did not run")
	}
}

func TestTriggerDoesNotBlockWithoutRun(t *testing.T) {
	s, err := New(&fakeTarget{}, nil, "@hourly", time.UTC)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	done := make(chan struct{})
	go func() {
		s.Trigger()
		s.Trigger()
		s.Trigger()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatalf("Trigger blocked")
	}
}
