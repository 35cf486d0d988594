// Package refresh keeps the widget's event markers and "today" current on a
// cron schedule.
package refresh

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	appLog "calgrid/internal/log"
)

// Target is what the scheduler refreshes. Implementations serialize access
// to the underlying view themselves.
type Target interface {
	// Range returns the first and last day currently displayed.
	Range() (from, to time.Time)
	SetMarkers(m map[time.Time]int)
	// Rollover is called shortly after local midnight.
	Rollover()
}

// MarkerSource loads event counts per day.
type MarkerSource interface {
	Load(ctx context.Context, from, to time.Time) (map[time.Time]int, error)
}

// MarkerFunc adapts a function to MarkerSource.
type MarkerFunc func(ctx context.Context, from, to time.Time) (map[time.Time]int, error)

func (f MarkerFunc) Load(ctx context.Context, from, to time.Time) (map[time.Time]int, error) {
	return f(ctx, from, to)
}

// Scheduler runs the marker refresh and midnight rollover jobs.
type Scheduler struct {
	target  Target
	source  MarkerSource
	spec    string
	loc     *time.Location
	timeout time.Duration
	trigger chan struct{}
}

// New creates a scheduler that refreshes markers on spec (standard 5-field
// cron) in loc.
func New(target Target, source MarkerSource, spec string, loc *time.Location) (*Scheduler, error) {
	if _, err := cron.ParseStandard(spec); err != nil {
		return nil, fmt.Errorf("refresh: invalid schedule %q: %w", spec, err)
	}
	if loc == nil {
		loc = time.Local
	}
	return &Scheduler{
		target:  target,
		source:  source,
		spec:    spec,
		loc:     loc,
		timeout: time.Minute,
		trigger: make(chan struct{}, 1),
	}, nil
}

// Trigger asks a running scheduler for an extra refresh without waiting for
// it. Requests made while one is already pending are coalesced.
func (s *Scheduler) Trigger() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// RefreshNow loads markers for the displayed range and applies them.
func (s *Scheduler) RefreshNow(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	from, to := s.target.Range()
	start := time.Now()
	m, err := s.source.Load(ctx, from, to)
	if err != nil {
		return err
	}
	s.target.SetMarkers(m)
	appLog.Debug("markers refreshed", "days", len(m), "elapsed", time.Since(start))
	return nil
}

// Run refreshes once, then runs the cron jobs and serves Trigger requests
// until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	if err := s.RefreshNow(ctx); err != nil {
		appLog.Error("initial marker refresh failed", err)
	}

	c := cron.New(cron.WithLocation(s.loc))
	if _, err := c.AddFunc(s.spec, func() {
		if err := s.RefreshNow(ctx); err != nil {
			appLog.Error("marker refresh failed", err)
		}
	}); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}
	if _, err := c.AddFunc("@midnight", func() {
		appLog.Info("date rollover")
		s.target.Rollover()
		if err := s.RefreshNow(ctx); err != nil {
			appLog.Error("marker refresh after rollover failed", err)
		}
	}); err != nil {
		return fmt.Errorf("refresh: %w", err)
	}

	c.Start()
	appLog.Info("refresh scheduler started", "schedule", s.spec, "timezone", s.loc.String())
	for {
		select {
		case <-ctx.Done():
			<-c.Stop().Done()
			return nil
		case <-s.trigger:
			if err := s.RefreshNow(ctx); err != nil {
				appLog.Error("triggered marker refresh failed", err)
			}
		}
	}
}
