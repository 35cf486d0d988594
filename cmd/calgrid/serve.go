package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/cobra"

	"calgrid/internal/config"
	"calgrid/internal/grid"
	"calgrid/internal/ics"
	appLog "calgrid/internal/log"
	"calgrid/internal/refresh"
	"calgrid/internal/web"
)

func addServe(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calendar widget over HTTP and keep its event markers fresh.",
		Example: `
calgrid serve --config /etc/calgrid/config.yaml
calgrid serve --listen 0.0.0.0:8080 --granularity week
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(ro.configPath)
			if err != nil {
				if cfg == nil {
					return err
				}
				appLog.Warn("using default config", "config_path", ro.configPath, "reason", err.Error())
			}
			ro.applyLogLevel(cfg)
			if err := vo.apply(cmd, cfg); err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, ro.configPath, cfg, vo)
		},
	}

	addViewFlags(cmd, vo)
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config if set)")
	topLevel.AddCommand(cmd)
}

// logDelegate reports widget callbacks at debug level.
type logDelegate struct{}

func (logDelegate) DidChangeDate(d time.Time)  { appLog.Debug("date changed", "date", grid.FormatDate(d)) }
func (logDelegate) WillChangeDate(d time.Time) { appLog.Debug("date will change", "date", grid.FormatDate(d)) }
func (logDelegate) DidSelect(d time.Time)      { appLog.Debug("day selected", "date", grid.FormatDate(d)) }
func (logDelegate) DidDeselect(d time.Time)    { appLog.Debug("day deselected", "date", grid.FormatDate(d)) }

// markerLoader swaps its ICS loader when the config changes.
type markerLoader struct {
	mu      sync.Mutex
	fetcher *ics.Fetcher
	loader  *ics.Loader
}

func newMarkerLoader(cfg *config.Config, loc *time.Location) *markerLoader {
	f := ics.NewFetcher(cfg.CacheDir, nil)
	return &markerLoader{
		fetcher: f,
		loader:  &ics.Loader{Fetcher: f, Sources: cfg.Sources(), Location: loc},
	}
}

func (m *markerLoader) update(cfg *config.Config, loc *time.Location) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loader = &ics.Loader{Fetcher: m.fetcher, Sources: cfg.Sources(), Location: loc}
}

func (m *markerLoader) Load(ctx context.Context, from, to time.Time) (map[time.Time]int, error) {
	m.mu.Lock()
	l := m.loader
	m.mu.Unlock()
	if len(l.Sources) == 0 {
		return nil, nil
	}
	markers, err := l.Load(ctx, from, to)
	if err != nil {
		return nil, err
	}
	return markers, nil
}

func serve(ctx context.Context, configPath string, cfg *config.Config, vo *viewOptions) error {
	cal, err := cfg.Calendar()
	if err != nil {
		return err
	}
	view, err := vo.newView(cfg, logDelegate{})
	if err != nil {
		return err
	}

	appLog.Info("calgrid starting",
		"version", version,
		"listen", cfg.Listen,
		"timezone", cfg.Timezone,
		"week_start", cfg.WeekStart,
		"granularity", cfg.Granularity,
		"radius", cfg.Radius,
		"ics_count", len(cfg.ICS),
	)

	srv := web.NewServer(view, cfg.BasicAuth)
	srv.SetRateLimit(cfg.RateLimit)
	markers := newMarkerLoader(cfg, cal.Location)
	sched, err := refresh.New(srv, markers, cfg.RefreshCron, cal.Location)
	if err != nil {
		return err
	}
	srv.OnWindowChange(func(from, to time.Time) {
		appLog.Debug("window moved, refreshing markers", "from", grid.FormatDate(from), "to", grid.FormatDate(to))
		sched.Trigger()
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := sched.Run(ctx); err != nil {
			appLog.Error("refresh scheduler stopped", err)
		}
	}()
	go func() {
		defer wg.Done()
		err := config.Watch(ctx, configPath, func(next *config.Config) {
			if err := vo.overlay(next); err != nil {
				appLog.Error("reloaded config rejected", err, "config_path", configPath)
				return
			}
			srv.ApplyConfig(next)
			if nextCal, err := next.Calendar(); err == nil {
				markers.update(next, nextCal.Location)
			}
			if err := sched.RefreshNow(ctx); err != nil {
				appLog.Error("marker refresh after reload failed", err)
			}
		})
		if err != nil {
			appLog.Error("config watcher stopped", err, "config_path", configPath)
		}
	}()

	ln, err := net.Listen("tcp", cfg.Listen)
	if err != nil {
		cancel()
		wg.Wait()
		return err
	}
	notifySystemd(daemon.SdNotifyReady)
	err = srv.ServeListener(ctx, ln)
	notifySystemd(daemon.SdNotifyStopping)
	cancel()
	wg.Wait()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	appLog.Info("calgrid exiting")
	return nil
}

// notifySystemd reports service state when running under systemd with
// Type=notify; outside systemd it does nothing.
func notifySystemd(state string) {
	if ok, err := daemon.SdNotify(false, state); err != nil {
		appLog.Warn("systemd notify failed", "state", state, "reason", err.Error())
	} else if ok {
		appLog.Debug("systemd notified", "state", state)
	}
}
