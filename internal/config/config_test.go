package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mitchellh/go-homedir"

	"calgrid/internal/grid"
)

func TestLoadCreatesDefaultFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Radius != grid.DefaultRadius || cfg.WeekStart != "monday" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("expected config file to be created: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Fatalf("expected 0600 permissions, got %o", perm)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := DefaultConfig()
	cfg.WeekStart = "sunday"
	cfg.Granularity = "week"
	cfg.Radius = 5
	cfg.Locale = "ko"
	cfg.ICS = []ICSConfig{{URL: "https://example.com/a.ics", Name: "Work"}}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got.WeekStart != "sunday" || got.Granularity != "week" || got.Radius != 5 || got.Locale != "ko" {
		t.Fatalf("unexpected config after round trip: %+v", got)
	}
	srcs := got.Sources()
	if len(srcs) != 1 || srcs[0].ID != "Work" {
		t.Fatalf("expected one source named Work, got %+v", srcs)
	}
}

func TestParseNormalizesUnknownWeekStart(t *testing.T) {
	cfg, err := Parse([]byte("week_start: friday\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if cfg.WeekStart != "monday" {
		t.Fatalf("expected monday, got %s", cfg.WeekStart)
	}
	if !cfg.MultiSelectEnabled() {
		t.Fatalf("expected multi select by default")
	}
	if cfg.Radius != grid.DefaultRadius {
		t.Fatalf("expected default radius, got %d", cfg.Radius)
	}
}

func TestParseRejectsInvalidSettings(t *testing.T) {
	tests := map[string]string{
		"radius":      "radius: 0\n",
		"granularity": "granularity: year\n",
		"timezone":    "timezone: Mars/Olympus\n",
		"locale":      "locale: xx\n",
		"cron":        "refresh: every now and then\n",
		"rate_limit":  "rate_limit: -1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse([]byte(data)); err == nil {
				t.Fatalf("expected error for %q", data)
			}
		})
	}
}

func TestParseExpandsHomeCacheDir(t *testing.T) {
	home, err := homedir.Dir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	cfg, err := Parse([]byte("cache_dir: ~/calgrid-cache\n"))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}
	if want := filepath.Join(home, "calgrid-cache"); cfg.CacheDir != want {
		t.Fatalf("CacheDir = %q, want %q", cfg.CacheDir, want)
	}
}

func TestCalendar(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Timezone = "Asia/Seoul"
	cfg.WeekStart = "sunday"
	cal, err := cfg.Calendar()
	if err != nil {
		t.Fatalf("Calendar returned error: %v", err)
	}
	if cal.WeekStart != grid.Sunday || cal.Location.String() != "Asia/Seoul" || cal.Locale.Name != "en" {
		t.Fatalf("unexpected calendar: %+v", cal)
	}
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c *Config) { got <- c }) }()

	// Give the watcher a moment to register the directory.
	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(path, []byte("radius: 2\nweek_start: sunday\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	select {
	case c := <-got:
		if c.Radius != 2 || c.WeekStart != "sunday" {
			t.Fatalf("unexpected reloaded config: %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}

func TestWatchIgnoresRenamedAwayFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := Save(path, DefaultConfig()); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	got := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() { done <- Watch(ctx, path, func(c *Config) { got <- c }) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.Rename(path, filepath.Join(dir, "config.bak")); err != nil {
		t.Fatalf("rename config: %v", err)
	}

	select {
	case c := <-got:
		t.Fatalf("renamed-away config produced a reload: %+v", c)
	case <-time.After(time.Second):
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("watcher recreated %s (stat err %v)", path, err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
}
