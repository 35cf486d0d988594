package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
	_ "time/tzdata"

	"github.com/mitchellh/go-homedir"
	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"calgrid/internal/grid"
	"calgrid/internal/ics"
)

// Defaults used for first-run config creation and Normalize.
const (
	DefaultListen      = "127.0.0.1:8080"
	DefaultTimezone    = "UTC"
	DefaultLocale      = "en"
	DefaultWeekStart   = "monday"
	DefaultGranularity = "month"
	DefaultRefreshCron = "*/15 * * * *"
	DefaultCacheDir    = "./var/ics-cache"
	DefaultLogLevel    = "info"
)

// ICSConfig describes a single ICS subscription source.
type ICSConfig struct {
	URL  string `yaml:"url" json:"url"`
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// BasicAuthConfig holds HTTP Basic Auth credentials for the API.
type BasicAuthConfig struct {
	Username string `yaml:"username" json:"username"`
	Password string `yaml:"password" json:"password"`
}

// Config is the top-level application configuration.
type Config struct {
	// Listen is the HTTP listen address.
	Listen string `yaml:"listen" json:"listen"`

	// Timezone is the IANA zone that decides what "today" is.
	Timezone string `yaml:"timezone" json:"timezone"`

	// Locale picks weekday and month names ("en", "ko", "de").
	Locale string `yaml:"locale" json:"locale"`

	// WeekStart is "monday" (default) or "sunday".
	WeekStart string `yaml:"week_start" json:"week_start"`

	// Granularity is the initial page period: "month" (default) or "week".
	Granularity string `yaml:"granularity" json:"granularity"`

	// Radius is the number of pages kept on each side of the current one.
	Radius int `yaml:"radius" json:"radius"`

	// MultiSelect lets taps toggle days in and out of the selection. When
	// false a tap replaces the selection with the tapped day.
	MultiSelect *bool `yaml:"multi_select,omitempty" json:"multi_select,omitempty"`

	// RefreshCron is the cron schedule for reloading event markers.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// CacheDir stores downloaded ICS bodies.
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`

	LogLevel string `yaml:"log_level" json:"log_level"`

	// ICS feeds whose events are shown as day markers.
	ICS []ICSConfig `yaml:"ics" json:"ics"`

	// BasicAuth, if set, protects every endpoint except /health.
	BasicAuth *BasicAuthConfig `yaml:"basic_auth,omitempty" json:"basic_auth,omitempty"`

	// RateLimit caps /api requests per second; 0 disables the limit.
	RateLimit int `yaml:"rate_limit" json:"rate_limit"`
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	multi := true
	return &Config{
		Listen:      DefaultListen,
		Timezone:    DefaultTimezone,
		Locale:      DefaultLocale,
		WeekStart:   DefaultWeekStart,
		Granularity: DefaultGranularity,
		Radius:      grid.DefaultRadius,
		MultiSelect: &multi,
		RefreshCron: DefaultRefreshCron,
		CacheDir:    DefaultCacheDir,
		LogLevel:    DefaultLogLevel,
		ICS:         []ICSConfig{},
	}
}

// Normalize fills in missing values so older or partial files still work.
// Radius is left alone: a non-positive radius in a file is an error, not
// something to paper over.
func (c *Config) Normalize() {
	if c.Listen == "" {
		c.Listen = DefaultListen
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Locale == "" {
		c.Locale = DefaultLocale
	}
	switch c.WeekStart {
	case "monday", "sunday":
	default:
		// Unknown value; monday avoids surprising layouts.
		c.WeekStart = DefaultWeekStart
	}
	if c.Granularity == "" {
		c.Granularity = DefaultGranularity
	}
	if c.MultiSelect == nil {
		multi := true
		c.MultiSelect = &multi
	}
	if c.RefreshCron == "" {
		c.RefreshCron = DefaultRefreshCron
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.ICS == nil {
		c.ICS = []ICSConfig{}
	}
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	if c.Radius <= 0 {
		return fmt.Errorf("config: radius must be positive, got %d", c.Radius)
	}
	if c.RateLimit < 0 {
		return fmt.Errorf("config: rate_limit must not be negative, got %d", c.RateLimit)
	}
	if _, err := grid.ParseGranularity(c.Granularity); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	if _, ok := grid.LookupLocale(c.Locale); !ok {
		return fmt.Errorf("config: unknown locale %q", c.Locale)
	}
	if _, err := cron.ParseStandard(c.RefreshCron); err != nil {
		return fmt.Errorf("config: refresh %q: %w", c.RefreshCron, err)
	}
	return nil
}

// Calendar builds the grid calendar configuration described by c.
func (c *Config) Calendar() (grid.Calendar, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return grid.Calendar{}, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	ws, err := grid.ParseWeekStart(c.WeekStart)
	if err != nil {
		return grid.Calendar{}, err
	}
	locale, ok := grid.LookupLocale(c.Locale)
	if !ok {
		return grid.Calendar{}, fmt.Errorf("config: unknown locale %q", c.Locale)
	}
	return grid.Calendar{Location: loc, WeekStart: ws, Locale: locale}, nil
}

// GranularityValue parses the configured granularity.
func (c *Config) GranularityValue() grid.Granularity {
	g, _ := grid.ParseGranularity(c.Granularity)
	return g
}

// MultiSelectEnabled reports the tap behavior, defaulting to true.
func (c *Config) MultiSelectEnabled() bool {
	return c.MultiSelect == nil || *c.MultiSelect
}

// Sources converts the ICS entries into fetch sources, skipping entries
// without a URL. The ID falls back to the name, then to the URL.
func (c *Config) Sources() []ics.Source {
	out := make([]ics.Source, 0, len(c.ICS))
	for _, s := range c.ICS {
		if s.URL == "" {
			continue
		}
		id := s.ID
		if id == "" {
			id = s.Name
		}
		if id == "" {
			id = s.URL
		}
		out = append(out, ics.Source{ID: id, URL: s.URL})
	}
	return out
}

// Load loads configuration from the given YAML path.
//
// A missing file is created with defaults (0600) and the defaults are
// returned. An existing file is decoded, normalized and validated.
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Defaults are still usable; the caller decides.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	return Parse(data)
}

// Parse decodes, normalizes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	cfg := Config{Radius: grid.DefaultRadius}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	cfg.Normalize()
	dir, err := homedir.Expand(cfg.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("config: cache_dir: %w", err)
	}
	cfg.CacheDir = dir
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path atomically (temp file + rename) with 0600
// permissions, creating the parent directory if needed.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calgrid-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

// Save is a convenience wrapper around the package-level Save.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
