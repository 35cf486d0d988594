package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"

	"calgrid/internal/config"
	"calgrid/internal/grid"
	appLog "calgrid/internal/log"
	"calgrid/internal/widget"
)

// rootOptions are the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	ro := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "calgrid",
		Short:         "Calendar grid widget core with an HTTP, terminal and PNG front end.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path, err := homedir.Expand(ro.configPath)
			if err != nil {
				return err
			}
			ro.configPath = path
			if ro.logLevel == "" {
				return nil
			}
			lvl, ok := appLog.ParseLevel(ro.logLevel)
			if !ok {
				return fmt.Errorf("unknown log level %q", ro.logLevel)
			}
			appLog.SetLevel(lvl)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&ro.configPath, "config", "./config.yaml", "Path to config file")
	cmd.PersistentFlags().StringVar(&ro.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides config")

	addServe(cmd, ro)
	addPrint(cmd, ro)
	addWeekdays(cmd, ro)
	addSnapshot(cmd, ro)
	addVersion(cmd)
	return cmd
}

// readConfig loads the config file if it exists and falls back to defaults
// otherwise. Unlike config.Load it never writes a file.
func (ro *rootOptions) readConfig() (*config.Config, error) {
	data, err := os.ReadFile(ro.configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return config.DefaultConfig(), nil
		}
		return nil, err
	}
	cfg, err := config.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ro.configPath, err)
	}
	return cfg, nil
}

// applyLogLevel uses the config level unless --log-level was given.
func (ro *rootOptions) applyLogLevel(cfg *config.Config) {
	if ro.logLevel != "" {
		return
	}
	if lvl, ok := appLog.ParseLevel(cfg.LogLevel); ok {
		appLog.SetLevel(lvl)
	}
}

// viewOptions override calendar settings from the config file.
type viewOptions struct {
	date        string
	granularity string
	radius      int
	weekStart   string
	locale      string
	radiusSet   bool
}

func addViewFlags(cmd *cobra.Command, vo *viewOptions) {
	cmd.Flags().StringVar(&vo.date, "date", "", `Reference date, example: --date="2024-02-01" (default today)`)
	cmd.Flags().StringVar(&vo.granularity, "granularity", "", "Page period: month or week")
	cmd.Flags().IntVar(&vo.radius, "radius", 0, "Pages on each side of the reference page")
	cmd.Flags().StringVar(&vo.weekStart, "week-start", "", "First day of the week: monday or sunday")
	cmd.Flags().StringVar(&vo.locale, "locale", "", "Weekday and month names: en, ko or de")
}

// apply records which flags were given on cmd and overlays them onto cfg.
func (vo *viewOptions) apply(cmd *cobra.Command, cfg *config.Config) error {
	vo.radiusSet = cmd.Flags().Changed("radius")
	return vo.overlay(cfg)
}

// overlay copies explicitly set flags into cfg and revalidates it. serve
// calls it again on every reloaded config so flags keep precedence.
func (vo *viewOptions) overlay(cfg *config.Config) error {
	if vo.granularity != "" {
		cfg.Granularity = vo.granularity
	}
	if vo.radiusSet {
		cfg.Radius = vo.radius
	}
	if vo.weekStart != "" {
		if _, err := grid.ParseWeekStart(vo.weekStart); err != nil {
			return err
		}
		cfg.WeekStart = vo.weekStart
	}
	if vo.locale != "" {
		cfg.Locale = vo.locale
	}
	return cfg.Validate()
}

// newView builds a widget view from cfg and the reference date flag.
func (vo *viewOptions) newView(cfg *config.Config, delegate widget.Delegate) (*widget.View, error) {
	cal, err := cfg.Calendar()
	if err != nil {
		return nil, err
	}
	var date time.Time
	if vo.date != "" {
		if date, err = grid.ParseDate(vo.date); err != nil {
			return nil, err
		}
	}
	return widget.New(widget.Options{
		Calendar:    cal,
		Granularity: cfg.GranularityValue(),
		Radius:      cfg.Radius,
		MultiSelect: cfg.MultiSelectEnabled(),
		Date:        date,
		Delegate:    delegate,
	})
}
