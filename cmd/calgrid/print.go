package main

import (
	"context"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"calgrid/internal/term"
)

func addPrint(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	var (
		all     bool
		noColor bool
		markers bool
	)

	cmd := &cobra.Command{
		Use:   "print",
		Short: "Print the calendar window to the terminal.",
		Example: `
calgrid print
calgrid print --date 2024-02-01 --week-start sunday
calgrid print --granularity week --radius 2 --all
calgrid print --markers
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.readConfig()
			if err != nil {
				return err
			}
			ro.applyLogLevel(cfg)
			if err := vo.apply(cmd, cfg); err != nil {
				return err
			}
			if noColor {
				color.NoColor = true
			}

			view, err := vo.newView(cfg, nil)
			if err != nil {
				return err
			}
			cal, err := cfg.Calendar()
			if err != nil {
				return err
			}
			if markers {
				ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
				defer cancel()
				w := view.Window()
				first, last := w.Pages[0], w.Pages[len(w.Pages)-1]
				m, err := newMarkerLoader(cfg, cal.Location).Load(ctx, first.Days[0].Date, last.Days[len(last.Days)-1].Date)
				if err != nil {
					return err
				}
				view.SetMarkers(m)
			}

			p := view.Present()
			pp := &term.Printer{Out: cmd.OutOrStdout(), Markers: markers}
			if all {
				return pp.PrintWindow(p)
			}
			return pp.PrintPage(p.Pages[p.Center], p.Weekdays)
		},
	}

	addViewFlags(cmd, vo)
	cmd.Flags().BoolVar(&all, "all", false, "Print every page of the window, not only the reference page")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&markers, "markers", false, "Fetch the configured ICS feeds and mark days with events")
	topLevel.AddCommand(cmd)
}
