package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"calgrid/internal/grid"
)

func addWeekdays(topLevel *cobra.Command, ro *rootOptions) {
	vo := &viewOptions{}
	var (
		style string
		table bool
	)

	cmd := &cobra.Command{
		Use:   "weekdays",
		Short: "Print the weekday header in display order.",
		Example: `
calgrid weekdays
calgrid weekdays --week-start sunday --style long --locale de
`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ro.readConfig()
			if err != nil {
				return err
			}
			if err := vo.apply(cmd, cfg); err != nil {
				return err
			}
			cal, err := cfg.Calendar()
			if err != nil {
				return err
			}
			if table {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), weekdayTable(cal))
				return err
			}
			s, err := parseSymbolStyle(style)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(cal.Symbols(s), " "))
			return err
		},
	}

	cmd.Flags().StringVar(&vo.weekStart, "week-start", "", "First day of the week: monday or sunday")
	cmd.Flags().StringVar(&vo.locale, "locale", "", "Weekday names: en, ko or de")
	cmd.Flags().StringVar(&style, "style", "short", "Symbol style: very-short, short or long")
	cmd.Flags().BoolVar(&table, "table", false, "Print every symbol style as a table")
	topLevel.AddCommand(cmd)
}

// weekdayTable lists the header columns with all three symbol styles.
func weekdayTable(cal grid.Calendar) string {
	veryShort := cal.Symbols(grid.VeryShort)
	short := cal.Symbols(grid.Short)
	long := cal.Symbols(grid.Long)

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Column"), bold.Sprint("Very short"), bold.Sprint("Short"), bold.Sprint("Long"))
	for i := range long {
		tbl.AddRow(i+1, veryShort[i], short[i], long[i])
	}
	tbl.RightAlign(0)
	return tbl.String()
}

func parseSymbolStyle(s string) (grid.SymbolStyle, error) {
	switch strings.ToLower(s) {
	case "very-short", "veryshort":
		return grid.VeryShort, nil
	case "short", "":
		return grid.Short, nil
	case "long":
		return grid.Long, nil
	default:
		return grid.Short, fmt.Errorf("unknown symbol style %q", s)
	}
}
