// Package term prints calendar windows as colored text.
package term

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"calgrid/internal/grid"
	"calgrid/internal/widget"
)

// cellWidth is "dd* ": two digits, the event marker and a gap.
const cellWidth = 4

// Printer writes presentations to Out.
type Printer struct {
	Out io.Writer
	// Markers appends '*' to days that carry events.
	Markers bool
}

// PrintWindow prints every page of p, separated by blank lines.
func (pp *Printer) PrintWindow(p widget.Presentation) error {
	for i, page := range p.Pages {
		if i > 0 {
			if _, err := fmt.Fprintln(pp.Out); err != nil {
				return err
			}
		}
		if err := pp.PrintPage(page, p.Weekdays); err != nil {
			return err
		}
	}
	return nil
}

// PrintPage prints a page title, the weekday header and one line per row.
// Borrowed days are faint, today is bold and underlined, selected days
// are reversed.
func (pp *Printer) PrintPage(page widget.PageView, weekdays []string) error {
	width := cellWidth * len(weekdays)

	title := color.New(color.Bold)
	mid := max((width-len(page.Title))/2, 0)
	if _, err := title.Fprintln(pp.Out, strings.Repeat(" ", mid)+page.Title); err != nil {
		return err
	}

	header := color.New(color.Italic)
	var b strings.Builder
	for _, wd := range weekdays {
		fmt.Fprintf(&b, "%-*s", cellWidth, abbrev(wd))
	}
	if _, err := header.Fprintln(pp.Out, strings.TrimRight(b.String(), " ")); err != nil {
		return err
	}

	for _, row := range page.Rows {
		for i, c := range row {
			if err := pp.printCell(c); err != nil {
				return err
			}
			if i < len(row)-1 {
				if _, err := fmt.Fprint(pp.Out, " "); err != nil {
					return err
				}
			}
		}
		if _, err := fmt.Fprintln(pp.Out); err != nil {
			return err
		}
	}
	return nil
}

func (pp *Printer) printCell(c widget.Cell) error {
	marker := " "
	if pp.Markers && c.Events > 0 {
		marker = "*"
	}
	_, err := cellStyle(c).Fprintf(pp.Out, "%2d%s", c.Number, marker)
	return err
}

func cellStyle(c widget.Cell) *color.Color {
	s := color.New()
	if c.Role != grid.RoleCurrent {
		s.Add(color.Faint)
	}
	if c.Today {
		s.Add(color.Bold, color.Underline)
	}
	if c.Selected {
		s.Add(color.ReverseVideo)
	}
	return s
}

// abbrev keeps the first two runes so every header fits a cell.
func abbrev(s string) string {
	r := []rune(s)
	if len(r) > 2 {
		r = r[:2]
	}
	return string(r)
}
