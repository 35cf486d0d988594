package term

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"calgrid/internal/grid"
	"calgrid/internal/widget"
)

func newPresentation(t *testing.T, ws grid.WeekStart) widget.Presentation {
	t.Helper()
	cal := grid.DefaultCalendar()
	cal.WeekStart = ws
	v, err := widget.New(widget.Options{
		Calendar:    cal,
		Granularity: grid.Month,
		Radius:      1,
		Date:        time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		Now:         func() time.Time { return time.Date(2024, time.February, 14, 9, 0, 0, 0, time.UTC) },
	})
	if err != nil {
		t.Fatalf("widget.New: %v", err)
	}
	v.SetMarkers(map[time.Time]int{time.Date(2024, time.February, 5, 0, 0, 0, 0, time.UTC): 1})
	return v.Present()
}

func TestPrintPage(t *testing.T) {
	color.NoColor = true
	p := newPresentation(t, grid.Monday)

	var buf bytes.Buffer
	pp := &Printer{Out: &buf, Markers: true}
	if err := pp.PrintPage(p.Pages[p.Center], p.Weekdays); err != nil {
		t.Fatalf("PrintPage: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2+5 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), buf.String())
	}
	if strings.TrimSpace(lines[0]) != "February 2024" {
		t.Fatalf("title = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Mo  Tu") || !strings.HasSuffix(lines[1], "Su") {
		t.Fatalf("header = %q", lines[1])
	}
	// 2024-02-01 is a Thursday: three January days lead the first row.
	if got := strings.Fields(lines[2]); strings.Join(got, " ") != "29 30 31 1 2 3 4" {
		t.Fatalf("first row = %q", lines[2])
	}
	if !strings.Contains(lines[3], " 5*") {
		t.Fatalf("marker missing in %q", lines[3])
	}
	if got := strings.Fields(lines[6]); strings.Join(got, " ") != "26 27 28 29 1 2 3" {
		t.Fatalf("last row = %q", lines[6])
	}
}

func TestPrintWindow(t *testing.T) {
	color.NoColor = true
	p := newPresentation(t, grid.Sunday)

	var buf bytes.Buffer
	if err := (&Printer{Out: &buf}).PrintWindow(p); err != nil {
		t.Fatalf("PrintWindow: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"January 2024", "February 2024", "March 2024", "Su  Mo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "*") {
		t.Fatalf("markers printed while disabled")
	}
}

func TestAbbrev(t *testing.T) {
	cases := map[string]string{"Mon": "Mo", "Mo.": "Mo", "월": "월", "": ""}
	for in, want := range cases {
		if got := abbrev(in); got != want {
			t.Fatalf("abbrev(%q) = %q, want %q", in, got, want)
		}
	}
}
