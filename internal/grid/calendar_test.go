package grid

import (
	"strings"
	"testing"
	"time"
)

func TestWeekdaySymbolsRotation(t *testing.T) {
	native := English.VeryShort[:]
	sun := WeekdaySymbols(native, true)
	mon := WeekdaySymbols(native, false)
	if !equalStrings(sun, native) {
		t.Fatalf("sunday-first should keep native order, got %v", sun)
	}
	rotated := append(append([]string{}, sun[1:]...), sun[0])
	if !equalStrings(mon, rotated) {
		t.Fatalf("expected %v, got %v", rotated, mon)
	}
	if native[0] != "S" || native[1] != "M" {
		t.Fatalf("input slice was modified: %v", native)
	}
}

func TestLeadingCountMatchesSymbolOrder(t *testing.T) {
	for _, cal := range []Calendar{mondayFirst(), sundayFirst()} {
		symbols := cal.Symbols(Long)
		for wd := time.Sunday; wd <= time.Saturday; wd++ {
			idx := cal.LeadingCount(wd)
			if symbols[idx] != English.Long[wd] {
				t.Fatalf("%s: weekday %s at column %d shows %q", cal.WeekStart, wd, idx, symbols[idx])
			}
		}
	}
}

func TestLeadingCountMondayFirst(t *testing.T) {
	cal := mondayFirst()
	want := map[time.Weekday]int{
		time.Monday: 0, time.Tuesday: 1, time.Wednesday: 2, time.Thursday: 3,
		time.Friday: 4, time.Saturday: 5, time.Sunday: 6,
	}
	for wd, n := range want {
		if got := cal.LeadingCount(wd); got != n {
			t.Fatalf("%s: expected %d, got %d", wd, n, got)
		}
	}
}

func TestTodayUsesLocation(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	cal := DefaultCalendar()
	cal.Location = seoul
	now := time.Date(2024, time.February, 29, 20, 0, 0, 0, time.UTC)
	if got := FormatDate(cal.Today(now)); got != "2024-03-01" {
		t.Fatalf("expected 2024-03-01, got %s", got)
	}
	if got := cal.Truncate(Date(2024, time.March, 1)); !got.Equal(Date(2024, time.March, 1)) {
		t.Fatalf("truncate is not idempotent: %s", got)
	}
}

func TestLookupLocale(t *testing.T) {
	for _, name := range []string{"ko", "ko_KR", "KO-kr"} {
		l, ok := LookupLocale(name)
		if !ok || l.Name != "ko" {
			t.Fatalf("%s: expected korean locale", name)
		}
	}
	if _, ok := LookupLocale("xx"); ok {
		t.Fatalf("expected unknown locale")
	}
	if got := German.MonthName(time.March); got != "März" {
		t.Fatalf("expected März, got %s", got)
	}
}

func TestLocaleTables(t *testing.T) {
	cases := []struct {
		l       Locale
		wd      time.Weekday
		long    string
		short   string
		initial string
		march   string
	}{
		{English, time.Monday, "Monday", "Mon", "M", "March"},
		{Korean, time.Monday, "월요일", "월", "월", "3월"},
		{German, time.Tuesday, "Dienstag", "", "D", "März"},
	}
	for _, tc := range cases {
		if got := tc.l.Long[tc.wd]; got != tc.long {
			t.Fatalf("%s long %s = %q, want %q", tc.l.Name, tc.wd, got, tc.long)
		}
		if tc.short != "" && tc.l.Short[tc.wd] != tc.short {
			t.Fatalf("%s short %s = %q, want %q", tc.l.Name, tc.wd, tc.l.Short[tc.wd], tc.short)
		}
		if got := tc.l.VeryShort[tc.wd]; got != tc.initial {
			t.Fatalf("%s very short %s = %q, want %q", tc.l.Name, tc.wd, got, tc.initial)
		}
		if got := tc.l.MonthName(time.March); got != tc.march {
			t.Fatalf("%s march = %q, want %q", tc.l.Name, got, tc.march)
		}
	}
	if got := German.Short[time.Tuesday]; !strings.HasPrefix(got, "Di") {
		t.Fatalf("german short tuesday = %q", got)
	}
}

func TestParseWeekStartAndGranularity(t *testing.T) {
	if ws, err := ParseWeekStart("Sunday"); err != nil || ws != Sunday {
		t.Fatalf("expected sunday, got %v %v", ws, err)
	}
	if _, err := ParseWeekStart("friday"); err == nil {
		t.Fatalf("expected error for friday")
	}
	if g, err := ParseGranularity("WEEK"); err != nil || g != Week {
		t.Fatalf("expected week, got %v %v", g, err)
	}
	if _, err := ParseGranularity("year"); err == nil {
		t.Fatalf("expected error for year")
	}
}
