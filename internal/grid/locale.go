package grid

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/goodsign/monday"
)

// SymbolStyle picks the width of weekday symbols.
type SymbolStyle int

const (
	VeryShort SymbolStyle = iota
	Short
	Long
)

// Locale holds weekday and month names. Weekday tables start on Sunday.
type Locale struct {
	Name      string
	VeryShort [7]string
	Short     [7]string
	Long      [7]string
	Months    [12]string
}

// refSunday is any Sunday; the tables are read off the week starting there.
var refSunday = time.Date(2023, time.January, 1, 0, 0, 0, 0, time.UTC)

var (
	English = newLocale("en", monday.LocaleEnUS)
	Korean  = newLocale("ko", monday.LocaleKoKR)
	German  = newLocale("de", monday.LocaleDeDE)
)

// newLocale builds the name tables from monday's translations. Very short
// symbols are the first letter of the long name.
func newLocale(name string, ml monday.Locale) Locale {
	l := Locale{Name: name}
	for i := 0; i < 7; i++ {
		d := refSunday.AddDate(0, 0, i)
		l.Long[i] = monday.Format(d, "Monday", ml)
		l.Short[i] = monday.Format(d, "Mon", ml)
		r, _ := utf8.DecodeRuneInString(l.Long[i])
		l.VeryShort[i] = string(r)
	}
	for m := time.January; m <= time.December; m++ {
		l.Months[m-1] = monday.Format(time.Date(2023, m, 1, 0, 0, 0, 0, time.UTC), "January", ml)
	}
	return l
}

var locales = map[string]Locale{
	English.Name: English,
	Korean.Name:  Korean,
	German.Name:  German,
}

// LookupLocale finds a built-in locale by name ("en", "ko", "de"). Region
// suffixes such as "en-US" or "ko_KR" are ignored.
func LookupLocale(name string) (Locale, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if i := strings.IndexAny(name, "-_"); i > 0 {
		name = name[:i]
	}
	l, ok := locales[name]
	return l, ok
}

func (l Locale) weekdays(style SymbolStyle) []string {
	var tbl [7]string
	switch style {
	case Short:
		tbl = l.Short
	case Long:
		tbl = l.Long
	default:
		tbl = l.VeryShort
	}
	return tbl[:]
}

// MonthName returns the month's display name, falling back to Go's English name.
func (l Locale) MonthName(m time.Month) string {
	if m < time.January || m > time.December {
		return m.String()
	}
	if n := l.Months[m-1]; n != "" {
		return n
	}
	return m.String()
}
