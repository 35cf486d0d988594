package widget

import (
	"fmt"
	"time"

	"calgrid/internal/grid"
	"calgrid/internal/selection"
)

// Cell is one grid cell of a page.
type Cell struct {
	Date     time.Time          `json:"-"`
	Day      string             `json:"date"`
	Number   int                `json:"number"`
	Role     grid.Role          `json:"role"`
	Selected bool               `json:"selected"`
	Today    bool               `json:"today"`
	Neighbor selection.Neighbor `json:"neighbor"`
	Events   int                `json:"events"`
}

// PageView is a page laid out as rows of seven cells.
type PageView struct {
	Title string   `json:"title"`
	Start string   `json:"start"`
	Rows  [][]Cell `json:"rows"`
}

// Presentation is everything a renderer needs to draw the window.
type Presentation struct {
	Granularity grid.Granularity `json:"granularity"`
	Reference   string           `json:"reference"`
	Center      int              `json:"center"`
	Weekdays    []string         `json:"weekdays"`
	Selected    []string         `json:"selected"`
	Pages       []PageView       `json:"pages"`
}

// Present maps the current window onto cells.
func (v *View) Present() Presentation {
	today := v.today()
	selected := v.selected.Days()
	p := Presentation{
		Granularity: v.granularity,
		Reference:   grid.FormatDate(v.date),
		Center:      v.window.Radius,
		Weekdays:    v.cal.Symbols(grid.Short),
		Selected:    make([]string, 0, len(selected)),
		Pages:       make([]PageView, 0, len(v.window.Pages)),
	}
	for _, d := range selected {
		p.Selected = append(p.Selected, grid.FormatDate(d))
	}
	for _, page := range v.window.Pages {
		p.Pages = append(p.Pages, v.presentPage(page, today))
	}
	return p
}

// Title names a page: "January 2024" or "2024 W05".
func (v *View) Title(page grid.Page) string {
	if page.Granularity == grid.Week {
		return fmt.Sprintf("%d W%02d", page.Year, page.Week)
	}
	return fmt.Sprintf("%s %d", v.cal.MonthName(page.Start.Month()), page.Start.Year())
}

func (v *View) presentPage(page grid.Page, today time.Time) PageView {
	pv := PageView{
		Title: v.Title(page),
		Start: grid.FormatDate(page.Start),
	}
	for _, row := range page.Rows() {
		cells := make([]Cell, 0, len(row))
		for _, d := range row {
			cells = append(cells, Cell{
				Date:     d.Date,
				Day:      grid.FormatDate(d.Date),
				Number:   d.Date.Day(),
				Role:     d.Role,
				Selected: v.selected.Contains(d.Date),
				Today:    grid.SameDay(d.Date, today),
				Neighbor: v.selected.Neighbor(d.Date),
				Events:   v.markers[d.Date],
			})
		}
		pv.Rows = append(pv.Rows, cells)
	}
	return pv
}
