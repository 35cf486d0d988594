package web

import (
	"html/template"
	"net/http"
	"strconv"

	"calgrid/internal/grid"
	appLog "calgrid/internal/log"
	"calgrid/internal/selection"
	"calgrid/internal/widget"
)

var calendarTmpl = template.Must(template.New("calendar").Funcs(template.FuncMap{
	"cellClass": cellClass,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{(index .Pages 0).Title}}</title>
<style>
body { font-family: sans-serif; margin: 16px; background: #fff; color: #000; }
.page { margin-bottom: 24px; }
h1 { font-size: 20px; margin: 0 0 8px; }
table { border-collapse: collapse; width: 100%; table-layout: fixed; }
th { font-size: 12px; font-weight: normal; padding: 4px 0; }
td { text-align: center; padding: 8px 0; position: relative; }
td.borrowed { color: #aaa; }
td.today span { border: 2px solid #000; border-radius: 50%; padding: 2px 6px; }
td.selected { background: #000; color: #fff; border-radius: 8px; }
td.selected.neighbor-previous { border-top-left-radius: 0; border-bottom-left-radius: 0; }
td.selected.neighbor-next { border-top-right-radius: 0; border-bottom-right-radius: 0; }
td .dot { display: block; width: 4px; height: 4px; margin: 2px auto 0; background: currentColor; border-radius: 50%; }
</style>
</head>
<body>
<div id="calendar" data-ready="true" data-reference="{{.Reference}}" data-granularity="{{.Granularity}}">
{{- range .Pages}}
<section class="page" data-start="{{.Start}}">
<h1>{{.Title}}</h1>
<table>
<thead><tr>{{range $.Weekdays}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{- range .Rows}}
<tr>{{range .}}<td class="{{cellClass .}}" data-date="{{.Day}}"><span>{{.Number}}</span>{{if gt .Events 0}}<i class="dot" title="{{.Events}}"></i>{{end}}</td>{{end}}</tr>
{{- end}}
</tbody>
</table>
</section>
{{- end}}
</div>
</body>
</html>
`))

func cellClass(c widget.Cell) string {
	class := "day"
	if c.Role != grid.RoleCurrent {
		class += " borrowed"
	}
	if c.Today {
		class += " today"
	}
	if c.Selected {
		class += " selected"
	}
	switch c.Neighbor {
	case selection.NeighborPrevious:
		class += " neighbor-previous"
	case selection.NeighborNext:
		class += " neighbor-next"
	case selection.NeighborBoth:
		class += " neighbor-previous neighbor-next"
	}
	return class
}

// handleCalendarPage renders the window as HTML for browsers and capture.
// By default only the reference page is shown; ?all=1 renders every page,
// ?page=N picks one by index.
func (s *Server) handleCalendarPage(w http.ResponseWriter, r *http.Request) {
	p := s.present(nil)

	q := r.URL.Query()
	switch {
	case q.Get("all") == "1":
	case q.Get("page") != "":
		i, err := strconv.Atoi(q.Get("page"))
		if err != nil || i < 0 || i >= len(p.Pages) {
			http.Error(w, "page out of range", http.StatusBadRequest)
			return
		}
		p.Pages = p.Pages[i : i+1]
	default:
		p.Pages = p.Pages[p.Center : p.Center+1]
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := calendarTmpl.Execute(w, p); err != nil {
		appLog.Error("render calendar page", err)
	}
}
