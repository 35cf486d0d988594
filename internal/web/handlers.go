package web

import (
	"net/http"

	"calgrid/internal/grid"
	"calgrid/internal/paging"
	"calgrid/internal/widget"
)

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /health", s.handleHealth)
	s.mux.HandleFunc("GET /api/window", s.handleWindow)
	s.mux.HandleFunc("GET /api/weekdays", s.handleWeekdays)
	s.mux.HandleFunc("POST /api/date", s.handleDate)
	s.mux.HandleFunc("POST /api/today", s.handleToday)
	s.mux.HandleFunc("POST /api/next", s.handleNext)
	s.mux.HandleFunc("POST /api/previous", s.handlePrevious)
	s.mux.HandleFunc("POST /api/granularity", s.handleGranularity)
	s.mux.HandleFunc("POST /api/radius", s.handleRadius)
	s.mux.HandleFunc("POST /api/tap", s.handleTap)
	s.mux.HandleFunc("POST /api/scroll", s.handleScroll)
	s.mux.HandleFunc("GET /api/selection", s.handleSelectionGet)
	s.mux.HandleFunc("PUT /api/selection", s.handleSelectionPut)
	s.mux.HandleFunc("DELETE /api/selection", s.handleSelectionDelete)
	s.mux.HandleFunc("GET /calendar", s.handleCalendarPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// present snapshots the view after fn ran, both under the lock.
func (s *Server) present(fn func(v *widget.View)) widget.Presentation {
	var p widget.Presentation
	s.Do(func(v *widget.View) {
		if fn != nil {
			fn(v)
		}
		p = v.Present()
	})
	return p
}

func (s *Server) handleWindow(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.present(nil))
}

type weekdaysResponse struct {
	WeekStart string   `json:"week_start"`
	VeryShort []string `json:"very_short"`
	Short     []string `json:"short"`
	Long      []string `json:"long"`
}

func (s *Server) handleWeekdays(w http.ResponseWriter, _ *http.Request) {
	var resp weekdaysResponse
	s.Do(func(v *widget.View) {
		cal := v.Calendar()
		resp = weekdaysResponse{
			WeekStart: cal.WeekStart.String(),
			VeryShort: cal.Symbols(grid.VeryShort),
			Short:     cal.Symbols(grid.Short),
			Long:      cal.Symbols(grid.Long),
		}
	})
	writeJSON(w, http.StatusOK, resp)
}

type dateRequest struct {
	Date string `json:"date"`
}

func (s *Server) handleDate(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := grid.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.present(func(v *widget.View) { v.ChangeTo(d) }))
}

func (s *Server) handleToday(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.present(func(v *widget.View) { v.Today() }))
}

func (s *Server) handleNext(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.present(func(v *widget.View) { v.Next() }))
}

func (s *Server) handlePrevious(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.present(func(v *widget.View) { v.Previous() }))
}

type granularityRequest struct {
	Granularity string `json:"granularity"`
}

func (s *Server) handleGranularity(w http.ResponseWriter, r *http.Request) {
	var req granularityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	g, err := grid.ParseGranularity(req.Granularity)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var setErr error
	p := s.present(func(v *widget.View) { setErr = v.SetGranularity(g) })
	if setErr != nil {
		writeError(w, http.StatusBadRequest, setErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type radiusRequest struct {
	Radius int `json:"radius"`
}

func (s *Server) handleRadius(w http.ResponseWriter, r *http.Request) {
	var req radiusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	var setErr error
	p := s.present(func(v *widget.View) { setErr = v.SetRadius(req.Radius) })
	if setErr != nil {
		writeError(w, http.StatusBadRequest, setErr.Error())
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleTap(w http.ResponseWriter, r *http.Request) {
	var req dateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	d, err := grid.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.present(func(v *widget.View) { v.Tap(d) }))
}

// scrollRequest drives one phase of a drag gesture.
type scrollRequest struct {
	Phase     string  `json:"phase"` // begin, move, end, settle
	Offset    float64 `json:"offset"`
	Velocity  float64 `json:"velocity"`
	PageWidth float64 `json:"page_width,omitempty"`
}

type scrollResponse struct {
	Event        *paging.Event        `json:"event,omitempty"`
	Date         string               `json:"date,omitempty"`
	TargetOffset *float64             `json:"target_offset,omitempty"`
	CenterOffset float64              `json:"center_offset"`
	Window       *widget.Presentation `json:"window,omitempty"`
}

func (s *Server) handleScroll(w http.ResponseWriter, r *http.Request) {
	var req scrollRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	var (
		resp   scrollResponse
		status = http.StatusOK
		msg    string
	)
	s.Do(func(v *widget.View) {
		if req.PageWidth > 0 && req.Phase == "begin" {
			if err := v.SetPageWidth(req.PageWidth); err != nil {
				status, msg = http.StatusBadRequest, err.Error()
				return
			}
		}
		changed := false
		switch req.Phase {
		case "begin":
			v.BeginDrag(req.Offset)
		case "move":
			ev := v.Scroll(req.Offset)
			resp.Event = &ev
			changed = ev.Kind == paging.Boundary
			if !changed {
				resp.Date = grid.FormatDate(v.Window().Pages[ev.Index].FirstCurrent())
			}
		case "end":
			target := v.EndDrag(req.Offset, req.Velocity)
			resp.TargetOffset = &target
		case "settle":
			if ev, ok := v.EndScroll(); ok {
				resp.Event = &ev
				changed = true
			}
		default:
			status, msg = http.StatusBadRequest, "phase must be begin, move, end or settle"
			return
		}
		if changed {
			p := v.Present()
			resp.Window = &p
			resp.Date = p.Reference
		}
		resp.CenterOffset = v.CenterOffset()
	})
	if status != http.StatusOK {
		writeError(w, status, msg)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

type selectionBody struct {
	Dates []string `json:"dates"`
}

func (s *Server) handleSelectionGet(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, selectionBody{Dates: s.present(nil).Selected})
}

func (s *Server) handleSelectionPut(w http.ResponseWriter, r *http.Request) {
	var req selectionBody
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	dates, err := parseDates(req.Dates)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	p := s.present(func(v *widget.View) { v.SelectDates(dates...) })
	writeJSON(w, http.StatusOK, selectionBody{Dates: p.Selected})
}

func (s *Server) handleSelectionDelete(w http.ResponseWriter, _ *http.Request) {
	p := s.present(func(v *widget.View) { v.ClearSelection() })
	writeJSON(w, http.StatusOK, selectionBody{Dates: p.Selected})
}
