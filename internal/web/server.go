package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"calgrid/internal/config"
	"calgrid/internal/grid"
	appLog "calgrid/internal/log"
	"calgrid/internal/widget"
)

// Server exposes a widget.View over HTTP. The view is single-threaded, so
// every handler takes mu.
type Server struct {
	mu   sync.Mutex
	view *widget.View

	auth    *config.BasicAuthConfig
	limiter *rate.Limiter
	mux     *http.ServeMux

	onWindowChange func(from, to time.Time)
}

// NewServer wraps view. auth may be nil to disable Basic Auth.
func NewServer(view *widget.View, auth *config.BasicAuthConfig) *Server {
	s := &Server{
		view: view,
		auth: auth,
		mux:  http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// SetRateLimit caps /api requests at rps per second with an equal burst.
// Zero removes the limit. Call it before Handler.
func (s *Server) SetRateLimit(rps int) {
	if rps <= 0 {
		s.limiter = nil
		return
	}
	s.limiter = rate.NewLimiter(rate.Limit(rps), rps)
}

// Handler returns the http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.limiter != nil {
		h = s.rateLimitMiddleware(h)
	}
	if s.basicAuthEnabled() {
		h = s.basicAuthMiddleware(h)
	}
	return h
}

// OnWindowChange registers fn to run whenever an operation leaves the view
// spanning a different day range, e.g. to reload event markers for it. fn
// runs outside the view lock and must not block.
func (s *Server) OnWindowChange(fn func(from, to time.Time)) {
	s.mu.Lock()
	s.onWindowChange = fn
	s.mu.Unlock()
}

// Do runs fn with exclusive access to the view.
func (s *Server) Do(fn func(v *widget.View)) {
	s.mu.Lock()
	from, to := windowRange(s.view)
	fn(s.view)
	nextFrom, nextTo := windowRange(s.view)
	hook := s.onWindowChange
	s.mu.Unlock()

	if hook != nil && (!from.Equal(nextFrom) || !to.Equal(nextTo)) {
		hook(nextFrom, nextTo)
	}
}

func windowRange(v *widget.View) (from, to time.Time) {
	pages := v.Window().Pages
	first, last := pages[0], pages[len(pages)-1]
	return first.Days[0].Date, last.Days[len(last.Days)-1].Date
}

// Range returns the first and last day of the current window.
func (s *Server) Range() (from, to time.Time) {
	s.Do(func(v *widget.View) { from, to = windowRange(v) })
	return from, to
}

// SetMarkers replaces the view's event markers.
func (s *Server) SetMarkers(m map[time.Time]int) {
	s.Do(func(v *widget.View) { v.SetMarkers(m) })
}

// Rollover moves the view along with the calendar day.
func (s *Server) Rollover() {
	s.Do(func(v *widget.View) { v.Rollover() })
}

// ApplyConfig applies calendar settings from a reloaded config. Invalid
// values are logged and the previous setting kept. Listen address and
// credentials only change on restart.
func (s *Server) ApplyConfig(cfg *config.Config) {
	cal, err := cfg.Calendar()
	if err != nil {
		appLog.Error("config apply: calendar", err)
		return
	}
	s.Do(func(v *widget.View) {
		v.SetCalendar(cal)
		v.SetMultiSelect(cfg.MultiSelectEnabled())
		if err := v.SetGranularity(cfg.GranularityValue()); err != nil {
			appLog.Error("config apply: granularity", err)
		}
		if err := v.SetRadius(cfg.Radius); err != nil {
			appLog.Error("config apply: radius", err)
		}
	})
}

// Serve listens on addr until ctx is canceled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is canceled. It closes ln.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+ln.Addr().String(), "basic_auth", s.basicAuthEnabled())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) basicAuthEnabled() bool {
	return s.auth != nil && s.auth.Username != "" && s.auth.Password != ""
}

// basicAuthMiddleware protects every handler except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}
		auth := s.auth
		if auth == nil {
			next.ServeHTTP(w, r)
			return
		}
		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, auth.Username) || !secureCompare(p, auth.Password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="calgrid", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// rateLimitMiddleware answers 429 once /api requests exceed the limit.
func (s *Server) rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") && !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

func parseDates(in []string) ([]time.Time, error) {
	out := make([]time.Time, 0, len(in))
	for _, s := range in {
		d, err := grid.ParseDate(s)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}
