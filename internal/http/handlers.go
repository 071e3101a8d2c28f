package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"resultsdash/internal/core"
	applog "resultsdash/internal/log"
	"resultsdash/internal/services"
)

// pageData is what the dashboard templates render.
type pageData struct {
	services.State
	// Query is the canonical query string of the resolved selection.
	Query       string
	PieGradient template.CSS
	Error       string
}

type optionsResponse struct {
	Options   core.Options         `json:"options"`
	Selection core.FilterSelection `json:"selection"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newPageData(st services.State) pageData {
	return pageData{
		State:       st,
		Query:       SelectionQuery(st.Selection).Encode(),
		PieGradient: pieGradient(st.View),
	}
}

// pieGradient draws the gender split as a conic gradient, female first.
func pieGradient(v core.View) template.CSS {
	if v.Empty || len(v.Pie) != 2 {
		return ""
	}
	whole := v.Pie[0].Value + v.Pie[1].Value
	if whole <= 0 {
		return template.CSS("background: var(--empty)")
	}
	deg := v.Pie[0].Value * 360 / whole
	return template.CSS(fmt.Sprintf("background: conic-gradient(var(--female) 0deg %ddeg, var(--male) %ddeg 360deg)", deg, deg))
}

func (s *Server) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// handleIndex renders the full dashboard page, or only the load error when
// the dataset is unavailable.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		NotFoundError("page not found").Write(w)
		return
	}
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	st, err := s.dash.State(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logger.ErrorContext(ctx, "Dashboard unavailable", applog.FieldPath, r.URL.Path, applog.FieldError, err)
		body, terr := s.execute("error.html", pageData{Error: err.Error()})
		if terr != nil {
			ServiceUnavailableError(err.Error()).Write(w)
			return
		}
		NewHTMXResponse().Status(http.StatusServiceUnavailable).BodyHTML(body).Write(w)
		return
	}

	body, err := s.execute("dashboard.html", newPageData(st))
	if err != nil {
		s.logger.ErrorContext(ctx, "Dashboard template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"template", "dashboard.html")
		InternalServerError("failed to render dashboard").Write(w)
		return
	}
	NewHTMXResponse().BodyHTML(body).Write(w)
}

// handleDashboardPartial re-renders filters and content for a new selection.
func (s *Server) handleDashboardPartial(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}

	ctx := r.Context()
	st, err := s.dash.State(ctx, ParseSelection(r.URL.Query()))
	if err != nil {
		s.logger.ErrorContext(ctx, "Dashboard unavailable", applog.FieldPath, r.URL.Path, applog.FieldError, err)
		ServiceUnavailableError(err.Error()).TriggerErrorNotification(err.Error()).Write(w)
		return
	}

	data := newPageData(st)
	body, err := s.execute("dashboard_body", data)
	if err != nil {
		s.logger.ErrorContext(ctx, "Partial template execution failed",
			applog.FieldError, err,
			applog.FieldOperation, applog.OpRender,
			"template", "dashboard_body")
		InternalServerError("failed to render dashboard").Write(w)
		return
	}

	NewHTMXResponse().
		TriggerSelectionResolved(st.Selection).
		PushURL("/?" + data.Query).
		BodyHTML(body).
		Write(w)
}

// handleOptions returns the option lists and the resolved selection.
func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	st, err := s.dash.State(r.Context(), ParseSelection(r.URL.Query()))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, optionsResponse{Options: st.Options, Selection: st.Selection})
}

// handleView returns the whole dashboard state as JSON.
func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	if resp := RequireGET(r); resp != nil {
		resp.Write(w)
		return
	}
	st, err := s.dash.State(r.Context(), ParseSelection(r.URL.Query()))
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) handleRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded", applog.FieldPath, r.URL.Path)
	msg := "Too many requests, try again in a minute."
	ErrorResponse(http.StatusTooManyRequests, msg).
		Header("Retry-After", "60").
		TriggerNotification(NotificationWarning, msg, 5000).
		Write(w)
}

// handleHealth performs basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports whether the dataset loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.dash.Ready(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not_ready",
			"error":  err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

// handleMetrics provides request and cache counters in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	traceMetrics := s.tracer.GetMetrics()
	cacheStats := s.dash.CacheStats()
	ready := 1
	if s.dash.Ready() != nil {
		ready = 0
	}

	w.WriteHeader(http.StatusOK)

	fmt.Fprintf(w, "# HELP http_requests_total Total number of HTTP requests\n")
	fmt.Fprintf(w, "# TYPE http_requests_total counter\n")
	fmt.Fprintf(w, "http_requests_total %d\n\n", traceMetrics.TotalRequests)

	fmt.Fprintf(w, "# HELP http_server_errors_total Responses with a 5xx status\n")
	fmt.Fprintf(w, "# TYPE http_server_errors_total counter\n")
	fmt.Fprintf(w, "http_server_errors_total %d\n\n", traceMetrics.ServerErrors)

	fmt.Fprintf(w, "# HELP dashboard_cache_hits_total Dashboard state cache hits\n")
	fmt.Fprintf(w, "# TYPE dashboard_cache_hits_total counter\n")
	fmt.Fprintf(w, "dashboard_cache_hits_total %d\n\n", cacheStats.Hits)

	fmt.Fprintf(w, "# HELP dashboard_cache_misses_total Dashboard state cache misses\n")
	fmt.Fprintf(w, "# TYPE dashboard_cache_misses_total counter\n")
	fmt.Fprintf(w, "dashboard_cache_misses_total %d\n\n", cacheStats.Misses)

	fmt.Fprintf(w, "# HELP dashboard_cache_entries Current dashboard state cache entries\n")
	fmt.Fprintf(w, "# TYPE dashboard_cache_entries gauge\n")
	fmt.Fprintf(w, "dashboard_cache_entries %d\n\n", cacheStats.Size)

	fmt.Fprintf(w, "# HELP dataset_ready Whether the results dataset loaded\n")
	fmt.Fprintf(w, "# TYPE dataset_ready gauge\n")
	fmt.Fprintf(w, "dataset_ready %d\n\n", ready)

	if s.limiter != nil {
		limits := s.limiter.GetMetrics()
		fmt.Fprintf(w, "# HELP rate_limit_rejected_total Requests rejected by the rate limiter\n")
		fmt.Fprintf(w, "# TYPE rate_limit_rejected_total counter\n")
		fmt.Fprintf(w, "rate_limit_rejected_total %d\n\n", limits.Rejected)
	}

	fmt.Fprintf(w, "# HELP uptime_seconds Application uptime in seconds\n")
	fmt.Fprintf(w, "# TYPE uptime_seconds gauge\n")
	fmt.Fprintf(w, "uptime_seconds %.0f\n", time.Since(s.started).Seconds())
}
