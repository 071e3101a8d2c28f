package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strings"
	"sync"
	"time"

	"resultsdash/internal/cache"
	"resultsdash/internal/core"
	applog "resultsdash/internal/log"
	"resultsdash/internal/middleware/ratelimit"
	"resultsdash/internal/middleware/security"
	"resultsdash/internal/middleware/trace"
	"resultsdash/internal/services"
	appweb "resultsdash/web"
)

// Dashboard is the service behind the HTTP surface.
type Dashboard interface {
	State(ctx context.Context, sel core.FilterSelection) (services.State, error)
	Ready() error
	CacheStats() cache.Stats
}

// Server serves the dashboard page, its HTMX partial and the JSON API.
type Server struct {
	http.Server
	templates *template.Template
	dash      Dashboard
	logger    *applog.Logger
	tracer    *trace.Middleware
	limiter   *ratelimit.Limiter
	started   time.Time

	shutdownOnce sync.Once
}

// templateFuncs are available to every dashboard template.
var templateFuncs = template.FuncMap{
	"contains": func(list []string, v string) bool {
		for _, s := range list {
			if s == v {
				return true
			}
		}
		return false
	},
	"join": strings.Join,
}

// Option customizes a Server.
type Option func(*serverOptions)

type serverOptions struct {
	requestsPerMinute int
}

// WithRateLimit limits the partial and API routes to perMinute requests per
// client IP. Zero or less disables limiting.
func WithRateLimit(perMinute int) Option {
	return func(o *serverOptions) {
		o.requestsPerMinute = perMinute
	}
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, dash Dashboard, logger *applog.Logger, opts ...Option) (*Server, error) {
	if dash == nil {
		return nil, fmt.Errorf("dashboard is required")
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	var o serverOptions
	for _, opt := range opts {
		opt(&o)
	}

	mux := http.NewServeMux()
	resolver := security.NewClientIPResolver()
	s := &Server{
		templates: t,
		dash:      dash,
		logger:    logger.WithComponent(applog.ComponentHTTP),
		tracer:    trace.NewMiddleware(logger, resolver.ClientIP),
		started:   time.Now(),
	}

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("/static/", security.StaticAssetMiddleware(3600)(static))
	} else {
		s.logger.Warn("Failed to mount embedded static FS", applog.FieldError, err)
	}

	limit := func(h http.HandlerFunc) http.Handler { return h }
	if o.requestsPerMinute > 0 {
		s.limiter = ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: o.requestsPerMinute})
		mw := s.limiter.Middleware(resolver.ClientIP, s.handleRateLimited)
		limit = func(h http.HandlerFunc) http.Handler { return mw(h) }
	}

	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/ui/dashboard", limit(s.handleDashboardPartial))
	mux.Handle("/api/options", limit(s.handleOptions))
	mux.Handle("/api/view", limit(s.handleView))
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/metrics", s.handleMetrics)

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	s.Server = http.Server{
		Addr:              addr,
		Handler:           headers.Middleware(s.tracer.Middleware(mux)),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	return s, nil
}

// Shutdown gracefully shuts down the server. Only the first call has effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		if s.limiter != nil {
			s.limiter.Stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
