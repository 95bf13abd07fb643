package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	applog "moneynote/internal/log"
	"moneynote/internal/metrics"
	"moneynote/internal/middleware/ratelimit"
	"moneynote/internal/middleware/security"
	"moneynote/internal/middleware/trace"
	"moneynote/internal/repository"
)

// Options tunes the server. Zero values fall back to defaults.
type Options struct {
	RateLimitPerMinute int
	Logger             *applog.Logger
}

// Server is the JSON API over a repository.
type Server struct {
	http.Server
	repo     *repository.Repository
	logger   *applog.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware
	started  time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, repo *repository.Repository, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	logger = logger.WithComponent(applog.ComponentHTTP)

	limitCfg := ratelimit.DefaultConfig()
	if opts.RateLimitPerMinute > 0 {
		limitCfg.RequestsPerMinute = opts.RateLimitPerMinute
	}

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		repo:     repo,
		logger:   logger,
		limiter:  ratelimit.NewLimiter(limitCfg),
		detector: security.NewDetector(logger),
		started:  time.Now(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)
	s.detector.OnSuspicious(func(*http.Request) { metrics.CountSecurityEvent("suspicious") })

	mux := http.NewServeMux()
	s.handle(mux, "GET /api/records", s.handleListRecords)
	s.handle(mux, "POST /api/records", s.handleCreateRecord)
	s.handle(mux, "POST /api/records/refresh", s.handleRefresh)
	s.handle(mux, "DELETE /api/records/{id}", s.handleDeleteRecord)
	s.handle(mux, "GET /api/summary", s.handleSummary)
	s.handle(mux, "GET /api/reports/{year}/{month}", s.handleReport)
	s.handle(mux, "GET /api/categories", s.handleCategories)
	s.handle(mux, "GET /healthz", s.handleHealth)
	s.handle(mux, "GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", metrics.Handler())

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, s.onRateLimited)(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)
	h = s.detector.Middleware(h)
	s.Handler = h
	return s
}

// handle registers fn under pattern and records its latency under the
// pattern name.
func (s *Server) handle(mux *http.ServeMux, pattern string, fn http.HandlerFunc) {
	mux.Handle(pattern, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := trace.NewResponseWriter(w)
		fn(rw, r)
		metrics.ObserveHTTP(r.Method, pattern, rw.Status(), time.Since(start))
	}))
}

func (s *Server) onRateLimited(r *http.Request, clientIP string) {
	metrics.CountSecurityEvent("rate_limited")
	applog.FromContext(r.Context()).WithComponent(applog.ComponentRateLimit).WarnContext(r.Context(),
		"Rate limit exceeded",
		applog.FieldClientIP, clientIP,
		applog.FieldMethod, r.Method,
		applog.FieldPath, r.URL.Path)
}

// Shutdown stops the rate limiter and then the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
