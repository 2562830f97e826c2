package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"mealkit-hq/backoffice/pkg/config"
	"mealkit-hq/backoffice/pkg/retention"
	"mealkit-hq/backoffice/pkg/security/auth"
	"mealkit-hq/backoffice/pkg/telemetry/health"
	"mealkit-hq/backoffice/pkg/telemetry/metrics"
	"mealkit-hq/backoffice/pkg/telemetry/tracing"
)

// ManualSweeper runs the on-demand sweep.
type ManualSweeper interface {
	RunManual(ctx context.Context) (*retention.Report, error)
}

// ScheduleInfo exposes the state of the nightly sweep.
type ScheduleInfo interface {
	IsRunning() bool
	NextRun() *time.Time
	LastRun() *retention.RunStatus
}

// BuildInfo identifies the running binary.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Dependencies are the components the API serves. Sweeper, Auth and Checker
// are required; the rest may be nil.
type Dependencies struct {
	Sweeper   ManualSweeper
	Scheduler ScheduleInfo
	Retention *retention.Config
	Auth      auth.APIKeyStore
	Checker   *health.Checker
	Metrics   *metrics.Collector
	Tracer    *tracing.Tracer
	Build     BuildInfo

	// MetricsPath is where the Prometheus handler is mounted.
	MetricsPath string
}

// Server is the back-office HTTP API.
type Server struct {
	config       config.ServerConfig
	deps         Dependencies
	httpServer   *http.Server
	listener     net.Listener
	logger       *slog.Logger
	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
}

// NewServer creates a new API server.
func NewServer(cfg config.ServerConfig, deps Dependencies) (*Server, error) {
	if deps.Sweeper == nil {
		return nil, errors.New("sweeper is required")
	}
	if deps.Auth == nil {
		return nil, errors.New("API key store is required")
	}
	if deps.Checker == nil {
		deps.Checker = health.New(0)
	}
	if deps.Retention == nil {
		deps.Retention = retention.DefaultConfig()
	}
	if deps.MetricsPath == "" {
		deps.MetricsPath = config.DefaultMetricsPath
	}

	return &Server{
		config: cfg,
		deps:   deps,
		logger: slog.Default().With("component", "server"),
	}, nil
}

// Start listens on the configured address and serves until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		_ = ln.Close()
		return errors.New("server is already running")
	}
	s.isRunning = true
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", ln.Addr().String())
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		return s.Shutdown(context.Background())
	case err, ok := <-errChan:
		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()
		if ok {
			return err
		}
		return nil
	}
}

// Shutdown gracefully shuts down the server, waiting up to
// ShutdownTimeout for in-flight requests such as a running manual sweep.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.Lock()
		httpServer := s.httpServer
		running := s.isRunning
		s.mu.Unlock()
		if !running || httpServer == nil {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx := ctx
		if s.config.ShutdownTimeout > 0 {
			var cancel context.CancelFunc
			shutdownCtx, cancel = context.WithTimeout(ctx, s.config.ShutdownTimeout)
			defer cancel()
		}

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("error during server shutdown", "error", err)
			shutdownErr = fmt.Errorf("server shutdown error: %w", err)
		}

		s.mu.Lock()
		s.isRunning = false
		s.mu.Unlock()

		s.logger.Info("API server stopped")
	})

	return shutdownErr
}

// IsRunning returns true if the server is running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// Addr returns the listening address, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	authn := auth.NewAPIKeyMiddleware(s.deps.Auth, nil)

	s.route(mux, "POST /v1/retention/sweep", "/v1/retention/sweep",
		authn.Handle(http.HandlerFunc(s.handleSweep)))
	s.route(mux, "GET /v1/retention/schedule", "/v1/retention/schedule",
		http.HandlerFunc(s.handleSchedule))

	s.route(mux, "/health", "/health", s.deps.Checker.LivenessHandler())
	s.route(mux, "/ready", "/ready", s.deps.Checker.ReadinessHandler())
	s.route(mux, "/version", "/version",
		health.VersionHandler(s.deps.Build.Version, s.deps.Build.Commit, s.deps.Build.BuildTime))

	if s.deps.Metrics != nil {
		mux.Handle("GET "+s.deps.MetricsPath, s.deps.Metrics.Handler())
	}

	var handler http.Handler = mux
	handler = loggingMiddleware(s.logger)(handler)
	handler = requestIDMiddleware(handler)
	handler = recoveryMiddleware(s.logger)(handler)
	return handler
}

// route registers h under pattern, instrumented with the route label.
func (s *Server) route(mux *http.ServeMux, pattern, route string, h http.Handler) {
	h = metricsMiddleware(s.deps.Metrics, route)(h)
	if s.deps.Tracer != nil {
		h = s.deps.Tracer.Middleware(route)(h)
	}
	mux.Handle(pattern, h)
}
