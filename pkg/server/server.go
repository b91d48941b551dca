package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"shimmer-hq/shimmer/pkg/config"
	"shimmer-hq/shimmer/pkg/processing"
	"shimmer-hq/shimmer/pkg/server/middleware"
	"shimmer-hq/shimmer/pkg/telemetry/health"
	"shimmer-hq/shimmer/pkg/telemetry/metrics"
)

// SourceHTTP is the audit source of lines received over HTTP.
const SourceHTTP = "http"

// Options carries the optional collaborators of a Server.
type Options struct {
	// Metrics serves /metrics and records HTTP metrics. Nil disables both.
	Metrics *metrics.Collector

	// Health backs the readiness endpoint. A checker with a codec check is
	// created when nil.
	Health *health.Checker

	// Version is reported by the version endpoint.
	Version health.VersionInfo
}

// Server is the Shimmer HTTP API server.
type Server struct {
	config     *config.ServerConfig
	telemetry  *config.TelemetryConfig
	processor  *processing.Processor
	opts       Options
	httpServer *http.Server
	logger     *slog.Logger

	shutdownOnce sync.Once
	mu           sync.RWMutex
	isRunning    bool
	addr         net.Addr
}

// NewServer creates a server for the codec operations of proc.
func NewServer(cfg *config.Config, proc *processing.Processor, opts Options) *Server {
	if opts.Health == nil {
		opts.Health = health.New(cfg.Telemetry.Health.CheckTimeout)
		opts.Health.RegisterCheck("codec", health.CodecCheck(proc.Codec().Grammar()))
	}
	if opts.Version.Grammar == "" {
		opts.Version.Grammar = proc.Codec().Grammar().Version
	}

	return &Server{
		config:    &cfg.Server,
		telemetry: &cfg.Telemetry,
		processor: proc,
		opts:      opts,
		logger:    slog.Default().With("component", "server"),
	}
}

// Start listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.ListenAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. It
// takes ownership of ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		ln.Close()
		return fmt.Errorf("server is already running")
	}
	s.isRunning = true
	s.addr = ln.Addr()
	s.httpServer = &http.Server{
		Handler:        s.Handler(),
		ReadTimeout:    s.config.ReadTimeout,
		WriteTimeout:   s.config.WriteTimeout,
		IdleTimeout:    s.config.IdleTimeout,
		MaxHeaderBytes: s.config.MaxHeaderBytes,
	}
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("starting API server", "address", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
		close(errChan)
	}()

	select {
	case <-ctx.Done():
		s.logger.Info("context cancelled, initiating shutdown")
		if err := s.Shutdown(context.Background()); err != nil {
			return err
		}
		return <-errChan
	case err, ok := <-errChan:
		if !ok {
			return nil
		}
		return err
	}
}

// Shutdown gracefully shuts down the server, waiting at most the
// configured shutdown timeout for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error

	s.shutdownOnce.Do(func() {
		s.mu.RLock()
		running, httpServer := s.isRunning, s.httpServer
		s.mu.RUnlock()
		if !running {
			return
		}

		s.logger.Info("initiating graceful shutdown", "timeout", s.config.ShutdownTimeout.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
		defer cancel()

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

// Addr returns the address the server listens on, or nil before Serve.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.addr
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	routes := s.registerRoutes(mux)

	routeOf := func(r *http.Request) string {
		if routes[r.URL.Path] {
			return r.URL.Path
		}
		return "other"
	}

	var handler http.Handler = mux
	handler = middleware.BodyLimitMiddleware(s.config.MaxBodyBytes)(handler)
	handler = middleware.LoggingMiddleware(s.opts.Metrics, routeOf)(handler)
	handler = middleware.RequestIDMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

// registerRoutes mounts every endpoint and returns the set of known paths.
func (s *Server) registerRoutes(mux *http.ServeMux) map[string]bool {
	p := s.processor
	api := map[string]http.Handler{
		PathValidate:  handleLines(p.ValidateBatch, p.NewRun),
		PathLint:      handleLines(p.LintBatch, p.NewRun),
		PathSymbolize: handleLines(ignoreRun(p.SymbolizeBatch), p.NewRun),
		PathGloss:     handleLines(ignoreRun(p.GlossBatch), p.NewRun),
		PathNormalize: handleLines(ignoreRun(p.NormalizeBatch), p.NewRun),
	}

	routes := make(map[string]bool)
	for path, h := range api {
		mux.Handle(path, h)
		routes[path] = true
	}

	if s.opts.Metrics != nil && s.telemetry.Metrics.Enabled {
		mux.Handle(s.telemetry.Metrics.Path, s.opts.Metrics.Handler())
		routes[s.telemetry.Metrics.Path] = true
	}

	hc := s.telemetry.Health
	health.Mount(mux, hc, s.opts.Health, s.opts.Version)
	if hc.Enabled {
		routes[hc.LivenessPath] = true
		routes[hc.ReadinessPath] = true
		routes[hc.VersionPath] = true
	}

	return routes
}
