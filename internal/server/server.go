// Package server exposes question generation and content pinning over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/abhisek/gapquiz/internal/config"
	"github.com/abhisek/gapquiz/internal/monitoring"
	"github.com/abhisek/gapquiz/internal/pinning"
	"github.com/abhisek/gapquiz/internal/questiongen"
	"github.com/abhisek/gapquiz/internal/store"
	"github.com/abhisek/gapquiz/internal/tracing"
)

// Deps are the collaborators the handlers call into. Pinner and Events
// may be nil: pin requests then answer 503, and pins go unrecorded.
type Deps struct {
	Generator *questiongen.Generator
	Pinner    pinning.Pinner
	Backend   string
	Events    store.EventRepo
	Metrics   *monitoring.Metrics
	Logger    *zap.Logger
}

// Server is the gapquiz HTTP edge.
type Server struct {
	engine  *gin.Engine
	http    *http.Server
	limiter *RateLimiter

	generator *questiongen.Generator
	pinner    pinning.Pinner
	backend   string
	events    store.EventRepo
	metrics   *monitoring.Metrics
	logger    *zap.Logger

	shutdownTimeout time.Duration
}

// New builds the router and its middleware chain.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if deps.Generator == nil {
		return nil, fmt.Errorf("server: generator is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = monitoring.New()
	}
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}

	s := &Server{
		engine:          gin.New(),
		generator:       deps.Generator,
		pinner:          deps.Pinner,
		backend:         deps.Backend,
		events:          deps.Events,
		metrics:         deps.Metrics,
		logger:          deps.Logger,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}
	if s.shutdownTimeout <= 0 {
		s.shutdownTimeout = 10 * time.Second
	}
	if cfg.RateLimit.MaxRequests > 0 {
		s.limiter = NewRateLimiter(cfg.RateLimit.MaxRequests, cfg.RateLimit.Window)
	}

	s.engine.Use(RequestID(), AccessLog(s.logger), Recovery(s.logger))
	if cfg.Tracing.Enabled {
		s.engine.Use(tracing.GinMiddleware())
	}
	s.engine.Use(s.metrics.Middleware())
	s.routes()

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) routes() {
	s.engine.GET("/health", s.health)
	s.engine.GET("/metrics", s.metrics.Handler())

	limited := s.engine.Group("/")
	if s.limiter != nil {
		limited.Use(s.limiter.Middleware())
	}
	limited.POST("/generate-questions", s.generateQuestions)
	limited.POST("/test-sample", s.testSample)
	limited.POST("/pin", s.pin)
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		s.Close()
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	defer s.Close()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

// Close stops background work owned by the server. It does not stop a
// running listener; cancel the context given to Run for that.
func (s *Server) Close() {
	if s.limiter != nil {
		s.limiter.Stop()
	}
}
