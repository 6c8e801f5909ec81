// Package server exposes the balance engine as an HTTP JSON API.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/scenario"
)

// maxBodySize bounds scenario documents; a full plant is a few kilobytes.
const maxBodySize = "1M"

// Config holds the HTTP server settings.
type Config struct {
	// Listen is the address to bind, e.g. ":8080".
	Listen string

	// ShutdownTimeout bounds the graceful shutdown after the context is cancelled.
	ShutdownTimeout time.Duration

	// Export controls rendering of ?format= attachments.
	Export export.Options
}

// Server wires the engine to echo routes.
type Server struct {
	cfg     Config
	echo    *echo.Echo
	runner  *scenario.Runner
	metrics *Metrics
	logger  zerolog.Logger // logger is immutable (copy-on-write)
	started time.Time
}

// New creates a server with its own Prometheus registry.
func New(cfg Config, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = jsonSerializer{}
	e.HTTPErrorHandler = errorHandler(e)

	reg := prometheus.NewRegistry()
	s := &Server{
		cfg:     cfg,
		echo:    e,
		runner:  scenario.NewRunner(),
		metrics: NewMetrics(reg),
		logger:  logger,
		started: time.Now(),
	}

	e.Use(requestLogger(logger, s.metrics))
	e.Use(middleware.Recover())
	e.Use(middleware.BodyLimit(maxBodySize))

	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	api := e.Group("/api/v1")
	api.GET("/feedstocks", s.listFeedstocks)
	api.GET("/humidity", s.humidity)
	api.POST("/yield", s.yield)
	api.POST("/water-balance", s.waterBalance)
	api.POST("/scenario", s.runScenario)

	return s
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.cfg.Listen).Msg("starting HTTP API")
		if err := s.echo.Start(s.cfg.Listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving on %s: %w", s.cfg.Listen, err)
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down HTTP API")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// run executes a scenario and records its latency and outcome.
func (s *Server) run(doc *scenario.Document, stages scenario.Stage, label string) (*scenario.Report, error) {
	start := time.Now()
	report, err := s.runner.Run(doc, stages)
	s.metrics.CalculationSeconds.WithLabelValues(label).Observe(time.Since(start).Seconds())

	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	s.metrics.Calculations.WithLabelValues(label, outcome).Inc()
	return report, err
}
