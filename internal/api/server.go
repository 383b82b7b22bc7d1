// Package api serves win probability estimates, game insights and
// statistics over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/service"
)

const maxBodyBytes = 1 << 20

// Server is the HTTP API server
type Server struct {
	probability  *service.ProbabilityService
	statistics   *service.StatisticsService
	snapshots    *service.SnapshotService
	limiter      *rate.Limiter
	metricsPath  string
	port         int
	readTimeout  time.Duration
	writeTimeout time.Duration
	server       *http.Server
	logger       *logrus.Entry
}

// NewServer creates a new API server
func NewServer(
	cfg config.APIConfig,
	probability *service.ProbabilityService,
	statistics *service.StatisticsService,
	snapshots *service.SnapshotService,
	logger *logrus.Logger,
) *Server {
	return &Server{
		probability:  probability,
		statistics:   statistics,
		snapshots:    snapshots,
		limiter:      rate.NewLimiter(rate.Limit(cfg.RateLimitPerSecond), cfg.RateLimitBurst),
		metricsPath:  cfg.MetricsPath,
		port:         cfg.Port,
		readTimeout:  time.Duration(cfg.ReadTimeoutSeconds) * time.Second,
		writeTimeout: time.Duration(cfg.WriteTimeoutSeconds) * time.Second,
		logger:       logger.WithField("component", "api"),
	}
}

// Handler returns the routed, instrumented handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.route(mux, "POST /v1/probability", s.handleEstimate)
	s.route(mux, "GET /v1/games/active/probability", s.handleActiveProbability)
	s.route(mux, "GET /v1/games/active/insights", s.handleActiveInsights)
	s.route(mux, "GET /v1/statistics", s.handleStatistics)
	s.route(mux, "POST /v1/statistics/refresh", s.handleRefreshStatistics)
	s.route(mux, "GET /v1/backtest", s.handleBacktest)
	s.route(mux, "PUT /v1/snapshot", s.handleImportSnapshot)
	mux.Handle("GET "+s.metricsPath, metrics.Handler())

	return s.withRequestID(s.withRateLimit(mux))
}

func (s *Server) route(mux *http.ServeMux, pattern string, h http.HandlerFunc) {
	mux.Handle(pattern, s.instrument(pattern, h))
}

// Start starts the API server in the background and stops it when ctx is done
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		s.logger.WithField("port", s.port).Info("API server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("API server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("API server shutdown error")
		}
	}()

	return nil
}

// Shutdown gracefully shuts down the API server
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}

	s.logger.Info("API server shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
