// Package health serves liveness and readiness endpoints for the rookscore
// server on a port of its own.
package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	defaultPort         = 8091
	defaultCheckTimeout = 3 * time.Second
)

// Pinger is a dependency whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// DetailFunc reports state shown on /health, such as cache statistics.
type DetailFunc func() any

// HealthResponse is the body of /health and /live.
type HealthResponse struct {
	Status    string         `json:"status"`
	Service   string         `json:"service"`
	Timestamp string         `json:"timestamp,omitempty"`
	Version   string         `json:"version,omitempty"`
	Commit    string         `json:"commit,omitempty"`
	Details   map[string]any `json:"details,omitempty"`
}

// ReadyResponse is the body of /ready.
type ReadyResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Checks   map[string]string `json:"checks"`
	Duration string            `json:"duration"`
}

// Config configures the health server. Checks are pinged on every readiness
// request; Details are reported on /health.
type Config struct {
	ServiceName  string
	Version      string
	Commit       string
	Port         int
	CheckTimeout time.Duration
	Logger       *logrus.Logger
	Checks       map[string]Pinger
	Details      map[string]DetailFunc
}

// Server answers health checks.
type Server struct {
	cfg    Config
	ready  atomic.Bool
	server *http.Server
	logger *logrus.Entry
}

// NewServer creates a health server. Port defaults to 8091.
func NewServer(cfg Config) *Server {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.CheckTimeout <= 0 {
		cfg.CheckTimeout = defaultCheckTimeout
	}
	base := cfg.Logger
	if base == nil {
		base = logrus.New()
		base.SetOutput(io.Discard)
	}

	return &Server{
		cfg:    cfg,
		logger: base.WithField("component", "health"),
	}
}

// SetReady marks whether the server should receive traffic.
func (s *Server) SetReady(ready bool) {
	s.ready.Store(ready)
}

// IsReady reports the value last given to SetReady.
func (s *Server) IsReady() bool {
	return s.ready.Load()
}

// Handler returns the health routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /live", s.handleLive)
	mux.HandleFunc("GET /ready", s.handleReady)
	return mux
}

// Start serves the health routes in the background until ctx is done.
func (s *Server) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      s.cfg.CheckTimeout + 2*time.Second,
	}

	go func() {
		s.logger.WithField("port", s.cfg.Port).Info("Health server starting")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.WithError(err).Error("Health server error")
		}
	}()

	go func() {
		<-ctx.Done()
		if err := s.Shutdown(); err != nil {
			s.logger.WithError(err).Warn("Health server shutdown error")
		}
	}()

	return nil
}

// Shutdown stops the server, waiting up to five seconds for open requests.
func (s *Server) Shutdown() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:    "ok",
		Service:   s.cfg.ServiceName,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.Version,
		Commit:    s.cfg.Commit,
	}
	if len(s.cfg.Details) > 0 {
		resp.Details = lo.MapValues(s.cfg.Details, func(detail DetailFunc, _ string) any {
			return detail()
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Service: s.cfg.ServiceName})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	checks := s.ping(r.Context())

	healthy := s.IsReady()
	checks["service"] = "ok"
	if !healthy {
		checks["service"] = "not_ready"
	}
	for _, result := range checks {
		if result != "ok" && result != "not_ready" {
			healthy = false
		}
	}

	resp := ReadyResponse{
		Status:   "ok",
		Service:  s.cfg.ServiceName,
		Checks:   checks,
		Duration: time.Since(start).String(),
	}
	status := http.StatusOK
	if !healthy {
		resp.Status = "not_ready"
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, resp)
}

// ping runs every check concurrently, each under the check timeout
func (s *Server) ping(ctx context.Context) map[string]string {
	names := lo.Keys(s.cfg.Checks)
	slices.Sort(names)

	results := make([]string, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		i, name := i, name
		wg.Add(1)
		go func() {
			defer wg.Done()
			checkCtx, cancel := context.WithTimeout(ctx, s.cfg.CheckTimeout)
			defer cancel()

			results[i] = "ok"
			if err := s.cfg.Checks[name].Ping(checkCtx); err != nil {
				results[i] = "error: " + err.Error()
				s.logger.WithError(err).WithField("check", name).Warn("Readiness check failed")
			}
		}()
	}
	wg.Wait()

	return lo.SliceToMap(lo.Range(len(names)), func(i int) (string, string) {
		return names[i], results[i]
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
