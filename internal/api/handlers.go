package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/yourusername/rookscore/internal/backtest"
	"github.com/yourusername/rookscore/internal/display"
	"github.com/yourusername/rookscore/internal/insights"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/service"
	"github.com/yourusername/rookscore/internal/store"
)

// EstimateRequest is the body of POST /v1/probability. An absent
// historicalGames uses the stored history.
type EstimateRequest struct {
	CurrentGame     models.Game              `json:"currentGame"`
	HistoricalGames *[]models.HistoricalGame `json:"historicalGames,omitempty"`
}

// EstimateResponse carries an estimate and, while the game is in progress,
// its rendered form
type EstimateResponse struct {
	Result  models.ProbabilityResult `json:"result"`
	Display *display.Display         `json:"display"`
}

// InsightsResponse carries the insights for the game in progress
type InsightsResponse struct {
	Available bool               `json:"available"`
	Insights  *insights.Insights `json:"insights,omitempty"`
	Lines     []string           `json:"lines"`
}

// ImportResponse describes a completed snapshot import
type ImportResponse struct {
	BatchID    string    `json:"batchId"`
	Imported   []string  `json:"imported"`
	Skipped    []string  `json:"skipped"`
	ImportedAt time.Time `json:"importedAt"`
}

// ErrorResponse is the body of every error reply
type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

func (s *Server) handleEstimate(w http.ResponseWriter, r *http.Request) {
	var req EstimateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	var history []models.HistoricalGame
	if req.HistoricalGames != nil {
		history = *req.HistoricalGames
		if history == nil {
			history = []models.HistoricalGame{}
		}
	}

	result := s.probability.Estimate(r.Context(), req.CurrentGame, history)
	writeJSON(w, http.StatusOK, newEstimateResponse(req.CurrentGame, result))
}

func (s *Server) handleActiveProbability(w http.ResponseWriter, r *http.Request) {
	est, err := s.probability.ActiveGame(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newEstimateResponse(est.Game, est.Result))
}

func (s *Server) handleActiveInsights(w http.ResponseWriter, r *http.Request) {
	in, ok, err := s.statistics.InsightsFor(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := InsightsResponse{Available: ok, Lines: []string{}}
	if ok {
		resp.Insights = &in
		resp.Lines = in.Lines()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statistics.Statistics(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleRefreshStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := s.statistics.Refresh(r.Context(), service.TriggerAPI)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// handleBacktest replays the stored games. Query parameters min_history,
// max_history, min_rounds and buckets override the defaults. Predictions are
// left out unless predictions=true.
func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	cfg, err := backtestConfig(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if err := cfg.Validate(); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.probability.Backtest(r.Context(), cfg)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if r.URL.Query().Get("predictions") != "true" {
		result.Predictions = nil
	}
	writeJSON(w, http.StatusOK, result)
}

func backtestConfig(r *http.Request) (backtest.Config, error) {
	cfg := backtest.DefaultConfig()
	query := r.URL.Query()
	for name, dst := range map[string]*int{
		"min_history": &cfg.MinHistory,
		"max_history": &cfg.MaxHistory,
		"min_rounds":  &cfg.MinRounds,
		"buckets":     &cfg.CalibrationBuckets,
	} {
		raw := query.Get(name)
		if raw == "" {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return backtest.Config{}, fmt.Errorf("invalid %s: %q", name, raw)
		}
		*dst = v
	}
	return cfg, nil
}

// handleImportSnapshot loads a localStorage export sent as the request body.
// The keys query parameter, comma separated, limits the import.
func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	var keys []string
	if raw := r.URL.Query().Get("keys"); raw != "" {
		keys = strings.Split(raw, ",")
		for _, key := range keys {
			if !slices.Contains(store.KnownKeys, key) {
				writeError(w, r, http.StatusBadRequest, fmt.Sprintf("unknown snapshot key %q", key))
				return
			}
		}
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	source := "api"
	if id := RequestID(r.Context()); id != "" {
		source = "api:" + id
	}
	result, err := s.snapshots.Import(r.Context(), data, store.ImportOptions{Source: source, Keys: keys})
	if err != nil {
		s.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, ImportResponse{
		BatchID:    result.BatchID,
		Imported:   result.Imported,
		Skipped:    result.Skipped,
		ImportedAt: result.ImportedAt,
	})
}

func newEstimateResponse(game models.Game, result models.ProbabilityResult) EstimateResponse {
	resp := EstimateResponse{Result: result}
	if d, ok := display.Render(game, result); ok {
		resp.Display = &d
	}
	return resp
}

// fail maps service errors to responses
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, models.ErrInvalidSnapshot) {
		status = http.StatusUnprocessableEntity
	}
	s.logger.WithError(err).WithField("request_id", RequestID(r.Context())).Error("Request failed")
	writeError(w, r, status, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg, RequestID: RequestID(r.Context())})
}
