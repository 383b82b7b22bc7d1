package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rookscore/internal/api"
	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/models"
)

func testConfig(url string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = url
	cfg.RetryWaitMin = time.Millisecond
	cfg.RetryWaitMax = 5 * time.Millisecond
	cfg.RateLimit = 0
	return cfg
}

func TestEstimate(t *testing.T) {
	var got api.EstimateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/probability", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		json.NewEncoder(w).Encode(api.EstimateResponse{Result: models.ProbabilityResult{Us: 61, Dem: 39}})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	defer c.Close()

	game := models.Game{Rounds: []models.Round{{BiddingTeam: models.TeamUs, BidAmount: 150}}}
	resp, err := c.Estimate(context.Background(), game, nil)
	require.NoError(t, err)

	assert.Equal(t, 61.0, resp.Result.Us)
	assert.Nil(t, got.HistoricalGames, "nil history is omitted")
	assert.Equal(t, 150, got.CurrentGame.Rounds[0].BidAmount)
}

func TestEstimate_ExplicitEmptyHistory(t *testing.T) {
	var raw map[string]json.RawMessage
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(api.EstimateResponse{})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	_, err := c.Estimate(context.Background(), models.Game{}, []models.HistoricalGame{})
	require.NoError(t, err)

	assert.JSONEq(t, `[]`, string(raw["historicalGames"]))
}

func TestRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		json.NewEncoder(w).Encode(models.GameStatistics{TotalGames: 4})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	stats, err := c.Statistics(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, int32(3), calls.Load())
}

func TestClientErrorsAreNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(api.ErrorResponse{Error: "activeGameState: invalid snapshot"})
	}))
	defer srv.Close()

	c := New(testConfig(srv.URL), nil)
	_, err := c.ActiveGame(context.Background())

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusUnprocessableEntity, statusErr.StatusCode)
	assert.Equal(t, "activeGameState: invalid snapshot", statusErr.Message)
	assert.Equal(t, int32(1), calls.Load())
}

func TestCircuitBreaker(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.MaxRetries = 0
	cfg.CircuitBreakerMax = 2
	c := New(cfg, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := c.Statistics(ctx)
		require.Error(t, err)
	}
	_, err := c.Statistics(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "circuit breaker open")
}

func TestConfigFrom(t *testing.T) {
	cfg := ConfigFrom(config.ClientConfig{
		ServerURL:      "http://rook.example:9000/",
		TimeoutSeconds: 3,
		MaxRetries:     1,
		RateLimit:      2,
	})

	assert.Equal(t, "http://rook.example:9000/", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, 1, cfg.MaxRetries)
	assert.Equal(t, 2.0, cfg.RateLimit)

	c := New(cfg, nil)
	assert.Equal(t, "http://rook.example:9000", c.baseURL)
}
