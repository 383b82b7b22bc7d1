// Package client calls a remote rookscore API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/rookscore/internal/api"
	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/models"
)

// Config holds configuration for the API client
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	MaxRetries        int
	RetryWaitMin      time.Duration
	RetryWaitMax      time.Duration
	RateLimit         float64 // requests per second, 0 for unlimited
	CircuitBreakerMax int     // consecutive failures before the circuit opens
}

// ConfigFrom builds a client Config from the application configuration
func ConfigFrom(cfg config.ClientConfig) Config {
	c := DefaultConfig()
	c.BaseURL = cfg.ServerURL
	if cfg.TimeoutSeconds > 0 {
		c.Timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	c.MaxRetries = cfg.MaxRetries
	c.RateLimit = cfg.RateLimit
	return c
}

// DefaultConfig returns recommended defaults
func DefaultConfig() Config {
	return Config{
		BaseURL:           "http://localhost:8090",
		Timeout:           10 * time.Second,
		MaxRetries:        3,
		RetryWaitMin:      100 * time.Millisecond,
		RetryWaitMax:      2 * time.Second,
		RateLimit:         5,
		CircuitBreakerMax: 5,
	}
}

// Client is a rate-limited, retrying client for the rookscore API
type Client struct {
	baseURL           string
	httpClient        *retryablehttp.Client
	limiter           *rate.Limiter
	circuitBreakerMax int

	mu                sync.Mutex
	consecutiveErrors int
	lastError         error
}

// New creates a new API client
func New(cfg Config, logger *logrus.Logger) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient.Timeout = cfg.Timeout
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.CheckRetry = retryPolicy
	retryClient.Logger = nil
	if logger != nil {
		retryClient.Logger = leveledLogger{logger.WithField("component", "client")}
	}

	limit := rate.Inf
	if cfg.RateLimit > 0 {
		limit = rate.Limit(cfg.RateLimit)
	}

	return &Client{
		baseURL:           strings.TrimRight(cfg.BaseURL, "/"),
		httpClient:        retryClient,
		limiter:           rate.NewLimiter(limit, 1),
		circuitBreakerMax: cfg.CircuitBreakerMax,
	}
}

// Estimate asks the server for the win probability of game. A nil history
// lets the server use its stored history.
func (c *Client) Estimate(ctx context.Context, game models.Game, history []models.HistoricalGame) (api.EstimateResponse, error) {
	req := api.EstimateRequest{CurrentGame: game}
	if history != nil {
		req.HistoricalGames = &history
	}

	var resp api.EstimateResponse
	if err := c.do(ctx, http.MethodPost, "/v1/probability", req, &resp); err != nil {
		return api.EstimateResponse{}, err
	}
	return resp, nil
}

// ActiveGame fetches the estimate for the server's stored game in progress
func (c *Client) ActiveGame(ctx context.Context) (api.EstimateResponse, error) {
	var resp api.EstimateResponse
	if err := c.do(ctx, http.MethodGet, "/v1/games/active/probability", nil, &resp); err != nil {
		return api.EstimateResponse{}, err
	}
	return resp, nil
}

// Statistics fetches the server's stored statistics
func (c *Client) Statistics(ctx context.Context) (models.GameStatistics, error) {
	var stats models.GameStatistics
	if err := c.do(ctx, http.MethodGet, "/v1/statistics", nil, &stats); err != nil {
		return models.GameStatistics{}, err
	}
	return stats, nil
}

// Close releases idle connections
func (c *Client) Close() error {
	c.httpClient.HTTPClient.CloseIdleConnections()
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.checkCircuit(); err != nil {
		return err
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter error: %w", err)
	}

	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	c.record(err, resp)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr api.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&apiErr) == nil && apiErr.Error != "" {
			return &StatusError{StatusCode: resp.StatusCode, Message: apiErr.Error}
		}
		return &StatusError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// StatusError is a non-success reply from the server
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

func (c *Client) checkCircuit() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.circuitBreakerMax > 0 && c.consecutiveErrors >= c.circuitBreakerMax {
		return fmt.Errorf("circuit breaker open: %v", c.lastError)
	}
	return nil
}

func (c *Client) record(err error, resp *http.Response) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.consecutiveErrors++
		c.lastError = err
		return
	}
	if resp.StatusCode < 500 {
		c.consecutiveErrors = 0
	}
}

// retryPolicy retries network errors, 429 and gateway-class 5xx replies
func retryPolicy(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return true, nil
	}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

// leveledLogger adapts logrus to retryablehttp.LeveledLogger
type leveledLogger struct {
	entry *logrus.Entry
}

func (l leveledLogger) fields(keysAndValues []interface{}) *logrus.Entry {
	fields := logrus.Fields{}
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return l.entry.WithFields(fields)
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Error(msg)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Info(msg)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Debug(msg)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.fields(keysAndValues).Warn(msg)
}
