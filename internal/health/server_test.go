package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, s *Server, path string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func TestHealthAndLive(t *testing.T) {
	s := NewServer(Config{ServiceName: "rookscore", Version: "1.2.0"})

	rec, body := serve(t, s, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.0", body["version"])
	assert.NotEmpty(t, body["timestamp"])

	rec, body = serve(t, s, "/live")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "rookscore", body["service"])
}

func TestReady(t *testing.T) {
	storeErr := error(nil)
	s := NewServer(Config{
		ServiceName: "rookscore",
		Checks: map[string]Pinger{
			"store": pingFunc(func(ctx context.Context) error { return storeErr }),
		},
	})

	rec, body := serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code, "not ready until marked")
	assert.Equal(t, "not_ready", body["status"])

	s.SetReady(true)
	rec, body = serve(t, s, "/ready")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, map[string]any{"service": "ok", "store": "ok"}, body["checks"])

	storeErr = errors.New("database is locked")
	rec, body = serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "error: database is locked", checks["store"])
}

func TestReady_SlowCheckTimesOut(t *testing.T) {
	s := NewServer(Config{
		ServiceName:  "rookscore",
		CheckTimeout: 20 * time.Millisecond,
		Checks: map[string]Pinger{
			"store": pingFunc(func(ctx context.Context) error {
				<-ctx.Done()
				return ctx.Err()
			}),
			"cache": pingFunc(func(ctx context.Context) error { return nil }),
		},
	})
	s.SetReady(true)

	rec, body := serve(t, s, "/ready")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "ok", checks["cache"])
	assert.Equal(t, "error: context deadline exceeded", checks["store"])
}

func TestHealthDetails(t *testing.T) {
	s := NewServer(Config{
		ServiceName: "rookscore",
		Details: map[string]DetailFunc{
			"history_cache": func() any { return map[string]int{"hits": 3} },
		},
	})

	_, body := serve(t, s, "/health")
	details := body["details"].(map[string]any)
	assert.Equal(t, map[string]any{"hits": 3.0}, details["history_cache"])
}

func TestDefaults(t *testing.T) {
	s := NewServer(Config{})
	assert.Equal(t, 8091, s.cfg.Port)
	assert.Equal(t, 3*time.Second, s.cfg.CheckTimeout)
	assert.Equal(t, 9000, NewServer(Config{Port: 9000}).cfg.Port)
}
