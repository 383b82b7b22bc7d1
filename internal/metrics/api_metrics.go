// Package metrics defines HTTP API metrics.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// API metrics
var (
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Total number of API requests by route and status code",
	}, []string{"route", "code"})
	APIRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "api_request_duration_seconds",
		Help:      "Duration of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	APIRateLimitedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_rate_limited_total",
		Help:      "Total number of API requests rejected by the rate limiter",
	})
)

// RecordAPIRequest records a served API request.
func RecordAPIRequest(route string, statusCode int, durationSeconds float64) {
	APIRequestsTotal.WithLabelValues(route, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordRateLimited records a request rejected by the rate limiter.
func RecordRateLimited() {
	APIRateLimitedTotal.Inc()
}
