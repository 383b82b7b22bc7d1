// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "rookscore"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Estimator metrics
var (
	EstimatesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "estimates_total",
		Help:      "Total number of win probability estimates by source",
	}, []string{"source"})
	EstimateDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimate_duration_seconds",
		Help:      "Duration of win probability estimates in seconds",
		Buckets:   []float64{0.00001, 0.0001, 0.001, 0.01, 0.1},
	})
	EstimatedProbability = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "estimated_us_probability",
		Help:      "Distribution of estimated win probabilities for us",
		Buckets:   prometheus.LinearBuckets(10, 10, 9),
	})
	FactorContribution = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "factor_contribution",
		Help:      "Reported value of each estimate factor",
		Buckets:   []float64{-10, -5, -3, -1, 0, 1, 3, 5, 10},
	}, []string{"factor"})
	HistoricalGamesUsed = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "historical_games_used",
		Help:      "Number of historical games passed to the most recent estimate",
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(EstimatesTotal)
		registry.MustRegister(EstimateDuration)
		registry.MustRegister(EstimatedProbability)
		registry.MustRegister(FactorContribution)
		registry.MustRegister(HistoricalGamesUsed)

		registry.MustRegister(APIRequestsTotal)
		registry.MustRegister(APIRequestDuration)
		registry.MustRegister(APIRateLimitedTotal)

		registry.MustRegister(HistoryCacheHitsTotal)
		registry.MustRegister(HistoryCacheMissesTotal)
		registry.MustRegister(StoreOperationsTotal)
		registry.MustRegister(StatisticsRefreshTotal)
		registry.MustRegister(StatisticsGamesTotal)

		registry.MustRegister(BacktestRunsTotal)
		registry.MustRegister(BacktestPredictions)
		registry.MustRegister(BacktestBrierScore)
		registry.MustRegister(BacktestAccuracy)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordEstimate records a completed estimate.
func RecordEstimate(source string, durationSeconds, usProbability float64, historicalGames int) {
	EstimatesTotal.WithLabelValues(source).Inc()
	EstimateDuration.Observe(durationSeconds)
	EstimatedProbability.Observe(usProbability)
	HistoricalGamesUsed.Set(float64(historicalGames))
}

// RecordFactor records the reported value of a named factor.
func RecordFactor(name string, value float64) {
	FactorContribution.WithLabelValues(name).Observe(value)
}
