// Package metrics defines snapshot store and cache metrics.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Store and cache metrics
var (
	HistoryCacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_cache_hits_total",
		Help:      "Total number of historical game cache hits",
	})
	HistoryCacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "history_cache_misses_total",
		Help:      "Total number of historical game cache misses",
	})
	StoreOperationsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "store_operations_total",
		Help:      "Total number of snapshot store operations by driver, operation and outcome",
	}, []string{"driver", "operation", "outcome"})
	StatisticsRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "statistics_refresh_total",
		Help:      "Total number of statistics refreshes by trigger and outcome",
	}, []string{"trigger", "outcome"})
	StatisticsGamesTotal = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "statistics_games",
		Help:      "Number of completed games in the latest statistics",
	})
)

// RecordCacheHit records a history cache hit.
func RecordCacheHit() {
	HistoryCacheHitsTotal.Inc()
}

// RecordCacheMiss records a history cache miss.
func RecordCacheMiss() {
	HistoryCacheMissesTotal.Inc()
}

// RecordStoreOperation records a snapshot store operation.
func RecordStoreOperation(driver, operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StoreOperationsTotal.WithLabelValues(driver, operation, outcome).Inc()
}

// RecordStatisticsRefresh records a statistics refresh.
func RecordStatisticsRefresh(trigger string, totalGames int, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	StatisticsRefreshTotal.WithLabelValues(trigger, outcome).Inc()
	if err == nil {
		StatisticsGamesTotal.Set(float64(totalGames))
	}
}
