package metrics

import "github.com/prometheus/client_golang/prometheus"

// Backtest metrics
var (
	BacktestRunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "backtest_runs_total",
		Help:      "Total number of estimator backtests",
	})
	BacktestPredictions = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_predictions",
		Help:      "Number of predictions scored by the most recent backtest",
	})
	BacktestBrierScore = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_brier_score",
		Help:      "Brier score of the most recent backtest",
	})
	BacktestAccuracy = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "backtest_accuracy_ratio",
		Help:      "Share of decisive predictions whose favorite won, most recent backtest",
	})
)

// RecordBacktest records a completed backtest. Score gauges are left alone
// when nothing was scored.
func RecordBacktest(predictions int, brierScore, accuracy float64) {
	BacktestRunsTotal.Inc()
	BacktestPredictions.Set(float64(predictions))
	if predictions == 0 {
		return
	}
	BacktestBrierScore.Set(brierScore)
	BacktestAccuracy.Set(accuracy)
}
