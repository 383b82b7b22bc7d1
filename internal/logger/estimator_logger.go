// Package logger provides estimator-specific logging.
package logger

import (
	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/models"
)

// EstimatorLogger provides dedicated logging for win probability estimates.
type EstimatorLogger struct {
	*logrus.Entry
}

// NewEstimatorLogger creates a new estimator logger.
func NewEstimatorLogger(baseLogger *logrus.Logger) *EstimatorLogger {
	return &EstimatorLogger{
		Entry: baseLogger.WithField("component", "estimator"),
	}
}

// LogEstimate logs a completed estimate with its factor breakdown.
func (el *EstimatorLogger) LogEstimate(source string, roundsPlayed, historicalGames int, result models.ProbabilityResult, durationMs float64) {
	fields := logrus.Fields{
		"source":           source,
		"rounds_played":    roundsPlayed,
		"historical_games": historicalGames,
		"us_probability":   result.Us,
		"dem_probability":  result.Dem,
		"duration_ms":      durationMs,
	}
	for _, f := range result.Factors {
		fields[factorField(f.Name)] = f.Value
	}
	el.WithFields(fields).Debug("Win probability estimated")
}

// LogHistoryUnavailable logs an estimate that fell back to an empty history.
func (el *EstimatorLogger) LogHistoryUnavailable(source string, err error) {
	el.WithFields(logrus.Fields{
		"source": source,
		"error":  err.Error(),
	}).Warn("Historical games unavailable, estimating without history")
}

func factorField(name string) string {
	switch name {
	case models.FactorScoreDifference:
		return "factor_score_difference"
	case models.FactorMomentum:
		return "factor_momentum"
	case models.FactorComebackTendency:
		return "factor_comeback_tendency"
	case models.FactorBidStrength:
		return "factor_bid_strength"
	default:
		return "factor_other"
	}
}
