// Package logger provides audit logging.
package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AuditLogger provides dedicated audit trail logging for snapshot writes.
type AuditLogger struct {
	*logrus.Entry
}

// NewAuditLogger creates a new audit logger.
func NewAuditLogger(baseLogger *logrus.Logger) *AuditLogger {
	return &AuditLogger{
		Entry: baseLogger.WithField("component", "audit"),
	}
}

// LogSnapshotImport logs a snapshot import into the store.
func (al *AuditLogger) LogSnapshotImport(batchID, source, driver string, keys []string, timestamp time.Time) {
	al.WithFields(logrus.Fields{
		"batch_id":  batchID,
		"source":    source,
		"driver":    driver,
		"keys":      keys,
		"key_count": len(keys),
		"timestamp": timestamp.Unix(),
	}).Info("Snapshot imported")
}

// LogStatisticsRefresh logs a recomputation of the stored statistics.
func (al *AuditLogger) LogStatisticsRefresh(trigger string, totalGames, teams int, durationMs float64) {
	al.WithFields(logrus.Fields{
		"trigger":     trigger,
		"total_games": totalGames,
		"teams":       teams,
		"duration_ms": durationMs,
	}).Info("Game statistics refreshed")
}

// LogCacheInvalidation logs a history cache invalidation.
func (al *AuditLogger) LogCacheInvalidation(reason string) {
	al.WithFields(logrus.Fields{
		"event_type": "cache_invalidation",
		"reason":     reason,
	}).Info("History cache invalidated")
}
