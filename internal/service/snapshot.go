package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/cache"
	"github.com/yourusername/rookscore/internal/logger"
	"github.com/yourusername/rookscore/internal/store"
)

// SnapshotService imports scorekeeper exports into the store
type SnapshotService struct {
	store   store.Store
	driver  string
	history *cache.HistoryCache
	audit   *logger.AuditLogger
}

// NewSnapshotService creates a new snapshot service. history may be nil.
func NewSnapshotService(s store.Store, driver string, history *cache.HistoryCache, log *logrus.Logger) *SnapshotService {
	return &SnapshotService{
		store:   s,
		driver:  driver,
		history: history,
		audit:   logger.NewAuditLogger(log),
	}
}

// Import loads a localStorage export into the store and drops the cached
// history
func (s *SnapshotService) Import(ctx context.Context, data []byte, opts store.ImportOptions) (store.ImportResult, error) {
	result, err := store.ImportSnapshot(ctx, s.store, data, opts)
	if err != nil {
		return store.ImportResult{}, err
	}

	s.audit.LogSnapshotImport(result.BatchID, opts.Source, s.driver, result.Imported, result.ImportedAt)
	if s.history != nil {
		s.history.Invalidate()
		s.audit.LogCacheInvalidation("snapshot import")
	}
	return result, nil
}
