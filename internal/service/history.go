// Package service coordinates the estimator, the snapshot store and the
// derived statistics behind the API and the command-line tools.
package service

import (
	"context"
	"time"

	"github.com/yourusername/rookscore/internal/cache"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/store"
)

// NewHistoryCache returns a history cache filled from the saved games in s
func NewHistoryCache(s store.Store, ttl time.Duration) *cache.HistoryCache {
	return cache.NewHistoryCache(ttl, func(ctx context.Context) ([]models.HistoricalGame, error) {
		return store.LoadSavedGames(ctx, s)
	})
}
