// Package cache provides in-memory caching of historical games.
package cache

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/models"
)

const historyKey = "savedGames"

// Loader reads the historical games from their source of record
type Loader func(ctx context.Context) ([]models.HistoricalGame, error)

// HistoryCache caches the completed-game corpus between estimates.
// Returned slices are shared and must not be modified.
type HistoryCache struct {
	cache  *gocache.Cache
	ttl    time.Duration
	load   Loader
	loadMu sync.Mutex
	hits   atomic.Uint64
	misses atomic.Uint64
}

// Stats summarizes cache effectiveness
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	HitRate float64 `json:"hitRate"`
	Cached  bool    `json:"cached"`
}

// NewHistoryCache creates a cache that fills itself from load
func NewHistoryCache(ttl time.Duration, load Loader) *HistoryCache {
	return &HistoryCache{
		cache: gocache.New(ttl, ttl*2),
		ttl:   ttl,
		load:  load,
	}
}

// Get returns the cached history, loading it on a miss
func (hc *HistoryCache) Get(ctx context.Context) ([]models.HistoricalGame, error) {
	if games, ok := hc.cached(); ok {
		hc.hits.Add(1)
		metrics.RecordCacheHit()
		return games, nil
	}

	hc.loadMu.Lock()
	defer hc.loadMu.Unlock()

	// another caller may have filled the cache while we waited
	if games, ok := hc.cached(); ok {
		hc.hits.Add(1)
		metrics.RecordCacheHit()
		return games, nil
	}

	hc.misses.Add(1)
	metrics.RecordCacheMiss()
	return hc.fill(ctx)
}

// Warm reloads the history regardless of what is cached
func (hc *HistoryCache) Warm(ctx context.Context) (int, error) {
	hc.loadMu.Lock()
	defer hc.loadMu.Unlock()

	games, err := hc.fill(ctx)
	return len(games), err
}

// Invalidate drops the cached history
func (hc *HistoryCache) Invalidate() {
	hc.cache.Delete(historyKey)
}

// Stats returns hit and miss counts
func (hc *HistoryCache) Stats() Stats {
	hits, misses := hc.hits.Load(), hc.misses.Load()
	stats := Stats{Hits: hits, Misses: misses}
	if total := hits + misses; total > 0 {
		stats.HitRate = float64(hits) / float64(total)
	}
	_, stats.Cached = hc.cached()
	return stats
}

func (hc *HistoryCache) cached() ([]models.HistoricalGame, bool) {
	item, found := hc.cache.Get(historyKey)
	if !found {
		return nil, false
	}
	games, ok := item.([]models.HistoricalGame)
	return games, ok
}

func (hc *HistoryCache) fill(ctx context.Context) ([]models.HistoricalGame, error) {
	games, err := hc.load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load history: %w", err)
	}
	hc.cache.Set(historyKey, games, hc.ttl)
	return games, nil
}
