package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/insights"
	"github.com/yourusername/rookscore/internal/logger"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/store"
)

// Refresh triggers
const (
	TriggerManual    = "manual"
	TriggerScheduled = "scheduled"
	TriggerAPI       = "api"
)

// StatisticsService maintains aggregate statistics and game insights
type StatisticsService struct {
	store       store.Store
	targetScore int
	audit       *logger.AuditLogger
	logger      *logrus.Logger
}

// NewStatisticsService creates a new statistics service
func NewStatisticsService(s store.Store, targetScore int, log *logrus.Logger) *StatisticsService {
	return &StatisticsService{
		store:       s,
		targetScore: targetScore,
		audit:       logger.NewAuditLogger(log),
		logger:      log,
	}
}

// Refresh recomputes the statistics from the saved games and stores them
func (s *StatisticsService) Refresh(ctx context.Context, trigger string) (models.GameStatistics, error) {
	start := time.Now()

	saved, err := store.LoadSavedGames(ctx, s.store)
	if err != nil {
		metrics.RecordStatisticsRefresh(trigger, 0, err)
		return models.GameStatistics{}, fmt.Errorf("failed to load saved games: %w", err)
	}

	stats := insights.ComputeStatistics(saved)
	if err := store.SaveStatistics(ctx, s.store, stats); err != nil {
		metrics.RecordStatisticsRefresh(trigger, 0, err)
		return models.GameStatistics{}, err
	}

	metrics.RecordStatisticsRefresh(trigger, stats.TotalGames, nil)
	s.audit.LogStatisticsRefresh(trigger, stats.TotalGames, len(stats.TeamStats),
		float64(time.Since(start).Microseconds())/1000)
	return stats, nil
}

// Statistics returns the stored statistics
func (s *StatisticsService) Statistics(ctx context.Context) (models.GameStatistics, error) {
	stats, err := store.LoadStatistics(ctx, s.store)
	if err != nil {
		return models.GameStatistics{}, fmt.Errorf("failed to load statistics: %w", err)
	}
	return stats, nil
}

// InsightsFor analyzes the stored game in progress. It reports false when
// no rounds have been played.
func (s *StatisticsService) InsightsFor(ctx context.Context) (insights.Insights, bool, error) {
	game, err := store.LoadActiveGame(ctx, s.store)
	if err != nil {
		return insights.Insights{}, false, fmt.Errorf("failed to load active game: %w", err)
	}

	in, ok := insights.Analyze(game, s.targetScore)
	if !ok {
		s.logger.WithField("component", "insights").Debug("No rounds played; no insights")
	}
	return in, ok, nil
}
