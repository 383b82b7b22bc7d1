package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/backtest"
	"github.com/yourusername/rookscore/internal/cache"
	"github.com/yourusername/rookscore/internal/logger"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/store"
	"github.com/yourusername/rookscore/internal/winprob"
)

// Estimate sources, used as metric and log labels
const (
	SourceActiveGame = "active_game"
	SourceRequest    = "request"
)

// ActiveEstimate is the estimate for the stored game in progress
type ActiveEstimate struct {
	Game   models.Game
	Result models.ProbabilityResult
}

// ProbabilityService runs win probability estimates
type ProbabilityService struct {
	store   store.Store
	history *cache.HistoryCache
	logger  *logger.EstimatorLogger
}

// NewProbabilityService creates a new probability service
func NewProbabilityService(s store.Store, history *cache.HistoryCache, log *logrus.Logger) *ProbabilityService {
	return &ProbabilityService{
		store:   s,
		history: history,
		logger:  logger.NewEstimatorLogger(log),
	}
}

// ActiveGame estimates the stored game in progress against the stored history
func (p *ProbabilityService) ActiveGame(ctx context.Context) (ActiveEstimate, error) {
	game, err := store.LoadActiveGame(ctx, p.store)
	if err != nil {
		return ActiveEstimate{}, fmt.Errorf("failed to load active game: %w", err)
	}

	result := p.run(SourceActiveGame, game, p.storedHistory(ctx, SourceActiveGame))
	return ActiveEstimate{Game: game, Result: result}, nil
}

// Estimate estimates game against history. A nil history means the stored
// history; an empty non-nil history means none.
func (p *ProbabilityService) Estimate(ctx context.Context, game models.Game, history []models.HistoricalGame) models.ProbabilityResult {
	if history == nil {
		history = p.storedHistory(ctx, SourceRequest)
	}
	return p.run(SourceRequest, game, history)
}

// storedHistory returns the cached history, or none when it cannot be read
func (p *ProbabilityService) storedHistory(ctx context.Context, source string) []models.HistoricalGame {
	if p.history == nil {
		return nil
	}
	games, err := p.history.Get(ctx)
	if err != nil {
		p.logger.LogHistoryUnavailable(source, err)
		return nil
	}
	return games
}

func (p *ProbabilityService) run(source string, game models.Game, history []models.HistoricalGame) models.ProbabilityResult {
	start := time.Now()
	result := winprob.Estimate(game, history)
	elapsed := time.Since(start)

	metrics.RecordEstimate(source, elapsed.Seconds(), result.Us, len(history))
	for _, f := range result.Factors {
		metrics.RecordFactor(f.Name, f.Value)
	}
	p.logger.LogEstimate(source, game.RoundsPlayed(), len(history), result, float64(elapsed.Microseconds())/1000)

	return result
}

// Backtest replays the stored completed games through the estimator. Unlike
// estimates, it fails when the history cannot be read.
func (p *ProbabilityService) Backtest(ctx context.Context, cfg backtest.Config) (backtest.Result, error) {
	var (
		saved []models.HistoricalGame
		err   error
	)
	if p.history != nil {
		saved, err = p.history.Get(ctx)
	} else {
		saved, err = store.LoadSavedGames(ctx, p.store)
	}
	if err != nil {
		return backtest.Result{}, fmt.Errorf("failed to load saved games: %w", err)
	}

	result, err := backtest.Run(ctx, saved, cfg, p.logger.WithField("operation", "backtest"))
	if err != nil {
		return backtest.Result{}, err
	}
	metrics.RecordBacktest(result.Metrics.Predictions, result.Metrics.BrierScore, result.Metrics.Accuracy)
	return result, nil
}
