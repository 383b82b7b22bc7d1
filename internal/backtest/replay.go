// Package backtest replays completed games through the win-probability
// estimator and measures how well its estimates predicted the real winners.
//
// Games are replayed walk-forward: each game is scored only against the games
// that finished before it, the same history the scorekeeper had at the table.
package backtest

import (
	"context"
	"fmt"
	"slices"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/winprob"
)

// Prediction is one estimate taken part-way through a completed game
type Prediction struct {
	GameIndex     int         `json:"gameIndex" yaml:"gameIndex"`
	UsTeamName    string      `json:"usTeamName,omitempty" yaml:"usTeamName,omitempty"`
	DemTeamName   string      `json:"demTeamName,omitempty" yaml:"demTeamName,omitempty"`
	RoundsPlayed  int         `json:"roundsPlayed" yaml:"roundsPlayed"`
	HistorySize   int         `json:"historySize" yaml:"historySize"`
	UsProbability float64     `json:"usProbability" yaml:"usProbability"`
	Winner        models.Team `json:"winner" yaml:"winner"`
}

// UsWon reports whether us won the game the prediction was taken from
func (p Prediction) UsWon() bool {
	return p.Winner == models.TeamUs
}

// Result is the outcome of a replay
type Result struct {
	GamesScored  int          `json:"gamesScored" yaml:"gamesScored"`
	GamesSkipped int          `json:"gamesSkipped" yaml:"gamesSkipped"`
	Metrics      Metrics      `json:"metrics" yaml:"metrics"`
	Predictions  []Prediction `json:"predictions" yaml:"predictions"`
}

// Run replays saved in timestamp order. Games without a timestamp sort first
// and otherwise keep their stored order. A checkpoint is taken after every
// round from cfg.MinRounds up to, but excluding, the final round.
func Run(ctx context.Context, saved []models.HistoricalGame, cfg Config, logger logrus.FieldLogger) (Result, error) {
	if err := cfg.Validate(); err != nil {
		return Result{}, err
	}
	if logger == nil {
		logger = logrus.New()
	}

	ordered := chronological(saved)
	result := Result{Predictions: []Prediction{}}

	for i, game := range ordered {
		if err := ctx.Err(); err != nil {
			return Result{}, fmt.Errorf("backtest interrupted after %d games: %w", i, err)
		}

		history := ordered[:i]
		if cfg.MaxHistory > 0 && len(history) > cfg.MaxHistory {
			history = history[len(history)-cfg.MaxHistory:]
		}
		if len(history) < cfg.MinHistory || !decided(game) || len(game.Rounds) <= cfg.MinRounds {
			result.GamesSkipped++
			continue
		}

		winner := game.WinningTeam()
		for played := cfg.MinRounds; played < len(game.Rounds); played++ {
			current := models.Game{
				Rounds:      game.Rounds[:played],
				UsTeamName:  game.UsTeamName,
				DemTeamName: game.DemTeamName,
			}
			estimate := winprob.Estimate(current, history)
			result.Predictions = append(result.Predictions, Prediction{
				GameIndex:     i,
				UsTeamName:    game.UsTeamName,
				DemTeamName:   game.DemTeamName,
				RoundsPlayed:  played,
				HistorySize:   len(history),
				UsProbability: estimate.Us,
				Winner:        winner,
			})
		}
		result.GamesScored++
	}

	result.Metrics = CalculateMetrics(result.Predictions, cfg.CalibrationBuckets)

	logger.WithFields(logrus.Fields{
		"games_scored":  result.GamesScored,
		"games_skipped": result.GamesSkipped,
		"predictions":   result.Metrics.Predictions,
		"brier_score":   result.Metrics.BrierScore,
	}).Info("Backtest completed")

	return result, nil
}

func chronological(saved []models.HistoricalGame) []models.HistoricalGame {
	ordered := slices.Clone(saved)
	slices.SortStableFunc(ordered, func(a, b models.HistoricalGame) int {
		return a.Timestamp.Compare(b.Timestamp.Time)
	})
	return ordered
}

// decided reports whether the game has a known winner
func decided(game models.HistoricalGame) bool {
	if game.Winner == models.TeamUs || game.Winner == models.TeamDem {
		return true
	}
	return game.FinalScore.Us != 0 || game.FinalScore.Dem != 0
}
