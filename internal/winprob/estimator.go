// Package winprob estimates the live win probability of a Rook game from its
// round history and a corpus of completed games.
//
// Estimate is a pure function: it reads its arguments, never mutates them and
// keeps no state between calls, so it is safe to call from any goroutine.
package winprob

import (
	"math"

	"github.com/yourusername/rookscore/internal/models"
)

const (
	evenProbability  = 50.0
	minProbability   = 1.0
	maxProbability   = 99.0
	totalProbability = 100.0

	// pointsPerPercent is the lead worth one percentage point of tilt
	pointsPerPercent = 20.0

	momentumWindow = 3
	momentumBonus  = 5.0

	comebackScale = 10.0

	bidStrengthBonus = 3.0
)

// Estimate returns the probability split between us and dem for the current
// game. Missing nested data is read as zero and no input makes it fail.
func Estimate(current models.Game, history []models.HistoricalGame) models.ProbabilityResult {
	if len(current.Rounds) == 0 {
		return models.ProbabilityResult{
			Us:      evenProbability,
			Dem:     evenProbability,
			Factors: []models.Factor{},
		}
	}

	tilt, scoreFactor := scoreDifference(current.Rounds)
	momentumFactor := momentum(current.Rounds)
	comebackFactor := comebackTendency(current, history)
	bidFactor := bidStrength(current)

	raw := evenProbability + tilt + momentumFactor.Value + comebackFactor.Value + bidFactor.Value
	adjusted := clamp(raw, minProbability, maxProbability)

	return models.ProbabilityResult{
		Us:  adjusted,
		Dem: totalProbability - adjusted,
		Factors: []models.Factor{
			scoreFactor,
			momentumFactor,
			comebackFactor,
			bidFactor,
		},
	}
}

func clamp(v, lo, hi float64) float64 {
	return math.Min(math.Max(v, lo), hi)
}

// roundHalfUp rounds halves toward positive infinity
func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
