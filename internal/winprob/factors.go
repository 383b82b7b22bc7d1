package winprob

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/yourusername/rookscore/internal/models"
)

// scoreDifference returns the unrounded tilt from the current point gap and
// the factor reporting it rounded for display.
func scoreDifference(rounds []models.Round) (float64, models.Factor) {
	last := rounds[len(rounds)-1]
	diff := last.Totals().Diff()
	tilt := float64(diff) / pointsPerPercent

	abs := diff
	if abs < 0 {
		abs = -abs
	}
	return tilt, models.Factor{
		Name:        models.FactorScoreDifference,
		Value:       roundHalfUp(tilt),
		Description: fmt.Sprintf("%d point difference", abs),
	}
}

// momentum compares points won over the last three rounds. Only the sign of
// the gap matters.
func momentum(rounds []models.Round) models.Factor {
	value := 0.0
	if len(rounds) >= momentumWindow {
		recent := rounds[len(rounds)-momentumWindow:]
		us := lo.SumBy(recent, func(r models.Round) int { return r.UsPoints })
		dem := lo.SumBy(recent, func(r models.Round) int { return r.DemPoints })
		switch {
		case us > dem:
			value = momentumBonus
		case us < dem:
			value = -momentumBonus
		}
	}

	description := "No clear momentum"
	if value != 0 {
		description = "Recent rounds trend"
	}
	return models.Factor{
		Name:        models.FactorMomentum,
		Value:       value,
		Description: description,
	}
}

// comebackTendency measures how often the leader at the current round count
// went on to lose in comparable completed games. The bonus is always credited
// to us, whichever side is trailing.
func comebackTendency(current models.Game, history []models.HistoricalGame) models.Factor {
	played := current.RoundsPlayed()
	relevant := lo.Filter(history, func(g models.HistoricalGame, _ int) bool {
		return g.SameTeams(current) || len(g.Rounds) >= played
	})

	comebacks, situations := 0, 0
	for _, g := range relevant {
		// A game that ends at the comparable round cannot show a lead change
		if len(g.Rounds) <= played {
			continue
		}
		then := g.Rounds[played-1].RunningTotals
		final := g.Rounds[len(g.Rounds)-1].RunningTotals
		if then == nil || final == nil {
			continue
		}
		if then.Leader() != final.Leader() {
			comebacks++
		}
		situations++
	}

	value := 0.0
	if situations > 0 {
		rate := float64(comebacks) / float64(situations)
		value = roundHalfUp(rate * comebackScale)
	}
	return models.Factor{
		Name:        models.FactorComebackTendency,
		Value:       value,
		Description: fmt.Sprintf("Based on %d similar games", len(relevant)),
	}
}

// bidStrength favors the team that has taken more high bids
func bidStrength(current models.Game) models.Factor {
	usHigh := lo.CountBy(current.Rounds, func(r models.Round) bool { return r.IsHighBid(models.TeamUs) })
	demHigh := lo.CountBy(current.Rounds, func(r models.Round) bool { return r.IsHighBid(models.TeamDem) })

	value := 0.0
	switch {
	case usHigh > demHigh:
		value = bidStrengthBonus
	case usHigh < demHigh:
		value = -bidStrengthBonus
	}
	return models.Factor{
		Name:  models.FactorBidStrength,
		Value: value,
		Description: fmt.Sprintf("High bids: %s (%d), %s (%d)",
			current.Label(models.TeamUs), usHigh, current.Label(models.TeamDem), demHigh),
	}
}
