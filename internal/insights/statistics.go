package insights

import (
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/yourusername/rookscore/internal/models"
)

const statPlaces = 2

type teamAccumulator struct {
	games        int
	wins         int
	scoreSum     int
	bidSum       int
	bids         int
	madeBids     int
	highestBid   int
	highestScore int
	pointsSum    int
	rounds       int
}

// ComputeStatistics aggregates completed games. Games without team names
// count toward the overall figures only.
func ComputeStatistics(saved []models.HistoricalGame) models.GameStatistics {
	stats := models.GameStatistics{
		TotalGames: len(saved),
		TeamStats:  map[string]*models.TeamStats{},
	}
	if len(saved) == 0 {
		return stats
	}

	var scoreSum, winningSum, bidSum, bidCount int
	var durationSum int64
	var timedGames int
	teams := map[string]*teamAccumulator{}

	for _, g := range saved {
		scoreSum += g.FinalScore.Us + g.FinalScore.Dem
		winner := g.WinningTeam()
		if winner == models.TeamUs {
			winningSum += g.FinalScore.Us
		} else {
			winningSum += g.FinalScore.Dem
		}

		bidSum += lo.SumBy(g.Rounds, func(r models.Round) int { return r.BidAmount })
		bidCount += len(g.Rounds)

		if g.DurationMs > 0 {
			durationSum += g.DurationMs
			timedGames++
		}

		for _, team := range []models.Team{models.TeamUs, models.TeamDem} {
			name := g.TeamName(team)
			if name == "" {
				continue
			}
			acc, ok := teams[name]
			if !ok {
				acc = &teamAccumulator{}
				teams[name] = acc
			}
			acc.add(g, team, winner)
		}
	}

	stats.AvgScore = ratio(scoreSum, 2*len(saved), statPlaces)
	stats.AvgWinningScore = ratio(winningSum, len(saved), statPlaces)
	stats.AvgBid = ratio(bidSum, bidCount, statPlaces)
	if timedGames > 0 {
		stats.AvgGameTime = decimal.NewFromInt(durationSum).
			DivRound(decimal.NewFromInt(int64(timedGames)), statPlaces).
			InexactFloat64()
	}

	for name, acc := range teams {
		stats.TeamStats[name] = acc.stats()
	}
	return stats
}

func (a *teamAccumulator) add(g models.HistoricalGame, team, winner models.Team) {
	a.games++
	if team == winner {
		a.wins++
	}

	final := g.FinalScore.Us
	if team == models.TeamDem {
		final = g.FinalScore.Dem
	}
	a.scoreSum += final
	a.highestScore = max(a.highestScore, final)

	for _, r := range g.Rounds {
		a.pointsSum += r.PointsFor(team)
		a.rounds++
		if r.BiddingTeam != team {
			continue
		}
		a.bids++
		a.bidSum += r.BidAmount
		a.highestBid = max(a.highestBid, r.BidAmount)
		if r.BidMade() {
			a.madeBids++
		}
	}
}

func (a *teamAccumulator) stats() *models.TeamStats {
	return &models.TeamStats{
		GamesPlayed:       a.games,
		Wins:              a.wins,
		AvgScore:          ratio(a.scoreSum, a.games, statPlaces),
		AvgBid:            ratio(a.bidSum, a.bids, statPlaces),
		TotalBids:         a.bids,
		SuccessfulBids:    a.madeBids,
		HighestBid:        a.highestBid,
		HighestScore:      a.highestScore,
		AvgPointsPerRound: ratio(a.pointsSum, a.rounds, statPlaces),
	}
}
