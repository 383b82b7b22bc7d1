// Package insights derives descriptive summaries from games: per-game
// bidding and scoring analysis, and aggregate statistics over completed games.
package insights

import (
	"fmt"
	"math"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/yourusername/rookscore/internal/display"
	"github.com/yourusername/rookscore/internal/models"
)

// DefaultTargetScore is the score that wins a game of Rook
const DefaultTargetScore = 500

const trendWindow = 3

// BiddingPattern summarizes the bids one team has taken
type BiddingPattern struct {
	Team        models.Team `json:"team" yaml:"team"`
	Label       string      `json:"label" yaml:"label"`
	Bids        int         `json:"bids" yaml:"bids"`
	AvgBid      float64     `json:"avgBid" yaml:"avgBid"`
	SuccessRate float64     `json:"successRate" yaml:"successRate"`
	TotalPoints int         `json:"totalPoints" yaml:"totalPoints"`
}

// ScoreTrend is the average change in round points between consecutive
// recent rounds
type ScoreTrend struct {
	UsAvgChange  float64 `json:"usAvgChange" yaml:"usAvgChange"`
	DemAvgChange float64 `json:"demAvgChange" yaml:"demAvgChange"`
}

// TargetProgress measures how close each team is to the target score
type TargetProgress struct {
	Target          int `json:"target" yaml:"target"`
	UsNeeds         int `json:"usNeeds" yaml:"usNeeds"`
	DemNeeds        int `json:"demNeeds" yaml:"demNeeds"`
	HighestScore    int `json:"highestScore" yaml:"highestScore"`
	ProgressPercent int `json:"progressPercent" yaml:"progressPercent"`
}

// Insights describes the game in progress
type Insights struct {
	RoundsPlayed int              `json:"roundsPlayed" yaml:"roundsPlayed"`
	UsLabel      string           `json:"usLabel" yaml:"usLabel"`
	DemLabel     string           `json:"demLabel" yaml:"demLabel"`
	Bidding      []BiddingPattern `json:"bidding" yaml:"bidding"`
	Trend        *ScoreTrend      `json:"trend,omitempty" yaml:"trend,omitempty"`
	Progress     TargetProgress   `json:"progress" yaml:"progress"`
}

// Analyze summarizes game against target. It reports false when no rounds
// have been played.
func Analyze(game models.Game, target int) (Insights, bool) {
	if len(game.Rounds) == 0 {
		return Insights{}, false
	}
	if target <= 0 {
		target = DefaultTargetScore
	}

	in := Insights{
		RoundsPlayed: len(game.Rounds),
		UsLabel:      game.Label(models.TeamUs),
		DemLabel:     game.Label(models.TeamDem),
		Bidding:      []BiddingPattern{},
		Trend:        scoreTrend(game.Rounds),
		Progress:     targetProgress(game.Rounds, target),
	}
	for _, team := range []models.Team{models.TeamUs, models.TeamDem} {
		if p, ok := biddingPattern(game, team); ok {
			in.Bidding = append(in.Bidding, p)
		}
	}
	return in, true
}

func biddingPattern(game models.Game, team models.Team) (BiddingPattern, bool) {
	bids := lo.Filter(game.Rounds, func(r models.Round, _ int) bool {
		return r.BiddingTeam == team
	})
	if len(bids) == 0 {
		return BiddingPattern{}, false
	}

	made := lo.CountBy(bids, func(r models.Round) bool { return r.BidMade() })
	total := lo.SumBy(bids, func(r models.Round) int { return r.BidAmount })

	return BiddingPattern{
		Team:        team,
		Label:       game.Label(team),
		Bids:        len(bids),
		AvgBid:      fixedRatio(total, len(bids)),
		SuccessRate: fixedRatio(made*100, len(bids)),
		TotalPoints: lo.SumBy(bids, func(r models.Round) int { return r.PointsFor(team) }),
	}, true
}

func scoreTrend(rounds []models.Round) *ScoreTrend {
	if len(rounds) < 2 {
		return nil
	}
	recent := rounds[max(0, len(rounds)-trendWindow):]

	var usChange, demChange int
	for i := 1; i < len(recent); i++ {
		usChange += recent[i].UsPoints - recent[i-1].UsPoints
		demChange += recent[i].DemPoints - recent[i-1].DemPoints
	}
	steps := len(recent) - 1
	return &ScoreTrend{
		UsAvgChange:  fixedRatio(usChange, steps),
		DemAvgChange: fixedRatio(demChange, steps),
	}
}

func targetProgress(rounds []models.Round, target int) TargetProgress {
	totals := rounds[len(rounds)-1].Totals()
	highest := max(totals.Us, totals.Dem)
	return TargetProgress{
		Target:          target,
		UsNeeds:         max(0, target-totals.Us),
		DemNeeds:        max(0, target-totals.Dem),
		HighestScore:    highest,
		ProgressPercent: int(math.Floor(float64(highest) / float64(target) * 100)),
	}
}

// Lines renders the insights as short human-readable sentences
func (in Insights) Lines() []string {
	lines := make([]string, 0, len(in.Bidding)+2)
	for _, p := range in.Bidding {
		lines = append(lines, fmt.Sprintf("%s: %d bids, avg bid %s, success rate %s%%",
			p.Label, p.Bids, fixed(p.AvgBid), fixed(p.SuccessRate)))
	}
	if in.Trend != nil && (in.Trend.UsAvgChange > 0 || in.Trend.DemAvgChange > 0) {
		lines = append(lines, fmt.Sprintf("Point momentum: %s %s, %s %s",
			in.UsLabel, trendPhrase(in.Trend.UsAvgChange),
			in.DemLabel, trendPhrase(in.Trend.DemAvgChange)))
	}
	// progress is only worth reporting once the game has a trend
	if in.RoundsPlayed > 1 {
		lines = append(lines, fmt.Sprintf("Points to %d: %s needs %d, %s needs %d (%d%% complete)",
			in.Progress.Target, in.UsLabel, in.Progress.UsNeeds, in.DemLabel, in.Progress.DemNeeds,
			in.Progress.ProgressPercent))
	}
	return lines
}

func trendPhrase(change float64) string {
	verb := "losing"
	if change > 0 {
		verb = "gaining"
	}
	return fmt.Sprintf("%s %s pts/round", verb, fixed(math.Abs(change)))
}

func fixed(v float64) string {
	return display.Fixed(v, 1)
}

// fixedRatio returns num/den kept to one decimal place the way fixed prints
// it, or 0 when den is 0
func fixedRatio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return decimal.RequireFromString(fixed(float64(num) / float64(den))).InexactFloat64()
}

// ratio returns num/den rounded half-up to places, or 0 when den is 0. Used
// for stored statistics, not for printed insights.
func ratio(num, den int, places int32) float64 {
	if den == 0 {
		return 0
	}
	return decimal.NewFromInt(int64(num)).
		DivRound(decimal.NewFromInt(int64(den)), places).
		InexactFloat64()
}
