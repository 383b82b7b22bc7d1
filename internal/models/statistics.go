package models

// GameStatistics aggregates completed games
type GameStatistics struct {
	TotalGames      int                   `json:"totalGames" yaml:"totalGames"`
	AvgScore        float64               `json:"avgScore" yaml:"avgScore"`
	AvgWinningScore float64               `json:"avgWinningScore" yaml:"avgWinningScore"`
	AvgBid          float64               `json:"avgBid" yaml:"avgBid"`
	AvgGameTime     float64               `json:"avgGameTime" yaml:"avgGameTime"`
	TeamStats       map[string]*TeamStats `json:"teamStats" yaml:"teamStats"`
}

// TeamStats aggregates completed games for one named team
type TeamStats struct {
	GamesPlayed       int     `json:"gamesPlayed" yaml:"gamesPlayed"`
	Wins              int     `json:"wins" yaml:"wins"`
	AvgScore          float64 `json:"avgScore" yaml:"avgScore"`
	AvgBid            float64 `json:"avgBid" yaml:"avgBid"`
	TotalBids         int     `json:"totalBids" yaml:"totalBids"`
	SuccessfulBids    int     `json:"successfulBids" yaml:"successfulBids"`
	HighestBid        int     `json:"highestBid" yaml:"highestBid"`
	HighestScore      int     `json:"highestScore" yaml:"highestScore"`
	AvgPointsPerRound float64 `json:"avgPointsPerRound" yaml:"avgPointsPerRound"`
}

// WinRate returns wins as a fraction of games played
func (t *TeamStats) WinRate() float64 {
	if t == nil || t.GamesPlayed == 0 {
		return 0
	}
	return float64(t.Wins) / float64(t.GamesPlayed)
}

// BidSuccessRate returns successful bids as a fraction of bids taken
func (t *TeamStats) BidSuccessRate() float64 {
	if t == nil || t.TotalBids == 0 {
		return 0
	}
	return float64(t.SuccessfulBids) / float64(t.TotalBids)
}
