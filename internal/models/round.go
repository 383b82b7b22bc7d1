package models

// Team identifies one of the two sides at the table
type Team string

const (
	TeamUs  Team = "us"
	TeamDem Team = "dem"
)

// HighBidThreshold is the bid amount at which a bid counts as high
const HighBidThreshold = 145

// Totals holds a per-team point pair
type Totals struct {
	Us  int `json:"us" yaml:"us"`
	Dem int `json:"dem" yaml:"dem"`
}

// Diff returns us minus dem
func (t Totals) Diff() int {
	return t.Us - t.Dem
}

// Leader returns the team ahead. Ties resolve to dem.
func (t Totals) Leader() Team {
	if t.Us > t.Dem {
		return TeamUs
	}
	return TeamDem
}

// Round represents one completed bidding cycle
type Round struct {
	BiddingTeam   Team    `json:"biddingTeam" yaml:"biddingTeam"`
	BidAmount     int     `json:"bidAmount" yaml:"bidAmount"`
	UsPoints      int     `json:"usPoints" yaml:"usPoints"`
	DemPoints     int     `json:"demPoints" yaml:"demPoints"`
	RunningTotals *Totals `json:"runningTotals,omitempty" yaml:"runningTotals,omitempty"`
}

// Totals returns the running totals, or zero totals when absent
func (r Round) Totals() Totals {
	if r.RunningTotals == nil {
		return Totals{}
	}
	return *r.RunningTotals
}

// IsHighBid reports whether team made a high bid this round
func (r Round) IsHighBid(team Team) bool {
	return r.BiddingTeam == team && r.BidAmount >= HighBidThreshold
}

// PointsFor returns the points scored by team this round
func (r Round) PointsFor(team Team) int {
	if team == TeamUs {
		return r.UsPoints
	}
	return r.DemPoints
}

// BidMade reports whether the bidding team reached its bid
func (r Round) BidMade() bool {
	return r.PointsFor(r.BiddingTeam) >= r.BidAmount
}
