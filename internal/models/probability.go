package models

// Factor names reported by the estimator, in output order
const (
	FactorScoreDifference  = "Score Difference"
	FactorMomentum         = "Momentum"
	FactorComebackTendency = "Comeback Tendency"
	FactorBidStrength      = "Bid Strength"
)

// Factor explains one contribution to a probability estimate
type Factor struct {
	Name        string  `json:"name" yaml:"name"`
	Value       float64 `json:"value" yaml:"value"`
	Description string  `json:"description" yaml:"description"`
}

// ProbabilityResult is the win probability split between the two teams.
// Us is always within [1, 99] and Us + Dem == 100.
type ProbabilityResult struct {
	Us      float64  `json:"us" yaml:"us"`
	Dem     float64  `json:"dem" yaml:"dem"`
	Factors []Factor `json:"factors" yaml:"factors"`
}

// Favorite returns the team with the higher probability. Even splits return us.
func (p ProbabilityResult) Favorite() Team {
	if p.Dem > p.Us {
		return TeamDem
	}
	return TeamUs
}

// Factor looks up a factor by name
func (p ProbabilityResult) Factor(name string) (Factor, bool) {
	for _, f := range p.Factors {
		if f.Name == name {
			return f, true
		}
	}
	return Factor{}, false
}
