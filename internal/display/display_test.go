package display

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rookscore/internal/models"
)

func sampleResult() models.ProbabilityResult {
	return models.ProbabilityResult{
		Us:  59.5,
		Dem: 40.5,
		Factors: []models.Factor{
			{Name: models.FactorScoreDifference, Value: 1, Description: "20 point difference"},
			{Name: models.FactorMomentum, Value: -5, Description: "Recent rounds trend"},
			{Name: models.FactorComebackTendency, Value: 0, Description: "Based on 0 similar games"},
		},
	}
}

func TestRender_Hidden(t *testing.T) {
	tests := []struct {
		name string
		game models.Game
	}{
		{name: "no rounds", game: models.Game{}},
		{name: "game over", game: models.Game{Rounds: []models.Round{{}}, GameOver: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := Render(tt.game, sampleResult())
			assert.False(t, ok)
		})
	}
}

func TestRender_DefaultLabels(t *testing.T) {
	d, ok := Render(models.Game{Rounds: []models.Round{{}}}, sampleResult())
	require.True(t, ok)

	assert.Equal(t, "Us: 59.5%", d.UsLine())
	assert.Equal(t, "Dem: 40.5%", d.DemLine())
}

func TestRender_TeamNames(t *testing.T) {
	game := models.Game{Rounds: []models.Round{{}}, UsTeamName: "Aces", DemTeamName: "Kings"}
	d, ok := Render(game, models.ProbabilityResult{Us: 51, Dem: 49})
	require.True(t, ok)

	assert.Equal(t, "Aces: 51.0%", d.UsLine())
	assert.Equal(t, "Kings: 49.0%", d.DemLine())
	assert.Empty(t, d.Factors)
}

func TestFactorLine(t *testing.T) {
	tests := []struct {
		factor models.Factor
		want   string
	}{
		{models.Factor{Name: "Momentum", Value: 5, Description: "Recent rounds trend"}, "Momentum: +5 (Recent rounds trend)"},
		{models.Factor{Name: "Bid Strength", Value: -3, Description: "High bids: Us (0), Dem (2)"}, "Bid Strength: -3 (High bids: Us (0), Dem (2))"},
		{models.Factor{Name: "Comeback Tendency", Value: 0, Description: "Based on 0 similar games"}, "Comeback Tendency: 0 (Based on 0 similar games)"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FactorLine(tt.factor))
	}
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "50.0", Percent(50))
	assert.Equal(t, "99.0", Percent(99))
	assert.Equal(t, "55.5", Percent(55.5))
	assert.Equal(t, "1.0", Percent(1))
}

func TestDisplayString(t *testing.T) {
	d, ok := Render(models.Game{Rounds: []models.Round{{}}}, sampleResult())
	require.True(t, ok)

	assert.Equal(t, "Us: 59.5%  Dem: 40.5%\n"+
		"  Score Difference: +1 (20 point difference)\n"+
		"  Momentum: -5 (Recent rounds trend)\n"+
		"  Comeback Tendency: 0 (Based on 0 similar games)", d.String())
}

func TestPercent_RoundsExactBinaryValue(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want string
	}{
		{name: "50.05 is stored just below the half", in: 50.05, want: "50.0"},
		{name: "49.95 is stored just above the half", in: 49.95, want: "50.0"},
		{name: "1.45 is stored just below the half", in: 1.45, want: "1.4"},
		{name: "exact half rounds up", in: 50.25, want: "50.3"},
		{name: "exact half below fifty rounds up", in: 49.75, want: "49.8"},
		{name: "just above a half", in: 1.4500000000000028, want: "1.5"},
		{name: "complement just below a half", in: 100 - 1.4500000000000028, want: "98.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Percent(tt.in))
		})
	}
}

func TestRender_OnePointLeadStaysEven(t *testing.T) {
	// a one point lead tilts us by 1/20 of a point
	us := 50 + 1.0/20
	d, ok := Render(models.Game{Rounds: []models.Round{{}}}, models.ProbabilityResult{Us: us, Dem: 100 - us})
	require.True(t, ok)

	assert.Equal(t, "Us: 50.0%", d.UsLine())
	assert.Equal(t, "Dem: 50.0%", d.DemLine())
}

func TestFixed(t *testing.T) {
	assert.Equal(t, "66.67", Fixed(200.0/3, 2))
	assert.Equal(t, "-0.3", Fixed(-0.25, 1))
	assert.Equal(t, "12", Fixed(12.4, 0))
	assert.Equal(t, "NaN", Fixed(math.NaN(), 1))
}
