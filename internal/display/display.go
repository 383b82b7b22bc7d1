// Package display formats win probability results for people.
package display

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/yourusername/rookscore/internal/models"
)

// Display is a rendered probability result
type Display struct {
	UsLabel    string   `json:"usLabel" yaml:"usLabel"`
	DemLabel   string   `json:"demLabel" yaml:"demLabel"`
	UsPercent  string   `json:"usPercent" yaml:"usPercent"`
	DemPercent string   `json:"demPercent" yaml:"demPercent"`
	Factors    []string `json:"factors" yaml:"factors"`
}

// Render formats result for game. It reports false when nothing should be
// shown: before the first round and once the game is over.
func Render(game models.Game, result models.ProbabilityResult) (Display, bool) {
	if len(game.Rounds) == 0 || game.GameOver {
		return Display{}, false
	}

	d := Display{
		UsLabel:    game.Label(models.TeamUs),
		DemLabel:   game.Label(models.TeamDem),
		UsPercent:  Percent(result.Us),
		DemPercent: Percent(result.Dem),
		Factors:    make([]string, 0, len(result.Factors)),
	}
	for _, f := range result.Factors {
		d.Factors = append(d.Factors, FactorLine(f))
	}
	return d, true
}

// Percent formats p with exactly one decimal place
func Percent(p float64) string {
	return Fixed(p, 1)
}

// Fixed formats v with places decimals. It rounds the exact binary value of
// v, so 50.05 (stored just below 50.05) gives "50.0" and 50.25 gives "50.3".
// Exact halves round away from zero.
func Fixed(v float64, places int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', places, 64)
	}
	return new(big.Rat).SetFloat64(v).FloatString(places)
}

// FactorLine formats a factor as "<name>: <signed value> (<description>)"
func FactorLine(f models.Factor) string {
	value := decimal.NewFromFloat(f.Value)
	sign := ""
	if value.IsPositive() {
		sign = "+"
	}
	return fmt.Sprintf("%s: %s%s (%s)", f.Name, sign, value.String(), f.Description)
}

// UsLine returns "<label>: <pct>%" for team us
func (d Display) UsLine() string {
	return fmt.Sprintf("%s: %s%%", d.UsLabel, d.UsPercent)
}

// DemLine returns "<label>: <pct>%" for team dem
func (d Display) DemLine() string {
	return fmt.Sprintf("%s: %s%%", d.DemLabel, d.DemPercent)
}

// String renders the display as plain text
func (d Display) String() string {
	var b strings.Builder
	b.WriteString(d.UsLine())
	b.WriteString("  ")
	b.WriteString(d.DemLine())
	for _, line := range d.Factors {
		b.WriteString("\n  ")
		b.WriteString(line)
	}
	return b.String()
}
