package backtest

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Config configures a walk-forward replay of completed games
type Config struct {
	// MinHistory is the number of earlier games required before a game is scored
	MinHistory int `validate:"gte=0"`
	// MaxHistory caps the history to the most recent games, 0 for all
	MaxHistory int `validate:"gte=0"`
	// MinRounds is the first checkpoint, in rounds played
	MinRounds          int `validate:"gte=1"`
	CalibrationBuckets int `validate:"gte=1,lte=50"`
}

// DefaultConfig scores every game at every checkpoint against all earlier games
func DefaultConfig() Config {
	return Config{
		MinRounds:          1,
		CalibrationBuckets: 10,
	}
}

// Validate validates replay parameters
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid backtest config: %w", err)
	}
	return nil
}
