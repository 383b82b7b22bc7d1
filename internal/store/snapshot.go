package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/yourusername/rookscore/internal/models"
)

var validate = validator.New()

// LoadActiveGame returns the game in progress. A missing snapshot yields a
// game with no rounds.
func LoadActiveGame(ctx context.Context, s Store) (models.Game, error) {
	var game models.Game
	if err := loadJSON(ctx, s, KeyActiveGame, &game); err != nil {
		return models.Game{}, err
	}
	return game, nil
}

// LoadSavedGames returns the completed games.
func LoadSavedGames(ctx context.Context, s Store) ([]models.HistoricalGame, error) {
	var games []models.HistoricalGame
	if err := loadJSON(ctx, s, KeySavedGames, &games); err != nil {
		return nil, err
	}
	return games, nil
}

// frozenGame accepts the older usName/demName spelling of team names.
type frozenGame struct {
	models.HistoricalGame
	UsName  string `json:"usName"`
	DemName string `json:"demName"`
}

// LoadFreezerGames returns the games set aside for later.
func LoadFreezerGames(ctx context.Context, s Store) ([]models.HistoricalGame, error) {
	var frozen []frozenGame
	if err := loadJSON(ctx, s, KeyFreezerGames, &frozen); err != nil {
		return nil, err
	}
	return lo.Map(frozen, func(f frozenGame, _ int) models.HistoricalGame {
		g := f.HistoricalGame
		if g.UsTeamName == "" {
			g.UsTeamName = f.UsName
		}
		if g.DemTeamName == "" {
			g.DemTeamName = f.DemName
		}
		return g
	}), nil
}

// LoadStatistics returns the stored aggregate statistics.
func LoadStatistics(ctx context.Context, s Store) (models.GameStatistics, error) {
	var stats models.GameStatistics
	if err := loadJSON(ctx, s, KeyStatistics, &stats); err != nil {
		return models.GameStatistics{}, err
	}
	if stats.TeamStats == nil {
		stats.TeamStats = map[string]*models.TeamStats{}
	}
	return stats, nil
}

// SaveStatistics replaces the stored aggregate statistics.
func SaveStatistics(ctx context.Context, s Store, stats models.GameStatistics) error {
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("failed to encode statistics: %w", err)
	}
	if err := s.Put(ctx, KeyStatistics, data); err != nil {
		return fmt.Errorf("failed to save statistics: %w", err)
	}
	return nil
}

func loadJSON(ctx context.Context, s Store, key string, dst any) error {
	data, err := s.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", key, err)
	}
	data = normalizeValue(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", key, models.ErrInvalidSnapshot, err)
	}
	return nil
}

// ImportOptions controls ImportSnapshot.
type ImportOptions struct {
	Source string   `validate:"required"`
	Keys   []string `validate:"omitempty,dive,oneof=activeGameState savedGames freezerGames gameStatistics"`
}

// ImportResult describes a completed import.
type ImportResult struct {
	BatchID    string
	Imported   []string
	Skipped    []string
	ImportedAt time.Time
}

// ImportSnapshot loads a localStorage export into s. Values may be JSON
// documents or JSON-encoded strings. Every selected value is checked before
// anything is written; keys the store does not know are skipped.
func ImportSnapshot(ctx context.Context, s Store, data []byte, opts ImportOptions) (ImportResult, error) {
	if err := validate.Struct(opts); err != nil {
		return ImportResult{}, fmt.Errorf("invalid import options: %w", err)
	}

	export := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &export); err != nil {
		return ImportResult{}, fmt.Errorf("export: %w: %v", models.ErrInvalidSnapshot, err)
	}

	wanted := KnownKeys
	if len(opts.Keys) > 0 {
		wanted = opts.Keys
	}

	result := ImportResult{BatchID: uuid.NewString()}
	values := make(map[string][]byte)
	for _, key := range KnownKeys {
		raw, ok := export[key]
		if !ok || !slices.Contains(wanted, key) {
			continue
		}
		value := normalizeValue(raw)
		if err := checkValue(key, value); err != nil {
			return ImportResult{}, err
		}
		values[key] = value
		result.Imported = append(result.Imported, key)
	}

	result.Skipped = lo.Filter(lo.Keys(export), func(key string, _ int) bool {
		_, ok := values[key]
		return !ok
	})
	slices.Sort(result.Skipped)

	for _, key := range result.Imported {
		if err := s.Put(ctx, key, values[key]); err != nil {
			return ImportResult{}, fmt.Errorf("failed to import %s: %w", key, err)
		}
	}

	result.ImportedAt = time.Now().UTC()
	return result, nil
}

func checkValue(key string, value []byte) error {
	var dst any
	switch key {
	case KeyActiveGame:
		dst = &models.Game{}
	case KeySavedGames:
		dst = &[]models.HistoricalGame{}
	case KeyFreezerGames:
		dst = &[]frozenGame{}
	case KeyStatistics:
		dst = &models.GameStatistics{}
	}
	if err := json.Unmarshal(value, dst); err != nil {
		return fmt.Errorf("%s: %w: %v", key, models.ErrInvalidSnapshot, err)
	}
	return nil
}
