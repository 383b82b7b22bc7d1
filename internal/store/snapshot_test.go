package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rookscore/internal/models"
)

const exportFixture = `{
	"activeGameState": "{\"rounds\":[{\"biddingTeam\":\"us\",\"bidAmount\":150,\"usPoints\":120,\"demPoints\":60,\"runningTotals\":{\"us\":120,\"dem\":60}}],\"usTeamName\":\"Aces\",\"demTeamName\":\"Kings\"}",
	"savedGames": [
		{"rounds":[],"finalScore":{"us":520,"dem":310},"usTeamName":"Aces","demTeamName":"Kings","timestamp":1700000000000,"winner":"us","durationMs":1800000}
	],
	"freezerGames": "[{\"rounds\":[],\"finalScore\":{\"us\":200,\"dem\":180},\"usName\":\"Old\",\"demName\":\"Timers\"}]",
	"darkMode": "true"
}`

func TestLoaders_MissingKeysAreEmpty(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	game, err := LoadActiveGame(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, game.Rounds)

	saved, err := LoadSavedGames(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, saved)

	frozen, err := LoadFreezerGames(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, frozen)

	stats, err := LoadStatistics(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.TotalGames)
	assert.NotNil(t, stats.TeamStats)
}

func TestLoaders_NullValue(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, KeySavedGames, []byte(`null`)))

	saved, err := LoadSavedGames(ctx, s)
	require.NoError(t, err)
	assert.Empty(t, saved)
}

func TestLoaders_Malformed(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, KeyActiveGame, []byte(`{"rounds": "nope"}`)))

	_, err := LoadActiveGame(ctx, s)
	assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
}

func TestImportSnapshot(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	result, err := ImportSnapshot(ctx, s, []byte(exportFixture), ImportOptions{Source: "test"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.BatchID)
	assert.False(t, result.ImportedAt.IsZero())
	assert.Equal(t, []string{KeyActiveGame, KeySavedGames, KeyFreezerGames}, result.Imported)
	assert.Equal(t, []string{"darkMode"}, result.Skipped)

	game, err := LoadActiveGame(ctx, s)
	require.NoError(t, err)
	require.Len(t, game.Rounds, 1)
	assert.Equal(t, "Aces", game.UsTeamName)
	assert.Equal(t, 150, game.Rounds[0].BidAmount)
	require.NotNil(t, game.Rounds[0].RunningTotals)
	assert.Equal(t, 120, game.Rounds[0].RunningTotals.Us)

	saved, err := LoadSavedGames(ctx, s)
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, models.TeamUs, saved[0].Winner)
	assert.Equal(t, int64(1800000), saved[0].DurationMs)
	assert.Equal(t, int64(1700000000000), saved[0].Timestamp.UnixMilli())

	frozen, err := LoadFreezerGames(ctx, s)
	require.NoError(t, err)
	require.Len(t, frozen, 1)
	assert.Equal(t, "Old", frozen[0].UsTeamName)
	assert.Equal(t, "Timers", frozen[0].DemTeamName)
}

func TestImportSnapshot_SelectedKeys(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	result, err := ImportSnapshot(ctx, s, []byte(exportFixture), ImportOptions{
		Source: "test",
		Keys:   []string{KeySavedGames},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{KeySavedGames}, result.Imported)
	assert.Equal(t, []string{KeyActiveGame, "darkMode", KeyFreezerGames}, result.Skipped)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeySavedGames}, keys)
}

func TestImportSnapshot_Rejects(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		data string
		opts ImportOptions
	}{
		{name: "missing source", data: `{}`, opts: ImportOptions{}},
		{name: "unknown key option", data: `{}`, opts: ImportOptions{Source: "t", Keys: []string{"darkMode"}}},
		{name: "not an object", data: `[1,2]`, opts: ImportOptions{Source: "t"}},
		{name: "bad saved games", data: `{"activeGameState":{"rounds":[]},"savedGames":{"x":1}}`, opts: ImportOptions{Source: "t"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewMemoryStore()
			_, err := ImportSnapshot(ctx, s, []byte(tt.data), tt.opts)
			assert.Error(t, err)

			keys, err := s.Keys(ctx)
			require.NoError(t, err)
			assert.Empty(t, keys, "nothing is written when the import fails")
		})
	}
}

func TestSaveStatistics(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	stats := models.GameStatistics{
		TotalGames: 2,
		AvgScore:   410,
		TeamStats: map[string]*models.TeamStats{
			"Aces": {GamesPlayed: 2, Wins: 1},
		},
	}
	require.NoError(t, SaveStatistics(ctx, s, stats))

	got, err := LoadStatistics(ctx, s)
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}
