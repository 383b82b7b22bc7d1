package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/rookscore/internal/backtest"
	"github.com/yourusername/rookscore/internal/models"
	"github.com/yourusername/rookscore/internal/store"
)

// MockStore mocks the snapshot store
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStore) Put(ctx context.Context, key string, value []byte) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockStore) Keys(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

const activeGameJSON = `{"rounds":[
	{"biddingTeam":"us","bidAmount":150,"usPoints":120,"demPoints":60,"runningTotals":{"us":120,"dem":60}},
	{"biddingTeam":"dem","bidAmount":120,"usPoints":40,"demPoints":140,"runningTotals":{"us":160,"dem":200}},
	{"biddingTeam":"us","bidAmount":130,"usPoints":150,"demPoints":30,"runningTotals":{"us":310,"dem":230}}
],"usTeamName":"Aces","demTeamName":"Kings"}`

func seededStore(t *testing.T) *store.MemoryStore {
	t.Helper()
	s := store.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, s.Put(ctx, store.KeyActiveGame, []byte(activeGameJSON)))
	require.NoError(t, s.Put(ctx, store.KeySavedGames, []byte(`[
		{"rounds":[{"biddingTeam":"us","bidAmount":140,"usPoints":150,"demPoints":30,"runningTotals":{"us":150,"dem":30}},
		           {"biddingTeam":"dem","bidAmount":150,"usPoints":20,"demPoints":160,"runningTotals":{"us":170,"dem":190}},
		           {"biddingTeam":"dem","bidAmount":160,"usPoints":0,"demPoints":180,"runningTotals":{"us":170,"dem":370}},
		           {"biddingTeam":"us","bidAmount":120,"usPoints":130,"demPoints":50,"runningTotals":{"us":300,"dem":420}}],
		 "finalScore":{"us":300,"dem":520},"usTeamName":"Aces","demTeamName":"Kings","winner":"dem","durationMs":600000}
	]`)))
	return s
}

func TestProbabilityService_ActiveGame(t *testing.T) {
	s := seededStore(t)
	svc := NewProbabilityService(s, NewHistoryCache(s, time.Minute), quietLogger())

	est, err := svc.ActiveGame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, est.Game.RoundsPlayed())
	assert.InDelta(t, 100.0, est.Result.Us+est.Result.Dem, 1e-9)
	require.Len(t, est.Result.Factors, 4)

	comeback, ok := est.Result.Factor(models.FactorComebackTendency)
	require.True(t, ok)
	assert.Equal(t, "Based on 1 similar games", comeback.Description)
	// dem leads after three rounds and at the end
	assert.Equal(t, 0.0, comeback.Value)
}

func TestProbabilityService_EmptyStore(t *testing.T) {
	s := store.NewMemoryStore()
	svc := NewProbabilityService(s, NewHistoryCache(s, time.Minute), quietLogger())

	est, err := svc.ActiveGame(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 50.0, est.Result.Us)
	assert.Equal(t, 50.0, est.Result.Dem)
	assert.Empty(t, est.Result.Factors)
}

func TestProbabilityService_EstimateHistorySelection(t *testing.T) {
	s := seededStore(t)
	svc := NewProbabilityService(s, NewHistoryCache(s, time.Minute), quietLogger())
	game, err := store.LoadActiveGame(context.Background(), s)
	require.NoError(t, err)

	stored := svc.Estimate(context.Background(), game, nil)
	none := svc.Estimate(context.Background(), game, []models.HistoricalGame{})

	storedComeback, _ := stored.Factor(models.FactorComebackTendency)
	noneComeback, _ := none.Factor(models.FactorComebackTendency)
	assert.Equal(t, "Based on 1 similar games", storedComeback.Description)
	assert.Equal(t, "Based on 0 similar games", noneComeback.Description)
}

func TestProbabilityService_HistoryUnavailable(t *testing.T) {
	ms := new(MockStore)
	ms.On("Get", mock.Anything, store.KeyActiveGame).Return([]byte(activeGameJSON), nil)
	ms.On("Get", mock.Anything, store.KeySavedGames).Return(nil, errors.New("disk on fire"))

	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)

	svc := NewProbabilityService(ms, NewHistoryCache(ms, time.Minute), log)
	est, err := svc.ActiveGame(context.Background())
	require.NoError(t, err, "history failures degrade to no history")

	comeback, _ := est.Result.Factor(models.FactorComebackTendency)
	assert.Equal(t, "Based on 0 similar games", comeback.Description)
	assert.Contains(t, buf.String(), "disk on fire")
	ms.AssertExpectations(t)
}

func TestProbabilityService_ActiveGameError(t *testing.T) {
	ms := new(MockStore)
	ms.On("Get", mock.Anything, store.KeyActiveGame).Return([]byte(`{"rounds":7}`), nil)

	svc := NewProbabilityService(ms, nil, quietLogger())
	_, err := svc.ActiveGame(context.Background())

	assert.ErrorIs(t, err, models.ErrInvalidSnapshot)
}

func TestProbabilityService_Backtest(t *testing.T) {
	s := seededStore(t)
	svc := NewProbabilityService(s, NewHistoryCache(s, time.Minute), quietLogger())

	result, err := svc.Backtest(context.Background(), backtest.DefaultConfig())
	require.NoError(t, err)

	assert.Equal(t, 1, result.GamesScored)
	require.Len(t, result.Predictions, 3)
	for _, p := range result.Predictions {
		assert.Equal(t, models.TeamDem, p.Winner)
		assert.Equal(t, 0, p.HistorySize)
	}
}

func TestProbabilityService_BacktestHistoryError(t *testing.T) {
	ms := new(MockStore)
	ms.On("Get", mock.Anything, store.KeySavedGames).Return(nil, errors.New("disk on fire"))

	svc := NewProbabilityService(ms, nil, quietLogger())
	_, err := svc.Backtest(context.Background(), backtest.DefaultConfig())

	assert.ErrorContains(t, err, "disk on fire")
	ms.AssertExpectations(t)
}

func TestStatisticsService_Refresh(t *testing.T) {
	s := seededStore(t)
	svc := NewStatisticsService(s, 500, quietLogger())
	ctx := context.Background()

	stats, err := svc.Refresh(ctx, TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalGames)
	assert.Equal(t, 520.0, stats.AvgWinningScore)
	require.Contains(t, stats.TeamStats, "Kings")
	assert.Equal(t, 1, stats.TeamStats["Kings"].Wins)

	stored, err := svc.Statistics(ctx)
	require.NoError(t, err)
	assert.Equal(t, stats, stored)
}

func TestStatisticsService_RefreshSaveError(t *testing.T) {
	ms := new(MockStore)
	ms.On("Get", mock.Anything, store.KeySavedGames).Return([]byte(`[]`), nil)
	ms.On("Put", mock.Anything, store.KeyStatistics, mock.Anything).Return(errors.New("read-only"))

	svc := NewStatisticsService(ms, 500, quietLogger())
	_, err := svc.Refresh(context.Background(), TriggerScheduled)

	assert.Error(t, err)
	ms.AssertExpectations(t)
}

func TestStatisticsService_InsightsFor(t *testing.T) {
	svc := NewStatisticsService(seededStore(t), 500, quietLogger())

	in, ok, err := svc.InsightsFor(context.Background())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, in.RoundsPlayed)
	assert.Equal(t, 190, in.Progress.UsNeeds)

	empty := NewStatisticsService(store.NewMemoryStore(), 500, quietLogger())
	_, ok, err = empty.InsightsFor(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotService_ImportInvalidatesHistory(t *testing.T) {
	s := store.NewMemoryStore()
	history := NewHistoryCache(s, time.Minute)
	svc := NewSnapshotService(s, "memory", history, quietLogger())
	ctx := context.Background()

	games, err := history.Get(ctx)
	require.NoError(t, err)
	assert.Empty(t, games)

	result, err := svc.Import(ctx, []byte(`{"savedGames":"[{\"rounds\":[],\"finalScore\":{\"us\":500,\"dem\":100}}]"}`),
		store.ImportOptions{Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, []string{store.KeySavedGames}, result.Imported)

	games, err = history.Get(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 1)
}
