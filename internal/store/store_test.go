package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/database"
	"github.com/yourusername/rookscore/internal/models"
)

// testStoreContract exercises the behavior every backend shares.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	_, err := s.Get(ctx, KeySavedGames)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, models.ErrNotFound)

	require.NoError(t, s.Put(ctx, KeySavedGames, []byte(`[]`)))
	require.NoError(t, s.Put(ctx, KeyActiveGame, []byte(`{"rounds":[]}`)))
	require.NoError(t, s.Put(ctx, KeySavedGames, []byte(`[{"rounds":[],"finalScore":{"us":500,"dem":320}}]`)))

	got, err := s.Get(ctx, KeySavedGames)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"rounds":[],"finalScore":{"us":500,"dem":320}}]`, string(got))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{KeyActiveGame, KeySavedGames}, keys)
}

func TestMemoryStore(t *testing.T) {
	testStoreContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "localstorage.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)

	_, err = os.Stat(path)
	assert.NoError(t, err, "file should be created on first write")
}

func TestFileStore_UnwrapsEncodedStrings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.json")
	require.NoError(t, os.WriteFile(path, []byte(`{
		"savedGames": "[{\"rounds\":[],\"finalScore\":{\"us\":510,\"dem\":300}}]",
		"darkMode": "true",
		"userName": "alice"
	}`), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)
	ctx := context.Background()

	saved, err := s.Get(ctx, KeySavedGames)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"rounds":[],"finalScore":{"us":510,"dem":300}}]`, string(saved))

	dark, err := s.Get(ctx, "darkMode")
	require.NoError(t, err)
	assert.Equal(t, "true", string(dark))

	name, err := s.Get(ctx, "userName")
	require.NoError(t, err)
	assert.Equal(t, `"alice"`, string(name))
}

func TestFileStore_Errors(t *testing.T) {
	_, err := NewFileStore("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o644))
	s, err := NewFileStore(path)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Ping(context.Background()), models.ErrInvalidSnapshot)
	assert.ErrorIs(t, s.Put(context.Background(), KeySavedGames, []byte(`{oops`)), models.ErrInvalidSnapshot)
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "rookscore.db"))
	require.NoError(t, err)
	defer s.Close()

	testStoreContract(t, s)
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rookscore.db")
	ctx := context.Background()

	s, err := NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, KeyStatistics, []byte(`{"totalGames":3}`)))
	require.NoError(t, s.Close())

	s, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.Get(ctx, KeyStatistics)
	require.NoError(t, err)
	assert.JSONEq(t, `{"totalGames":3}`, string(got))
}

func TestPostgresStore(t *testing.T) {
	db := database.SetupTestDB(t)

	s, err := NewPostgresStore(context.Background(), db)
	require.NoError(t, err)

	testStoreContract(t, s)
}

func TestNew(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	tests := []struct {
		name    string
		store   config.StoreConfig
		wantErr bool
	}{
		{name: "file", store: config.StoreConfig{Driver: config.DriverFile, Path: filepath.Join(dir, "ls.json")}},
		{name: "sqlite", store: config.StoreConfig{Driver: config.DriverSQLite, SQLitePath: filepath.Join(dir, "r.db")}},
		{name: "file without path", store: config.StoreConfig{Driver: config.DriverFile}, wantErr: true},
		{name: "unknown driver", store: config.StoreConfig{Driver: "redis"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := New(ctx, &config.Config{Store: tt.store})
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			defer s.Close()
			assert.NoError(t, s.Ping(ctx))
		})
	}
}
