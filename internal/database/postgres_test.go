package database

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/rookscore/internal/config"
)

func TestNewDB_InvalidConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := NewDBFromDSN(ctx, "postgres://%zz", 1)
	assert.Error(t, err)
}

func TestNewDB_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewDB(ctx, &config.DatabaseConfig{
		Host:           "127.0.0.1",
		Port:           1,
		Name:           "rookscore",
		User:           "rook",
		Password:       "secret",
		SSLMode:        "disable",
		MaxConnections: 1,
	})
	assert.Error(t, err)
}

func TestMigrateAndTransaction(t *testing.T) {
	db := SetupTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.Migrate(ctx), "migrations must be idempotent")
	require.NoError(t, db.HealthCheck(ctx))

	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, "INSERT INTO snapshots (key, value) VALUES ($1, $2)", "savedGames", "[]")
		return err
	})
	require.NoError(t, err)

	var value string
	require.NoError(t, db.QueryRow(ctx, "SELECT value FROM snapshots WHERE key = $1", "savedGames").Scan(&value))
	assert.Equal(t, "[]", value)
}
