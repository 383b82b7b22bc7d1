package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/yourusername/rookscore/internal/database"
)

// PostgresStore persists snapshots in PostgreSQL.
type PostgresStore struct {
	db *database.DB
}

// NewPostgresStore applies the snapshot schema and returns a store over db.
// The store takes ownership of db.
func NewPostgresStore(ctx context.Context, db *database.DB) (*PostgresStore, error) {
	if err := db.Migrate(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{db: db}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := p.db.QueryRow(ctx, `SELECT value FROM snapshots WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(value), nil
}

func (p *PostgresStore) Put(ctx context.Context, key string, value []byte) error {
	_, err := p.db.Exec(ctx, `INSERT INTO snapshots (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`,
		key, string(value))
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (p *PostgresStore) Keys(ctx context.Context) ([]string, error) {
	rows, err := p.db.Query(ctx, `SELECT key FROM snapshots ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list keys: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("scan keys: %w", err)
	}
	return keys, nil
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.db.HealthCheck(ctx)
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}
