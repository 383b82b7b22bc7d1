// Package store provides the key-value snapshot store holding the scorekeeper's
// active game, completed games, frozen games and aggregate statistics.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yourusername/rookscore/internal/config"
	"github.com/yourusername/rookscore/internal/database"
	"github.com/yourusername/rookscore/internal/metrics"
	"github.com/yourusername/rookscore/internal/models"
)

// Snapshot keys
const (
	KeyActiveGame   = "activeGameState"
	KeySavedGames   = "savedGames"
	KeyFreezerGames = "freezerGames"
	KeyStatistics   = "gameStatistics"
)

// KnownKeys lists every key the store understands, in import order.
var KnownKeys = []string{KeyActiveGame, KeySavedGames, KeyFreezerGames, KeyStatistics}

// ErrNotFound is returned by Get when a key has no stored value.
var ErrNotFound = models.ErrNotFound

// Store is a key-value store of JSON snapshot documents.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Keys(ctx context.Context) ([]string, error)
	Ping(ctx context.Context) error
	Close() error
}

// New opens the store selected by cfg.Store.Driver, instrumented with metrics.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	var (
		s   Store
		err error
	)

	switch cfg.Store.Driver {
	case config.DriverFile:
		s, err = NewFileStore(cfg.Store.Path)
	case config.DriverSQLite:
		s, err = NewSQLiteStore(cfg.Store.SQLitePath)
	case config.DriverPostgres:
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		var db *database.DB
		db, err = database.NewDB(connectCtx, &cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		s, err = NewPostgresStore(connectCtx, db)
		if err != nil {
			db.Close()
		}
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}

	return Instrument(s, cfg.Store.Driver), nil
}

type instrumented struct {
	Store
	driver string
}

// Instrument wraps s so every operation is counted under the driver label.
func Instrument(s Store, driver string) Store {
	return &instrumented{Store: s, driver: driver}
}

func (i *instrumented) Get(ctx context.Context, key string) ([]byte, error) {
	value, err := i.Store.Get(ctx, key)
	if errors.Is(err, ErrNotFound) {
		metrics.RecordStoreOperation(i.driver, "get", nil)
	} else {
		metrics.RecordStoreOperation(i.driver, "get", err)
	}
	return value, err
}

func (i *instrumented) Put(ctx context.Context, key string, value []byte) error {
	err := i.Store.Put(ctx, key, value)
	metrics.RecordStoreOperation(i.driver, "put", err)
	return err
}

func (i *instrumented) Keys(ctx context.Context) ([]string, error) {
	keys, err := i.Store.Keys(ctx)
	metrics.RecordStoreOperation(i.driver, "keys", err)
	return keys, err
}

func (i *instrumented) Ping(ctx context.Context) error {
	err := i.Store.Ping(ctx)
	metrics.RecordStoreOperation(i.driver, "ping", err)
	return err
}
