package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
)

type sqliteKV struct {
	*DB
	logger *logger.Logger
	now    func() time.Time
}

// NewSQLiteKV returns a [KeyValueStore] backed by the kv_items table.
func NewSQLiteKV(db *DB, log *logger.Logger) KeyValueStore {
	return &sqliteKV{DB: db, logger: log, now: time.Now}
}

func (s *sqliteKV) GetItem(ctx context.Context, key string) (string, bool, error) {
	if key == "" {
		return "", false, ErrEmptyKey
	}
	log := logger.FromContext(ctx)

	var value string
	err := s.DB.QueryRowContext(ctx, getItem, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		log.Err(err).Str("func", "sqliteKV.GetItem").Str("key", key).Msg("failed to read item")
		return "", false, fmt.Errorf("%w: get %s: %w", ErrScanningRow, key, err)
	}

	return value, true, nil
}

func (s *sqliteKV) SetItem(ctx context.Context, key, value string) error {
	if key == "" {
		return ErrEmptyKey
	}
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, setItem, key, value, s.now().UTC()); err != nil {
		log.Err(err).Str("func", "sqliteKV.SetItem").Str("key", key).Msg("failed to upsert item")
		return fmt.Errorf("%w: set %s: %w", ErrExecutingStatement, key, err)
	}

	return nil
}

func (s *sqliteKV) RemoveItem(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	log := logger.FromContext(ctx)

	if _, err := s.DB.ExecContext(ctx, removeItem, key); err != nil {
		log.Err(err).Str("func", "sqliteKV.RemoveItem").Str("key", key).Msg("failed to delete item")
		return fmt.Errorf("%w: remove %s: %w", ErrExecutingStatement, key, err)
	}

	return nil
}
