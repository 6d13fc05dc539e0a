package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-institute-sync/internal/config"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/models"
)

// memoryDSN selects the in-memory key-value store.
const memoryDSN = ":memory:"

// Storages groups the local storage layer.
type Storages struct {
	// KV is the persisted key-value store.
	KV KeyValueStore

	// Events is the same-process change bus of local collections.
	Events *Broadcaster

	// Leads is the locally persisted lead collection.
	Leads *LocalCollection

	db *DB
}

// NewStorages opens the key-value store configured in cfg. An empty DSN or
// ":memory:" keeps data in process memory; any other DSN is an SQLite file
// that is created and migrated on first use.
func NewStorages(ctx context.Context, cfg config.Storage, log *logger.Logger) (*Storages, error) {
	log.Info().Str("func", "NewStorages").Msg("creating new storages...")

	var (
		kv KeyValueStore
		db *DB
	)
	if cfg.KV.DSN == "" || cfg.KV.DSN == memoryDSN {
		kv = NewMemoryKV()
	} else {
		var err error
		db, err = NewConnectSQLite(ctx, cfg.KV, log)
		if err != nil {
			return nil, fmt.Errorf("sqlite connection error: %w", err)
		}
		if err = db.Migrate(); err != nil {
			db.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		kv = NewSQLiteKV(db, log)
	}

	return NewStoragesWithKV(kv, log, db), nil
}

// NewStoragesWithKV wires the local collections on top of an existing store.
// db may be nil.
func NewStoragesWithKV(kv KeyValueStore, log *logger.Logger, db *DB) *Storages {
	events := NewBroadcaster()
	return &Storages{
		KV:     kv,
		Events: events,
		Leads:  NewLocalCollection(kv, events, models.CollectionLeads, log),
		db:     db,
	}
}

// Close releases the SQLite connection, if any.
func (s *Storages) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}
