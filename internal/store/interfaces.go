package store

import (
	"context"

	"github.com/MKhiriev/go-institute-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// KeyValueStore is the local persisted key-value store. Values are opaque
// strings; callers pick the encoding.
type KeyValueStore interface {
	// GetItem returns the value stored under key. ok is false when the key
	// has never been written or was removed.
	GetItem(ctx context.Context, key string) (value string, ok bool, err error)

	// SetItem stores value under key, replacing any previous value.
	SetItem(ctx context.Context, key, value string) error

	// RemoveItem deletes key. Removing a missing key is not an error.
	RemoveItem(ctx context.Context, key string) error
}

// RecordCollection is a persisted list of records addressed by id.
type RecordCollection interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Add(ctx context.Context, record models.Record) (models.Record, error)
	Update(ctx context.Context, id string, fields models.Record) (models.Record, error)
	Delete(ctx context.Context, id string) error
}
