package store

import (
	"database/sql"

	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/migrations"
)

// DB wraps the SQLite connection of the local key-value store.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies the embedded key-value schema.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB, migrations.DialectSQLite)
}
