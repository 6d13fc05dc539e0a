// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package migrations

import (
	"database/sql"
	"io/fs"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrate_DBError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	_ = mock // не используем напрямую, goose сам будет ходить в DB

	for _, dialect := range []Dialect{DialectSQLite, DialectPostgres} {
		err = Migrate(db, dialect)
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "migration error"), "got: %v", err)
	}
}

func TestMigrate_NilDB(t *testing.T) {
	var db *sql.DB

	err := Migrate(db, DialectSQLite)

	assert.ErrorIs(t, err, ErrNilDB)
	assert.Contains(t, err.Error(), "db is nil")
}

func TestMigrate_UnknownDialect(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	err = Migrate(db, Dialect("mysql"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown dialect")
}

func TestEmbeddedMigrations(t *testing.T) {
	for dialect, dir := range dirs {
		entries, err := fs.ReadDir(embedMigrations, dir)
		require.NoError(t, err, dialect)
		assert.NotEmpty(t, entries, dialect)

		for _, e := range entries {
			body, err := fs.ReadFile(embedMigrations, dir+"/"+e.Name())
			require.NoError(t, err)
			assert.Contains(t, string(body), "-- +goose Up", e.Name())
		}
	}
}
