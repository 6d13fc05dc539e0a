package store

import "errors"

var (
	// ErrEmptyKey is returned when a key-value operation gets an empty key.
	ErrEmptyKey = errors.New("key is empty")

	// ErrRecordNotFound is returned when an update or delete targets a record
	// id that is not in the local collection.
	ErrRecordNotFound = errors.New("record was not found")

	// ErrUnknownTable is returned when a local collection is queried for a
	// table other than its own key.
	ErrUnknownTable = errors.New("unknown local table")
)

// Low-level database operation errors.
var (
	ErrExecutingQuery     = errors.New("error executing sql query")
	ErrExecutingStatement = errors.New("failed to executing statement")
	ErrScanningRow        = errors.New("failed to scan row")
)
