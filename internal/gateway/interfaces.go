// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package gateway provides access to the authoritative remote store of the
// dashboard collections.
//
// The primary abstraction is [Source]: a filtered select over one table and
// a change subscription on the same table. The package ships four
// implementations:
//   - [RESTGateway], a PostgREST-style HTTP API with a websocket change feed
//     ([RealtimeClient]);
//   - [PostgresGateway], direct SQL with LISTEN/NOTIFY as the change feed;
//   - [MemoryGateway], in-process tables used for development and tests.
//
// The local lead collection in package store satisfies the same contract.
//
// Transport errors are mapped onto the sentinel values in errors.go so that
// callers can match them with [errors.Is] regardless of the backend.
package gateway

import (
	"context"

	"github.com/MKhiriev/go-institute-sync/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/gateway_mock.go -package=mock

// ChangeHandler receives change events of a subscription. Implementations
// call it from their own goroutine; it must not block for long.
type ChangeHandler func(models.ChangeEvent)

// Source is the remote store contract consumed by a synchronizer.
type Source interface {
	// Select returns every row of table, ordered by ordering when it is not
	// nil. An empty table yields an empty, non-nil snapshot.
	Select(ctx context.Context, table string, ordering *models.Ordering) (models.Snapshot, error)

	// Subscribe registers onChange for changes of table that pass filter.
	// channel names the subscription and must be unique per subscriber.
	Subscribe(ctx context.Context, channel, table string, filter models.EventFilter, onChange ChangeHandler) (Subscription, error)
}

// Subscription is the handle of a registered change listener.
type Subscription interface {
	// Channel returns the channel name the subscription was registered with.
	Channel() string

	// Unsubscribe stops delivery and releases the subscription. Calling it
	// more than once is a no-op.
	Unsubscribe() error
}
