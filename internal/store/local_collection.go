// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

// Record fields maintained by [LocalCollection].
const (
	FieldID        = models.DefaultPrimaryKey
	FieldCreatedAt = "created_at"
	FieldUpdatedAt = "updated_at"
)

// ChangedEventSuffix is appended to a collection key to name the event
// emitted after every write.
const ChangedEventSuffix = ":changed"

// LocalCollection is an ordered record list persisted as one JSON value in
// a [KeyValueStore]. Every write emits "<key>:changed" on the broadcaster.
//
// LocalCollection satisfies [gateway.Source] so that a synchronizer can
// mirror it like a remote table.
type LocalCollection struct {
	kv          KeyValueStore
	events      *Broadcaster
	key         string
	idGenerator *utils.UUIDGenerator
	now         func() time.Time
	logger      *logger.Logger

	// mu serializes read-modify-write cycles.
	mu sync.Mutex
}

var (
	_ gateway.Source   = (*LocalCollection)(nil)
	_ RecordCollection = (*LocalCollection)(nil)
)

func NewLocalCollection(kv KeyValueStore, events *Broadcaster, key string, log *logger.Logger) *LocalCollection {
	return &LocalCollection{
		kv:          kv,
		events:      events,
		key:         key,
		idGenerator: utils.NewUUIDGenerator(),
		now:         time.Now,
		logger:      log,
	}
}

// Key returns the storage key, which is also the table name.
func (c *LocalCollection) Key() string {
	return c.key
}

// ChangedEvent returns the broadcaster event name of this collection.
func (c *LocalCollection) ChangedEvent() string {
	return c.key + ChangedEventSuffix
}

// Load returns the persisted records. A missing or malformed value yields an
// empty collection; only store failures are returned as errors.
func (c *LocalCollection) Load(ctx context.Context) (models.Snapshot, error) {
	raw, ok, err := c.kv.GetItem(ctx, c.key)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", c.key, err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return models.Snapshot{}, nil
	}

	var rows models.Snapshot
	if err = json.Unmarshal([]byte(raw), &rows); err != nil {
		c.logger.Warn().Err(err).Str("func", "LocalCollection.Load").Str("key", c.key).Msg("malformed local data, starting empty")
		return models.Snapshot{}, nil
	}

	out := make(models.Snapshot, 0, len(rows))
	for _, r := range rows {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// Save replaces the whole collection and emits the changed event.
func (c *LocalCollection) Save(ctx context.Context, rows models.Snapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.save(ctx, rows, models.ChangeEvent{Type: models.EventUnspecified, Table: c.key})
}

// Add appends record, assigning an id when it has none and setting both
// timestamps.
func (c *LocalCollection) Add(ctx context.Context, record models.Record) (models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	rec := record.Clone()
	if rec == nil {
		rec = models.Record{}
	}
	if rec.Key(FieldID) == "" {
		rec[FieldID] = c.idGenerator.Generate()
	}
	stamp := c.timestamp()
	rec[FieldCreatedAt] = stamp
	rec[FieldUpdatedAt] = stamp

	rows = append(rows, rec)
	event := models.ChangeEvent{Type: models.EventInsert, Table: c.key, Record: rec.Clone()}
	if err = c.save(ctx, rows, event); err != nil {
		return nil, err
	}
	return rec, nil
}

// Update merges fields into the record with the given id. The id and
// created_at fields cannot be changed.
func (c *LocalCollection) Update(ctx context.Context, id string, fields models.Record) (models.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	old := rows[idx].Clone()
	rec := rows[idx]
	for k, v := range fields {
		if k == FieldID || k == FieldCreatedAt {
			continue
		}
		rec[k] = v
	}
	rec[FieldUpdatedAt] = c.timestamp()

	event := models.ChangeEvent{Type: models.EventUpdate, Table: c.key, Record: rec.Clone(), OldRecord: old}
	if err = c.save(ctx, rows, event); err != nil {
		return nil, err
	}
	return rec.Clone(), nil
}

// Delete removes the record with the given id.
func (c *LocalCollection) Delete(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	rows, err := c.Load(ctx)
	if err != nil {
		return err
	}

	idx := indexOf(rows, id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrRecordNotFound, id)
	}

	old := rows[idx]
	rows = append(rows[:idx], rows[idx+1:]...)
	return c.save(ctx, rows, models.ChangeEvent{Type: models.EventDelete, Table: c.key, OldRecord: old})
}

// Select implements [gateway.Source]. table must be the collection key.
func (c *LocalCollection) Select(ctx context.Context, table string, ordering *models.Ordering) (models.Snapshot, error) {
	if table != c.key {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	rows, err := c.Load(ctx)
	if err != nil {
		return nil, err
	}
	gateway.SortSnapshot(rows, ordering)
	return rows, nil
}

// Subscribe implements [gateway.Source] on top of the changed event.
func (c *LocalCollection) Subscribe(_ context.Context, channel, table string, filter models.EventFilter, onChange gateway.ChangeHandler) (gateway.Subscription, error) {
	if table != c.key {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTable, table)
	}
	if onChange == nil {
		return nil, gateway.ErrNilHandler
	}

	cancel := c.events.Listen(c.ChangedEvent(), func(event models.ChangeEvent) {
		if filter.Matches(event.Type) {
			onChange(event)
		}
	})
	return &localSubscription{channel: channel, cancel: cancel}, nil
}

func (c *LocalCollection) save(ctx context.Context, rows models.Snapshot, event models.ChangeEvent) error {
	if rows == nil {
		rows = models.Snapshot{}
	}
	payload, err := json.Marshal(rows)
	if err != nil {
		return fmt.Errorf("encode %s: %w", c.key, err)
	}
	if err = c.kv.SetItem(ctx, c.key, string(payload)); err != nil {
		return fmt.Errorf("save %s: %w", c.key, err)
	}

	c.events.Emit(c.ChangedEvent(), event)
	return nil
}

func (c *LocalCollection) timestamp() string {
	return c.now().UTC().Format(time.RFC3339Nano)
}

func indexOf(rows models.Snapshot, id string) int {
	if id == "" {
		return -1
	}
	for i, r := range rows {
		if r.Key(FieldID) == id {
			return i
		}
	}
	return -1
}

type localSubscription struct {
	channel string
	cancel  func()
}

func (s *localSubscription) Channel() string {
	return s.channel
}

func (s *localSubscription) Unsubscribe() error {
	s.cancel()
	return nil
}
