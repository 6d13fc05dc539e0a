package gateway

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/MKhiriev/go-institute-sync/models"
)

// MemoryGateway keeps tables in process memory and fans out changes to
// subscribers synchronously. It is used by the dev profile and tests.
type MemoryGateway struct {
	mu          sync.RWMutex
	tables      map[string]models.Snapshot
	failures    map[string]error
	subscribers map[string]*memorySubscription
	primaryKey  string
}

// NewMemoryGateway returns an empty gateway. Records are identified by
// [models.DefaultPrimaryKey].
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{
		tables:      make(map[string]models.Snapshot),
		failures:    make(map[string]error),
		subscribers: make(map[string]*memorySubscription),
		primaryKey:  models.DefaultPrimaryKey,
	}
}

// Seed replaces the content of table without notifying subscribers.
func (g *MemoryGateway) Seed(table string, rows models.Snapshot) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.tables[table] = rows.Clone()
}

// FailWith makes every Select on table return err until it is called again
// with a nil error.
func (g *MemoryGateway) FailWith(table string, err error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if err == nil {
		delete(g.failures, table)
		return
	}
	g.failures[table] = err
}

// Select implements [Source].
func (g *MemoryGateway) Select(ctx context.Context, table string, ordering *models.Ordering) (models.Snapshot, error) {
	if table == "" {
		return nil, ErrEmptyTable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	if err := g.failures[table]; err != nil {
		g.mu.RUnlock()
		return nil, err
	}
	rows := g.tables[table].Clone()
	g.mu.RUnlock()

	if rows == nil {
		rows = models.Snapshot{}
	}
	SortSnapshot(rows, ordering)
	return rows, nil
}

// Subscribe implements [Source].
func (g *MemoryGateway) Subscribe(_ context.Context, channel, table string, filter models.EventFilter, onChange ChangeHandler) (Subscription, error) {
	if channel == "" {
		return nil, ErrEmptyChannel
	}
	if table == "" {
		return nil, ErrEmptyTable
	}
	if onChange == nil {
		return nil, ErrNilHandler
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.subscribers[channel]; ok {
		return nil, fmt.Errorf("%w: %s", ErrChannelInUse, channel)
	}

	sub := &memorySubscription{
		gateway:  g,
		channel:  channel,
		table:    table,
		filter:   filter,
		onChange: onChange,
	}
	g.subscribers[channel] = sub
	return sub, nil
}

// Insert appends record to table and notifies subscribers.
func (g *MemoryGateway) Insert(table string, record models.Record) {
	g.mu.Lock()
	g.tables[table] = append(g.tables[table], record.Clone())
	g.mu.Unlock()

	g.emit(models.ChangeEvent{Type: models.EventInsert, Table: table, Record: record.Clone()})
}

// Update merges fields into the record with the given key. It reports
// whether a record was found.
func (g *MemoryGateway) Update(table, key string, fields models.Record) bool {
	g.mu.Lock()
	var old, updated models.Record
	for i, row := range g.tables[table] {
		if row.Key(g.primaryKey) != key {
			continue
		}
		old = row.Clone()
		for k, v := range fields {
			row[k] = v
		}
		g.tables[table][i] = row
		updated = row.Clone()
		break
	}
	g.mu.Unlock()

	if updated == nil {
		return false
	}
	g.emit(models.ChangeEvent{Type: models.EventUpdate, Table: table, Record: updated, OldRecord: old})
	return true
}

// Delete removes the record with the given key. It reports whether a record
// was removed.
func (g *MemoryGateway) Delete(table, key string) bool {
	g.mu.Lock()
	var old models.Record
	rows := g.tables[table]
	for i, row := range rows {
		if row.Key(g.primaryKey) == key {
			old = row
			g.tables[table] = append(rows[:i:i], rows[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	if old == nil {
		return false
	}
	g.emit(models.ChangeEvent{Type: models.EventDelete, Table: table, OldRecord: old})
	return true
}

// Subscribers returns the number of active subscriptions.
func (g *MemoryGateway) Subscribers() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.subscribers)
}

func (g *MemoryGateway) emit(event models.ChangeEvent) {
	g.mu.RLock()
	targets := make([]*memorySubscription, 0, len(g.subscribers))
	for _, sub := range g.subscribers {
		if sub.table == event.Table && sub.filter.Matches(event.Type) {
			targets = append(targets, sub)
		}
	}
	g.mu.RUnlock()

	for _, sub := range targets {
		sub.onChange(event)
	}
}

type memorySubscription struct {
	gateway  *MemoryGateway
	channel  string
	table    string
	filter   models.EventFilter
	onChange ChangeHandler
	once     sync.Once
}

func (s *memorySubscription) Channel() string {
	return s.channel
}

func (s *memorySubscription) Unsubscribe() error {
	s.once.Do(func() {
		s.gateway.mu.Lock()
		delete(s.gateway.subscribers, s.channel)
		s.gateway.mu.Unlock()
	})
	return nil
}

// SortSnapshot orders rows in place by ordering. A nil or zero ordering
// leaves rows untouched. Missing values sort first in ascending order.
func SortSnapshot(rows models.Snapshot, ordering *models.Ordering) {
	if ordering.IsZero() {
		return
	}
	desc := ordering.IsDescending()
	sort.SliceStable(rows, func(i, j int) bool {
		c := compareValues(rows[i][ordering.Field], rows[j][ordering.Field])
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func compareValues(a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		default:
			return 1
		}
	}

	if af, ok := toFloat(a); ok {
		if bf, ok := toFloat(b); ok {
			switch {
			case af < bf:
				return -1
			case af > bf:
				return 1
			default:
				return 0
			}
		}
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Compare(bt)
		}
	}

	as, bs := fmt.Sprint(a), fmt.Sprint(b)
	switch {
	case as < bs:
		return -1
	case as > bs:
		return 1
	default:
		return 0
	}
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
