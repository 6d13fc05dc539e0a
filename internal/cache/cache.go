// Package cache holds the latest [models.SyncState] of one collection and
// notifies observers synchronously whenever it changes.
//
// A Cache has exactly one writer, the synchronizer that owns it. Views only
// see it through the read-only [Reader] interface.
package cache

import (
	"sync"

	"github.com/MKhiriev/go-institute-sync/models"
)

// Observer is called with a copy of the new state after every mutation.
type Observer func(models.SyncState)

// Reader is the read-only view of a [Cache] handed out to views.
type Reader interface {
	// State returns a copy of the current state.
	State() models.SyncState
	// Observe registers fn and returns a func that unregisters it. fn is
	// not called with the current state; call State for that.
	Observe(fn Observer) (cancel func())
}

// Cache is the local reactive cache of one collection.
type Cache struct {
	mu        sync.Mutex
	state     models.SyncState
	observers map[uint64]Observer
	nextID    uint64

	// notifyMu serializes observer calls so observers see mutations in order.
	notifyMu sync.Mutex
}

// New returns an empty cache: no snapshot, not loading, no error.
func New() *Cache {
	return &Cache{observers: make(map[uint64]Observer)}
}

// State implements [Reader].
func (c *Cache) State() models.SyncState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Observe implements [Reader].
func (c *Cache) Observe(fn Observer) func() {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.observers[id] = fn
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

// BeginFetch marks a fetch as in flight. Observers are not notified when a
// fetch is already in flight.
func (c *Cache) BeginFetch() {
	c.update(func(s *models.SyncState) bool {
		if s.Loading {
			return false
		}
		s.Loading = true
		return true
	})
}

// CompleteFetch replaces the snapshot with rows and clears any error.
// A nil rows slice is stored as an empty snapshot.
func (c *Cache) CompleteFetch(rows models.Snapshot) {
	if rows == nil {
		rows = models.Snapshot{}
	}
	c.update(func(s *models.SyncState) bool {
		s.Snapshot = rows
		s.Loading = false
		s.Error = ""
		return true
	})
}

// FailFetch records msg and keeps the previous snapshot.
func (c *Cache) FailFetch(msg string) {
	c.update(func(s *models.SyncState) bool {
		s.Loading = false
		s.Error = msg
		return true
	})
}

// SettleFetch clears the loading flag without touching the snapshot or the
// error. Used when an in-flight fetch is abandoned.
func (c *Cache) SettleFetch() {
	c.update(func(s *models.SyncState) bool {
		if !s.Loading {
			return false
		}
		s.Loading = false
		return true
	})
}

func (c *Cache) update(mutate func(*models.SyncState) bool) {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	if !mutate(&c.state) {
		c.mu.Unlock()
		return
	}
	state := c.state
	observers := make([]Observer, 0, len(c.observers))
	for _, fn := range c.observers {
		observers = append(observers, fn)
	}
	c.mu.Unlock()

	for _, fn := range observers {
		fn(state.Clone())
	}
}
