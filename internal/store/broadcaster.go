package store

import (
	"sync"

	"github.com/MKhiriev/go-institute-sync/models"
)

// Listener receives events emitted on a [Broadcaster].
type Listener func(models.ChangeEvent)

// Broadcaster is a same-process named event bus. Listeners run synchronously
// on the emitting goroutine.
type Broadcaster struct {
	mu        sync.RWMutex
	listeners map[string]map[uint64]Listener
	nextID    uint64
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{listeners: make(map[string]map[uint64]Listener)}
}

// Listen registers fn for name and returns a func that removes it.
func (b *Broadcaster) Listen(name string, fn Listener) (cancel func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	if b.listeners[name] == nil {
		b.listeners[name] = make(map[uint64]Listener)
	}
	b.listeners[name][id] = fn
	b.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.listeners[name], id)
			if len(b.listeners[name]) == 0 {
				delete(b.listeners, name)
			}
		})
	}
}

// Emit calls every listener of name with event.
func (b *Broadcaster) Emit(name string, event models.ChangeEvent) {
	b.mu.RLock()
	targets := make([]Listener, 0, len(b.listeners[name]))
	for _, fn := range b.listeners[name] {
		targets = append(targets, fn)
	}
	b.mu.RUnlock()

	for _, fn := range targets {
		fn(event)
	}
}

// Listeners returns the number of listeners registered for name.
func (b *Broadcaster) Listeners(name string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners[name])
}
