// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package synchronizer keeps one collection in sync with its [gateway.Source].
//
// A [Synchronizer] fetches the whole table on Start, subscribes to the
// table's change feed and refetches the whole table after every change
// notification. Change payloads are never applied as deltas.
//
// All fetches of one instance run on a single loop goroutine. Notifications
// that arrive while a fetch is in flight are coalesced into exactly one
// follow-up fetch. Fetch failures are reported through the state's Error
// field and are never returned; there is no automatic retry.
package synchronizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/MKhiriev/go-institute-sync/internal/cache"
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/utils"
	"github.com/MKhiriev/go-institute-sync/models"
)

// Option configures a [Synchronizer].
type Option func(*Synchronizer)

// WithRequestTimeout bounds every fetch. Zero leaves the bound to the
// transport.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Synchronizer) {
		s.requestTimeout = d
	}
}

// WithFilter limits which change events trigger a refetch.
func WithFilter(filter models.EventFilter) Option {
	return func(s *Synchronizer) {
		s.filter = filter
	}
}

// Synchronizer is a synchronized remote collection.
//
// Observers registered through Observe are called on the fetch goroutine
// while the synchronizer holds its lock. They may call State, Channel and
// Refresh but must not call Stop.
type Synchronizer struct {
	source         gateway.Source
	table          string
	filter         models.EventFilter
	requestTimeout time.Duration
	cache          *cache.Cache
	idGenerator    *utils.UUIDGenerator
	logger         *logger.Logger

	// trigger holds at most one pending fetch request.
	trigger chan struct{}

	// channel is written once by Start and read without the lock.
	channel atomic.Value

	mu         sync.Mutex
	started    bool
	stopped    bool
	generation uint64
	ordering   *models.Ordering
	sub        gateway.Subscription
	cancel     context.CancelFunc

	unsubscribeOnce sync.Once
	loopDone        chan struct{}
}

// New returns a synchronizer for table. Nothing is fetched until Start.
func New(source gateway.Source, table string, log *logger.Logger, opts ...Option) *Synchronizer {
	if log == nil {
		log = logger.Nop()
	}
	s := &Synchronizer{
		source:      source,
		table:       table,
		filter:      models.AllEvents,
		cache:       cache.New(),
		idGenerator: utils.NewUUIDGenerator(),
		logger:      log,
		trigger:     make(chan struct{}, 1),
		loopDone:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Table returns the table this synchronizer mirrors.
func (s *Synchronizer) Table() string {
	return s.table
}

// Channel returns the change channel name, empty before Start.
func (s *Synchronizer) Channel() string {
	name, _ := s.channel.Load().(string)
	return name
}

// State returns a copy of the current sync state.
func (s *Synchronizer) State() models.SyncState {
	return s.cache.State()
}

// Observe registers fn for every state change and returns its cancel func.
func (s *Synchronizer) Observe(fn cache.Observer) func() {
	return s.cache.Observe(fn)
}

// Reader exposes the state as a read-only [cache.Reader].
func (s *Synchronizer) Reader() cache.Reader {
	return s.cache
}

// Start sets the state to loading, subscribes to the change feed on a
// channel unique to this instance and then issues the initial fetch, so no
// change committed after the fetch began can be missed. The subscription is
// bounded by the request timeout.
//
// It returns [ErrAlreadyStarted] or [ErrStopped] on lifecycle misuse and a
// wrapped error when the subscription cannot be registered; in that case the
// synchronizer is stopped. Fetch failures are never returned.
func (s *Synchronizer) Start(ctx context.Context, ordering *models.Ordering) error {
	if s.source == nil {
		return ErrNilSource
	}
	if s.table == "" {
		return ErrEmptyTable
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return ErrStopped
	}
	if s.started {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.started = true
	s.generation++
	s.ordering = ordering
	channel := s.idGenerator.Named(s.table, "changes")
	s.channel.Store(channel)

	loopCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.cache.BeginFetch()
	s.mu.Unlock()

	go s.loop(loopCtx)

	subCtx := ctx
	if s.requestTimeout > 0 {
		var cancelSub context.CancelFunc
		subCtx, cancelSub = context.WithTimeout(ctx, s.requestTimeout)
		defer cancelSub()
	}
	sub, err := s.source.Subscribe(subCtx, channel, s.table, s.filter, s.onRemoteChange)
	if err != nil {
		s.logger.Err(err).Str("func", "Synchronizer.Start").Str("table", s.table).Str("channel", channel).Msg("error subscribing to changes")
		s.Stop()
		return fmt.Errorf("subscribe %s: %w", s.table, err)
	}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.release(sub)
		return ErrStopped
	}
	s.sub = sub
	s.mu.Unlock()

	s.Refresh()
	s.logger.Debug().Str("func", "Synchronizer.Start").Str("table", s.table).Str("channel", channel).Msg("synchronizer started")
	return nil
}

// Refresh requests a refetch. Requests made while a fetch is pending or in
// flight are coalesced. It is a no-op after Stop.
func (s *Synchronizer) Refresh() {
	select {
	case s.trigger <- struct{}{}:
	default:
	}
}

// Stop unregisters the change listener and releases the subscription.
// Fetch results that complete afterwards are discarded. Calling Stop more
// than once is a no-op.
func (s *Synchronizer) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.generation++
	started := s.started
	sub := s.sub
	s.sub = nil
	cancel := s.cancel
	s.cache.SettleFetch()
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !started {
		close(s.loopDone)
	}
	if sub != nil {
		s.release(sub)
	}
	s.logger.Debug().Str("func", "Synchronizer.Stop").Str("table", s.table).Msg("synchronizer stopped")
}

// Done is closed when the fetch loop has exited after Stop.
func (s *Synchronizer) Done() <-chan struct{} {
	return s.loopDone
}

func (s *Synchronizer) release(sub gateway.Subscription) {
	s.unsubscribeOnce.Do(func() {
		if err := sub.Unsubscribe(); err != nil {
			s.logger.Err(err).Str("func", "Synchronizer.release").Str("table", s.table).Msg("error releasing subscription")
		}
	})
}

func (s *Synchronizer) onRemoteChange(event models.ChangeEvent) {
	s.logger.Debug().
		Str("func", "Synchronizer.onRemoteChange").
		Str("table", s.table).
		Str("event", string(event.Type)).
		Msg("remote change received")
	s.Refresh()
}

func (s *Synchronizer) loop(ctx context.Context) {
	defer close(s.loopDone)

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.trigger:
			s.fetch(ctx)
		}
	}
}

func (s *Synchronizer) fetch(ctx context.Context) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	generation := s.generation
	ordering := s.ordering
	s.cache.BeginFetch()
	s.mu.Unlock()

	fetchCtx := ctx
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	rows, err := s.source.Select(fetchCtx, s.table, ordering)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || generation != s.generation {
		return
	}
	if err != nil {
		s.logger.Err(err).Str("func", "Synchronizer.fetch").Str("table", s.table).Msg("fetch failed")
		s.cache.FailFetch(errorMessage(err))
		return
	}
	s.cache.CompleteFetch(rows)
}

// errorMessage normalizes a fetch error to the string kept in the state.
func errorMessage(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return timeoutMessage
	}
	msg := err.Error()
	if msg == "" {
		return "unknown error"
	}
	return msg
}
