// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/MKhiriev/go-institute-sync/internal/cache"
	"github.com/MKhiriev/go-institute-sync/internal/gateway"
	"github.com/MKhiriev/go-institute-sync/internal/logger"
	"github.com/MKhiriev/go-institute-sync/internal/synchronizer"
	"github.com/MKhiriev/go-institute-sync/internal/workers"
	"github.com/MKhiriev/go-institute-sync/models"
)

// collectionSetting describes how a collection is fetched.
type collectionSetting struct {
	ordering *models.Ordering
	// local collections are read from the persisted key-value store.
	local bool
}

var collectionSettings = map[string]collectionSetting{
	models.CollectionStudents:     {},
	models.CollectionTeachers:     {},
	models.CollectionBatches:      {ordering: models.OrderBy("name", models.Ascending)},
	models.CollectionCourses:      {ordering: models.OrderBy("name", models.Ascending)},
	models.CollectionResults:      {ordering: models.OrderBy("submitted_at", models.Descending)},
	models.CollectionCertificates: {},
	models.CollectionResources:    {},
	models.CollectionAttendance:   {},
	models.CollectionLeads:        {ordering: models.OrderBy("created_at", models.Descending), local: true},
}

type collectionService struct {
	remote         gateway.Source
	local          gateway.Source
	requestTimeout time.Duration

	// mu guards closed and syncs only; starts run outside it.
	mu      sync.Mutex
	closed  bool
	syncs   map[string]*synchronizer.Synchronizer
	opening singleflight.Group

	workers *workers.Workers
	logger  *logger.Logger
}

// NewCollectionService serves remote collections from remote and the leads
// collection from local.
func NewCollectionService(remote, local gateway.Source, requestTimeout time.Duration, logger *logger.Logger) (CollectionService, error) {
	if remote == nil || local == nil {
		return nil, ErrNilSource
	}
	return &collectionService{
		remote:         remote,
		local:          local,
		requestTimeout: requestTimeout,
		syncs:          make(map[string]*synchronizer.Synchronizer),
		workers:        workers.New(),
		logger:         logger,
	}, nil
}

func (s *collectionService) Open(ctx context.Context, name string) error {
	_, err := s.open(ctx, name)
	return err
}

func (s *collectionService) State(ctx context.Context, name string) (models.SyncState, error) {
	syncer, err := s.open(ctx, name)
	if err != nil {
		return models.SyncState{}, err
	}
	return syncer.State(), nil
}

func (s *collectionService) Watch(ctx context.Context, name string, fn cache.Observer) (func(), error) {
	syncer, err := s.open(ctx, name)
	if err != nil {
		return nil, err
	}
	return syncer.Observe(fn), nil
}

func (s *collectionService) Refresh(ctx context.Context, name string) error {
	syncer, err := s.open(ctx, name)
	if err != nil {
		return err
	}
	syncer.Refresh()
	return nil
}

// Close stops every synchronizer and waits for their fetch loops to exit.
func (s *collectionService) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.syncs = make(map[string]*synchronizer.Synchronizer)
	s.mu.Unlock()

	if err := s.workers.Shutdown(ctx); err != nil {
		s.logger.Err(err).Str("func", "collectionService.Close").Msg("synchronizers did not stop in time")
		return err
	}
	s.logger.Info().Str("func", "collectionService.Close").Msg("all collections closed")
	return nil
}

// open returns the running synchronizer of name, starting it on first use.
// Concurrent first uses of one name share a single start; other collections
// are never blocked behind it.
func (s *collectionService) open(ctx context.Context, name string) (*synchronizer.Synchronizer, error) {
	if _, ok := collectionSettings[name]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCollection, name)
	}
	if _, err := authorize(ctx, name); err != nil {
		return nil, err
	}

	if syncer, err := s.running(name); syncer != nil || err != nil {
		return syncer, err
	}

	v, err, _ := s.opening.Do(name, func() (any, error) {
		return s.start(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return nil, err
	}
	return v.(*synchronizer.Synchronizer), nil
}

func (s *collectionService) running(name string) (*synchronizer.Synchronizer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrCollectionsClosed
	}
	return s.syncs[name], nil
}

// start creates and starts the synchronizer of name without holding s.mu.
func (s *collectionService) start(ctx context.Context, name string) (*synchronizer.Synchronizer, error) {
	if syncer, err := s.running(name); syncer != nil || err != nil {
		return syncer, err
	}

	setting := collectionSettings[name]
	source := s.remote
	if setting.local {
		source = s.local
	}
	log := s.logger.WithField("collection", name)

	opts := []synchronizer.Option{}
	if s.requestTimeout > 0 {
		opts = append(opts, synchronizer.WithRequestTimeout(s.requestTimeout))
	}
	syncer := synchronizer.New(source, name, log, opts...)
	if err := syncer.Start(ctx, setting.ordering); err != nil {
		s.logger.Err(err).Str("func", "collectionService.start").Str("collection", name).Msg("error starting synchronizer")
		return nil, fmt.Errorf("open %s: %w", name, err)
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		syncer.Stop()
		return nil, ErrCollectionsClosed
	}
	s.syncs[name] = syncer
	s.workers.Add(syncer)
	s.mu.Unlock()

	s.logger.Info().Str("func", "collectionService.start").Str("collection", name).Str("channel", syncer.Channel()).Msg("collection opened")
	return syncer, nil
}
