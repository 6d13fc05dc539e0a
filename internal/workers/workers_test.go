// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package workers

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// mockWorker is a test implementation of the Worker interface
// that tracks how many times Stop was called.
type mockWorker struct {
	mu        sync.Mutex
	stopCount int
	hang      bool
	done      chan struct{}
	once      sync.Once
}

func newMockWorker(hang bool) *mockWorker {
	return &mockWorker{hang: hang, done: make(chan struct{})}
}

func (m *mockWorker) Stop() {
	m.mu.Lock()
	m.stopCount++
	m.mu.Unlock()
	if !m.hang {
		m.once.Do(func() { close(m.done) })
	}
}

func (m *mockWorker) Done() <-chan struct{} {
	return m.done
}

func (m *mockWorker) stops() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCount
}

func TestWorkers_Shutdown_AllWorkersAreStopped(t *testing.T) {
	w1, w2, w3 := newMockWorker(false), newMockWorker(false), newMockWorker(false)

	ws := New(w1, w2)
	ws.Add(w3)
	if ws.Len() != 3 {
		t.Fatalf("expected 3 workers, got %d", ws.Len())
	}

	if err := ws.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i, w := range []*mockWorker{w1, w2, w3} {
		if w.stops() != 1 {
			t.Errorf("worker[%d]: expected stopCount=1, got %d", i, w.stops())
		}
	}
	if ws.Len() != 0 {
		t.Errorf("expected workers to be forgotten after shutdown, got %d", ws.Len())
	}
}

func TestWorkers_Shutdown_Empty(t *testing.T) {
	ws := &Workers{}

	// Should not fail on empty workers list
	if err := ws.Shutdown(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestWorkers_Shutdown_Timeout(t *testing.T) {
	stuck := newMockWorker(true)
	ws := New(newMockWorker(false), stuck)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := ws.Shutdown(ctx)

	if !errors.Is(err, ErrShutdownTimeout) {
		t.Fatalf("expected ErrShutdownTimeout, got %v", err)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected wrapped deadline error, got %v", err)
	}
	if stuck.stops() != 1 {
		t.Errorf("expected stuck worker to be asked to stop once, got %d", stuck.stops())
	}
}

func TestWorkers_Shutdown_Twice(t *testing.T) {
	w := newMockWorker(false)
	ws := New(w)

	_ = ws.Shutdown(context.Background())
	_ = ws.Shutdown(context.Background())

	if w.stops() != 1 {
		t.Errorf("expected a single stop, got %d", w.stops())
	}
}
