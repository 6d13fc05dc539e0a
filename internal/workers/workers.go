package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var ErrShutdownTimeout = errors.New("workers did not stop in time")

type Workers struct {
	mu      sync.Mutex
	workers []Worker
}

func New(workers ...Worker) *Workers {
	return &Workers{workers: workers}
}

// Add registers a running worker.
func (w *Workers) Add(worker Worker) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.workers = append(w.workers, worker)
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.workers)
}

// Shutdown stops every registered worker, then waits until all of them are
// done or ctx expires. Workers are forgotten after Shutdown.
func (w *Workers) Shutdown(ctx context.Context) error {
	w.mu.Lock()
	list := w.workers
	w.workers = nil
	w.mu.Unlock()

	for _, worker := range list {
		worker.Stop()
	}
	for i, worker := range list {
		select {
		case <-worker.Done():
		case <-ctx.Done():
			return fmt.Errorf("%w: %d of %d still running: %w", ErrShutdownTimeout, len(list)-i, len(list), ctx.Err())
		}
	}
	return nil
}
