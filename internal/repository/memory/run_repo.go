// Package memory holds in-process repositories.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"creativecheck/internal/domain"
	"creativecheck/internal/port"
)

type runRepo struct {
	mu    sync.RWMutex
	runs  map[uuid.UUID]*domain.RunInfo
	order []uuid.UUID
	max   int
}

// NewRunRepo creates a RunRepository keeping at most maxRetained runs; the
// oldest run is evicted first. maxRetained <= 0 means unbounded.
func NewRunRepo(maxRetained int) port.RunRepository {
	return &runRepo{
		runs: make(map[uuid.UUID]*domain.RunInfo),
		max:  maxRetained,
	}
}

func (r *runRepo) Save(_ context.Context, run *domain.RunInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.runs[run.ID]; !exists {
		r.order = append(r.order, run.ID)
	}
	r.runs[run.ID] = run

	for r.max > 0 && len(r.order) > r.max {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.runs, oldest)
	}
	return nil
}

func (r *runRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.RunInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	run, ok := r.runs[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run, nil
}
