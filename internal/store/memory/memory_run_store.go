package memory

import (
	"context"
	"sync"

	"keepalive/internal/models"
	"keepalive/internal/state"
)

// RunStore is an in-memory ring buffer of recent runs. It is the
// default store when no Postgres URL is configured.
type RunStore struct {
	mutex    sync.Mutex
	runs     []models.Run
	capacity int
}

func NewRunStore(capacity int) *RunStore {
	if capacity < 1 {
		capacity = 1
	}
	return &RunStore{capacity: capacity}
}

func (s *RunStore) Insert(ctx context.Context, run models.Run) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.runs = append(s.runs, run)
	if len(s.runs) > s.capacity {
		s.runs = s.runs[len(s.runs)-s.capacity:]
	}
	return nil
}

func (s *RunStore) Recent(ctx context.Context, limit int) ([]models.Run, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if limit <= 0 || limit > len(s.runs) {
		limit = len(s.runs)
	}

	recent := make([]models.Run, 0, limit)
	for i := len(s.runs) - 1; i >= len(s.runs)-limit; i-- {
		recent = append(recent, s.runs[i])
	}
	return recent, nil
}

func (s *RunStore) CountGroupedByStatus(ctx context.Context) (map[state.RunStatus]int, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	counts := make(map[state.RunStatus]int)
	for _, run := range s.runs {
		counts[run.Status]++
	}
	return counts, nil
}

func (s *RunStore) Close() error {
	return nil
}
