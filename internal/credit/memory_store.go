package credit

import (
	"context"
	"sync"
)

// MemoryStore is the process-local store. Scores are lost on restart.
type MemoryStore struct {
	mu     sync.Mutex
	scores map[int64]int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{scores: make(map[int64]int64)}
}

// Get returns the stored score or 0.
func (s *MemoryStore) Get(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.scores[userID], nil
}

// Add performs the read-modify-write under the store lock.
func (s *MemoryStore) Add(_ context.Context, userID int64, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := checkedAdd(s.scores[userID], delta)
	if err != nil {
		return next, err
	}

	s.scores[userID] = next
	return next, nil
}

// HealthCheck always succeeds for the in-memory store.
func (s *MemoryStore) HealthCheck(context.Context) error {
	return nil
}
