package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/sirsim/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Run
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Run),
	}
}

// Save persists a copy of the run in memory.
func (s *Store) Save(ctx context.Context, run *domain.Run) error {
	if run.ID == "" {
		return fmt.Errorf("run ID cannot be empty")
	}
	copied := run.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = copied
	return nil
}

// Load retrieves a copy of the run so the caller can't mutate store state by pointer.
func (s *Store) Load(ctx context.Context, id string) (*domain.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}
	return run.Clone(), nil
}

// Delete removes the run.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns stored run IDs in lexical order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
