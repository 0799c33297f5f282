// Package memory provides an in-process RunStore, used by the examples and
// as the default archive when no backend is configured.
package memory

import (
	"context"
	"sync"

	"github.com/q-beau/NBS-TP/pkg/domain"
)

// Store implements ports.RunStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.RunSummary
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.RunSummary),
	}
}

// Save persists the run summary in memory.
func (s *Store) Save(ctx context.Context, run *domain.RunSummary) error {
	// Copy so later mutations by the caller don't reach the archive.
	copied := *run
	copied.Rows = make(domain.Summary, len(run.Rows))
	copy(copied.Rows, run.Rows)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[run.ID] = &copied
	return nil
}

// Load retrieves a run summary from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	run, ok := s.data[id]
	if !ok {
		return nil, domain.ErrRunNotFound
	}

	// Copy on read so the caller can't mutate the archived rows.
	ret := *run
	ret.Rows = make(domain.Summary, len(run.Rows))
	copy(ret.Rows, run.Rows)
	return &ret, nil
}

// Delete removes a run summary.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the archived run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}
