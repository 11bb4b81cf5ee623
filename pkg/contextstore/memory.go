package contextstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the slot in process memory. Used by tests and by
// embeddings that do not want the context id to survive a restart.
type MemoryStore struct {
	mu sync.Mutex
	id string
}

var _ Store = &MemoryStore{}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(ctx context.Context) (string, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id, nil
}

func (s *MemoryStore) Save(ctx context.Context, id string) error {
	_ = ctx
	if id == "" {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	return nil
}
