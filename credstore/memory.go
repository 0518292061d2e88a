package credstore

import (
	"context"
	"sync"
)

// MemoryStore keeps the pair in process memory only. Intended for tests and
// for callers that explicitly opt out of persistence.
type MemoryStore struct {
	mu   sync.Mutex
	pair *Pair
}

// NewMemoryStore describes the newmemorystore operation and its observable behavior.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Save stores a copy of the pair.
func (s *MemoryStore) Save(_ context.Context, pair Pair) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := pair
	s.pair = &p
	return nil
}

// Load returns a copy of the stored pair, or (nil, nil) when empty.
func (s *MemoryStore) Load(_ context.Context) (*Pair, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pair == nil || !s.pair.Valid() {
		return nil, nil
	}
	p := *s.pair
	return &p, nil
}

// Clear drops the stored pair.
func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pair = nil
	return nil
}
