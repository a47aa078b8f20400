package cache

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryStore creates an in-memory cache store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*Entry)}
}

func (s *MemoryStore) Get(ctx context.Context, fingerprint string) (*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[fingerprint]
	if !ok {
		return nil, nil
	}
	// Copy so callers cannot mutate the stored entry.
	out := *e
	out.Body = append([]byte(nil), e.Body...)
	return &out, nil
}

func (s *MemoryStore) Put(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := *entry
	e.Body = append([]byte(nil), entry.Body...)
	s.entries[entry.Fingerprint] = &e
	return nil
}
