package assessor

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory implementation of Store for demo/test use.
type MemoryStore struct {
	mu      sync.RWMutex
	results map[string][]*Result // chain/address → results, oldest first
}

// NewMemoryStore creates an in-memory assessment store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{results: make(map[string][]*Result)}
}

func key(chain, address string) string { return chain + "/" + address }

func (s *MemoryStore) Record(ctx context.Context, result *Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := *result
	k := key(result.Chain, result.Address)
	s.results[k] = append(s.results[k], &r)
	return nil
}

func (s *MemoryStore) List(ctx context.Context, chain, address string, before time.Time, limit int) ([]*Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.results[key(chain, address)]
	if len(all) == 0 {
		return nil, nil
	}

	var out []*Result
	for i := len(all) - 1; i >= 0; i-- {
		if limit > 0 && len(out) == limit {
			break
		}
		if !before.IsZero() && !all[i].AssessedAt.Before(before) {
			continue
		}
		r := *all[i]
		out = append(out, &r)
	}
	return out, nil
}
