// Package health aggregates readiness checks for service dependencies.
package health

import (
	"context"
	"sync"
)

// Status is the outcome of probing one dependency.
type Status struct {
	Name    string `json:"name"`
	Healthy bool   `json:"healthy"`
	Detail  string `json:"detail,omitempty"`
}

// Checker probes a single dependency. It must respect ctx deadlines.
type Checker func(ctx context.Context) Status

// Registry runs a set of named checkers on demand. Checkers run in
// registration order so health output stays stable across calls.
type Registry struct {
	mu     sync.RWMutex
	order  []string
	checks map[string]Checker
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{checks: make(map[string]Checker)}
}

// Register adds a checker under name. Re-registering a name replaces
// the previous checker but keeps its position.
func (r *Registry) Register(name string, check Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.checks[name]; !ok {
		r.order = append(r.order, name)
	}
	r.checks[name] = check
}

// CheckAll probes every registered dependency. The aggregate is healthy
// only when every individual check is.
func (r *Registry) CheckAll(ctx context.Context) (healthy bool, statuses []Status) {
	r.mu.RLock()
	names := make([]string, len(r.order))
	copy(names, r.order)
	checks := make(map[string]Checker, len(r.checks))
	for k, v := range r.checks {
		checks[k] = v
	}
	r.mu.RUnlock()

	healthy = true
	statuses = make([]Status, 0, len(names))
	for _, name := range names {
		st := checks[name](ctx)
		if !st.Healthy {
			healthy = false
		}
		statuses = append(statuses, st)
	}
	return healthy, statuses
}
