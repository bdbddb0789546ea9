// Package registry holds named functions looked up at runtime.
package registry

import (
	"fmt"
	"sort"
	"sync"
)

// Registry manages named entries of type F (typically a function type).
type Registry[F any] struct {
	mu      sync.RWMutex
	entries map[string]F
}

// New creates a new empty registry.
func New[F any]() *Registry[F] {
	return &Registry[F]{
		entries: make(map[string]F),
	}
}

// Register adds an entry to the registry.
// If an entry with the same name exists, it is overwritten.
func (r *Registry[F]) Register(name string, fn F) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries[name] = fn
}

// Lookup returns the entry registered under name.
// Returns an error if nothing is registered.
func (r *Registry[F]) Lookup(name string) (F, error) {
	r.mu.RLock()
	fn, ok := r.entries[name]
	r.mu.RUnlock()

	if !ok {
		var zero F
		return zero, fmt.Errorf("not registered: %s", name)
	}
	return fn, nil
}

// Names returns the registered names in sorted order.
func (r *Registry[F]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
