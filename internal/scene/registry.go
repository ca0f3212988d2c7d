package scene

import "sync"

// Statistics summarizes what a load produced
type Statistics struct {
	TotalCount int
	Details    map[string]int
}

// Registry is a keyed object store that remembers insertion order. The first
// value stored under a key wins.
type Registry[K comparable, V any] struct {
	data  map[K]V
	order []K
	mu    sync.RWMutex
}

func NewRegistry[K comparable, V any]() *Registry[K, V] {
	return &Registry[K, V]{
		data: make(map[K]V),
	}
}

// Add stores value under key. It reports false if key is already taken.
func (r *Registry[K, V]) Add(key K, value V) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.data[key]; exists {
		return false
	}
	r.data[key] = value
	r.order = append(r.order, key)
	return true
}

func (r *Registry[K, V]) Get(key K) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, exists := r.data[key]
	return value, exists
}

// Values returns the stored values in insertion order
func (r *Registry[K, V]) Values() []V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]V, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.data[k])
	}
	return out
}

func (r *Registry[K, V]) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
