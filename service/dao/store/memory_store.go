// Package store provides the generic in-memory backing used by entity DAOs.
package store

import "sync"

// Memory keeps entities of type E keyed by K. Entities are held by pointer,
// so callers that mutate a stored entity mutate the stored copy. Construct
// with New so the key extractor is set.
type Memory[K comparable, E any] struct {
	key     func(*E) K
	mux     sync.RWMutex
	entries map[K]*E
}

// New creates an empty store; key extracts the identity of an entity.
func New[K comparable, E any](key func(*E) K) *Memory[K, E] {
	return &Memory[K, E]{key: key, entries: map[K]*E{}}
}

// Put inserts or replaces the entity under its extracted key.
func (m *Memory[K, E]) Put(entity *E) {
	if entity == nil {
		return
	}
	m.mux.Lock()
	defer m.mux.Unlock()
	m.entries[m.key(entity)] = entity
}

// Get returns the entity stored under key and whether it was present.
func (m *Memory[K, E]) Get(key K) (*E, bool) {
	m.mux.RLock()
	defer m.mux.RUnlock()
	entity, ok := m.entries[key]
	return entity, ok
}

// Remove deletes the entity stored under key and reports whether it existed.
func (m *Memory[K, E]) Remove(key K) bool {
	m.mux.Lock()
	defer m.mux.Unlock()
	if _, ok := m.entries[key]; !ok {
		return false
	}
	delete(m.entries, key)
	return true
}

// Snapshot returns the entities matching the predicate; a nil predicate
// matches everything. Order is unspecified.
func (m *Memory[K, E]) Snapshot(match func(*E) bool) []*E {
	m.mux.RLock()
	defer m.mux.RUnlock()
	ret := make([]*E, 0, len(m.entries))
	for _, entity := range m.entries {
		if match != nil && !match(entity) {
			continue
		}
		ret = append(ret, entity)
	}
	return ret
}
