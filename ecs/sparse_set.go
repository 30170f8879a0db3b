package ecs

// SparseSet maps live Entities to values with O(1) insert, lookup and
// removal, and keeps values packed so iteration touches only members.
type SparseSet[T any] struct {
	denseEntities []Entity
	denseValues   []T
	sparse        []int
}

// Has returns true if the entity exists in the set.
func (s *SparseSet[T]) Has(e Entity) bool {
	if s == nil || !e.Valid() || e.Index()-1 >= len(s.sparse) {
		return false
	}
	idx := s.sparse[e.Index()-1]
	return idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx] == e
}

// Get returns the value stored for e.
func (s *SparseSet[T]) Get(e Entity) (T, bool) {
	var zero T
	if !s.Has(e) {
		return zero, false
	}
	return s.denseValues[s.sparse[e.Index()-1]], true
}

// Set inserts or updates the value for e. A stale generation occupying the
// same slot is replaced.
func (s *SparseSet[T]) Set(e Entity, v T) {
	if s == nil || !e.Valid() {
		return
	}
	slot := e.Index() - 1
	for slot >= len(s.sparse) {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(e) {
		s.denseValues[s.sparse[slot]] = v
		return
	}
	if idx := s.sparse[slot]; idx >= 0 && idx < len(s.denseEntities) && s.denseEntities[idx].Index() == e.Index() {
		s.denseEntities[idx] = e
		s.denseValues[idx] = v
		return
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[slot] = len(s.denseEntities) - 1
}

// Remove deletes the value for e if present.
func (s *SparseSet[T]) Remove(e Entity) bool {
	if s == nil || !s.Has(e) {
		return false
	}
	idx := s.sparse[e.Index()-1]
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[lastEntity.Index()-1] = idx

	var zero T
	s.denseValues[last] = zero
	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[e.Index()-1] = -1
	return true
}

// Len returns the number of members.
func (s *SparseSet[T]) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

// Entities returns the dense entity list. It aliases internal storage and is
// invalidated by Set and Remove.
func (s *SparseSet[T]) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

// Values returns the dense value list with the same aliasing rules as
// Entities.
func (s *SparseSet[T]) Values() []T {
	if s == nil {
		return nil
	}
	return s.denseValues
}

// Snapshot copies the current members so callers can mutate the set while
// walking the copy.
func (s *SparseSet[T]) Snapshot() []Entity {
	if s == nil || len(s.denseEntities) == 0 {
		return nil
	}
	return append([]Entity(nil), s.denseEntities...)
}

// Clear removes every member.
func (s *SparseSet[T]) Clear() {
	if s == nil {
		return
	}
	s.denseEntities = nil
	s.denseValues = nil
	s.sparse = nil
}
