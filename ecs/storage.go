package ecs

// Store hands out Entities and tracks which are alive. Destroyed slots are
// reused with a bumped generation.
type Store struct {
	gen   []generation
	alive []bool
	free  []entityID
	count int
}

func NewStore() *Store {
	return &Store{}
}

// Create returns a fresh live Entity.
func (s *Store) Create() Entity {
	if s == nil {
		return 0
	}
	var id entityID
	if n := len(s.free); n > 0 {
		id = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		s.gen = append(s.gen, 0)
		s.alive = append(s.alive, false)
		id = entityID(len(s.gen))
	}
	s.alive[id-1] = true
	s.count++
	return makeEntity(id, s.gen[id-1])
}

// Destroy kills e. It returns false if e was not alive.
func (s *Store) Destroy(e Entity) bool {
	if !s.Alive(e) {
		return false
	}
	idx := e.id() - 1
	s.alive[idx] = false
	s.gen[idx]++
	s.free = append(s.free, e.id())
	s.count--
	return true
}

// Alive reports whether e was created by this store and not yet destroyed.
func (s *Store) Alive(e Entity) bool {
	if s == nil || !e.Valid() || int(e.id()) > len(s.gen) {
		return false
	}
	idx := e.id() - 1
	return s.alive[idx] && s.gen[idx] == e.generation()
}

// Len returns the number of live entities.
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return s.count
}
