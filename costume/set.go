package costume

import "fmt"

// Set holds an actor's costumes by name and tracks the active one.
type Set struct {
	costumes map[string]*Costume
	order    []string
	active   string
}

// Add stores c, replacing any costume with the same name. The active
// selection is kept when the replaced costume was active.
func (s *Set) Add(c *Costume) {
	if s == nil || c == nil {
		return
	}
	if s.costumes == nil {
		s.costumes = make(map[string]*Costume)
	}
	if _, ok := s.costumes[c.name]; !ok {
		s.order = append(s.order, c.name)
	}
	s.costumes[c.name] = c
}

// Select makes name the active costume. An empty name deselects.
func (s *Set) Select(name string) error {
	if s == nil {
		return ErrUnknownCostume
	}
	if name == "" {
		s.active = ""
		return nil
	}
	if _, ok := s.costumes[name]; !ok {
		return fmt.Errorf("costume: select %q: %w", name, ErrUnknownCostume)
	}
	s.active = name
	return nil
}

// Remove deletes name; removing the active costume leaves none active.
func (s *Set) Remove(name string) error {
	if s == nil {
		return ErrUnknownCostume
	}
	if _, ok := s.costumes[name]; !ok {
		return fmt.Errorf("costume: remove %q: %w", name, ErrUnknownCostume)
	}
	delete(s.costumes, name)
	for i, n := range s.order {
		if n == name {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	if s.active == name {
		s.active = ""
	}
	return nil
}

// Active returns the selected costume or nil.
func (s *Set) Active() *Costume {
	if s == nil || s.active == "" {
		return nil
	}
	return s.costumes[s.active]
}

func (s *Set) ActiveName() string {
	if s == nil {
		return ""
	}
	return s.active
}

func (s *Set) Get(name string) (*Costume, bool) {
	if s == nil {
		return nil, false
	}
	c, ok := s.costumes[name]
	return c, ok
}

// Names lists costumes in insertion order.
func (s *Set) Names() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.order...)
}

func (s *Set) Len() int {
	if s == nil {
		return 0
	}
	return len(s.order)
}

// Each visits costumes in insertion order.
func (s *Set) Each(fn func(*Costume)) {
	if s == nil || fn == nil {
		return
	}
	for _, name := range s.order {
		fn(s.costumes[name])
	}
}
