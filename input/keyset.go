package input

import "sort"

// KeySet tracks held key or button names.
type KeySet struct {
	held map[string]struct{}
}

func (s *KeySet) Add(name string) {
	if s == nil || name == "" {
		return
	}
	if s.held == nil {
		s.held = make(map[string]struct{})
	}
	s.held[name] = struct{}{}
}

func (s *KeySet) Remove(name string) {
	if s == nil {
		return
	}
	delete(s.held, name)
}

func (s *KeySet) Has(name string) bool {
	if s == nil {
		return false
	}
	_, ok := s.held[name]
	return ok
}

func (s *KeySet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.held)
}

// Names returns the held names sorted.
func (s *KeySet) Names() []string {
	if s == nil || len(s.held) == 0 {
		return nil
	}
	out := make([]string, 0, len(s.held))
	for n := range s.held {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

func (s *KeySet) Clear() {
	if s == nil {
		return
	}
	clear(s.held)
}

// Apply folds one event into the key and button sets.
func Apply(keys, buttons *KeySet, evt Event) {
	switch evt.Kind {
	case KeyDown:
		keys.Add(evt.Key)
	case KeyUp:
		keys.Remove(evt.Key)
	case MouseDown:
		buttons.Add(evt.Button)
	case MouseUp:
		buttons.Remove(evt.Button)
	}
}
