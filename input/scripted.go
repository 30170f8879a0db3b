package input

import "github.com/gamejr/gamejr/ecs"

// Scripted replays prepared events, one batch per Poll. It stands in for
// the ebiten poller in headless runs.
type Scripted struct {
	frames [][]Event
	next   int
}

func NewScripted(frames ...[]Event) *Scripted {
	return &Scripted{frames: frames}
}

// Push appends a batch to be delivered on a later poll.
func (s *Scripted) Push(events ...Event) {
	s.frames = append(s.frames, events)
}

func (s *Scripted) Poll(q *ecs.EventQueue[Event]) {
	if s == nil || q == nil || s.next >= len(s.frames) {
		return
	}
	for _, e := range s.frames[s.next] {
		q.Push(e)
	}
	s.next++
}

// Done reports whether every batch has been delivered.
func (s *Scripted) Done() bool {
	return s == nil || s.next >= len(s.frames)
}
