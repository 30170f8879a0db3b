package ecs

// EventQueue is a simple FIFO queue.
type EventQueue[T any] struct {
	items []T
}

// Push adds an event.
func (q *EventQueue[T]) Push(evt T) {
	if q == nil {
		return
	}
	q.items = append(q.items, evt)
}

// Drain returns all events and clears the queue.
func (q *EventQueue[T]) Drain() []T {
	if q == nil || len(q.items) == 0 {
		return nil
	}
	out := q.items
	q.items = nil
	return out
}

func (q *EventQueue[T]) Len() int {
	if q == nil {
		return 0
	}
	return len(q.items)
}

// Clear drops pending events.
func (q *EventQueue[T]) Clear() {
	if q == nil {
		return
	}
	q.items = nil
}
