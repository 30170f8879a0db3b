package gamejr

import (
	"github.com/gamejr/gamejr/ecs"
	"github.com/gamejr/gamejr/input"
	"github.com/jakecoffman/cp"
)

// KeyHandler receives a single key transition.
type KeyHandler func(a *Actor, key string)

// KeysHandler receives every held key, once per frame.
type KeysHandler func(a *Actor, keys []string)

// MouseHandler receives a button transition at a world position.
type MouseHandler func(a *Actor, button string, pos cp.Vector)

// ButtonsHandler receives every held button, once per frame.
type ButtonsHandler func(a *Actor, buttons []string, pos cp.Vector)

// MoveHandler receives the new world position of the cursor.
type MoveHandler func(a *Actor, pos cp.Vector)

// WheelHandler receives a wheel delta with the cursor's world position.
type WheelHandler func(a *Actor, delta cp.Vector, pos cp.Vector)

// handlerTable holds one handler per actor plus session-wide handlers,
// which are called with a nil actor.
type handlerTable[F any] struct {
	actors ecs.SparseSet[F]
	global []F
}

func (t *handlerTable[F]) set(a *Actor, fn F, isNil bool) {
	if a == nil {
		if !isNil {
			t.global = append(t.global, fn)
		}
		return
	}
	if isNil {
		t.actors.Remove(a.id)
		return
	}
	t.actors.Set(a.id, fn)
}

func (t *handlerTable[F]) remove(e ecs.Entity) {
	t.actors.Remove(e)
}

func (t *handlerTable[F]) clear() {
	t.actors.Clear()
	t.global = nil
}

// each calls fn for every registered actor that is still alive when its turn
// comes, then for the session-wide handlers. Handlers may remove actors.
func (t *handlerTable[F]) each(s *Session, fn func(a *Actor, h F)) {
	for _, e := range t.actors.Snapshot() {
		if !s.running() {
			return
		}
		a, ok := s.actors.Get(e)
		if !ok {
			continue
		}
		h, ok := t.actors.Get(e)
		if !ok {
			continue
		}
		fn(a, h)
	}
	for _, h := range append([]F(nil), t.global...) {
		if !s.running() {
			return
		}
		fn(nil, h)
	}
}

type dispatcher struct {
	keyPress    handlerTable[KeysHandler]
	keyDown     handlerTable[KeyHandler]
	keyUp       handlerTable[KeyHandler]
	mouseButton handlerTable[ButtonsHandler]
	mouseDown   handlerTable[MouseHandler]
	mouseUp     handlerTable[MouseHandler]
	mouseMove   handlerTable[MoveHandler]
	mouseWheel  handlerTable[WheelHandler]
}

func (d *dispatcher) forget(e ecs.Entity) {
	d.keyPress.remove(e)
	d.keyDown.remove(e)
	d.keyUp.remove(e)
	d.mouseButton.remove(e)
	d.mouseDown.remove(e)
	d.mouseUp.remove(e)
	d.mouseMove.remove(e)
	d.mouseWheel.remove(e)
}

func (d *dispatcher) clear() {
	d.keyPress.clear()
	d.keyDown.clear()
	d.keyUp.clear()
	d.mouseButton.clear()
	d.mouseDown.clear()
	d.mouseUp.clear()
	d.mouseMove.clear()
	d.mouseWheel.clear()
}

// registered reports whether a has any handler.
func (d *dispatcher) registered(a *Actor) bool {
	if a == nil {
		return false
	}
	e := a.id
	return d.keyPress.actors.Has(e) || d.keyDown.actors.Has(e) || d.keyUp.actors.Has(e) ||
		d.mouseButton.actors.Has(e) || d.mouseDown.actors.Has(e) || d.mouseUp.actors.Has(e) ||
		d.mouseMove.actors.Has(e) || d.mouseWheel.actors.Has(e)
}

// dispatch routes one event to the actors registered for its kind. Mouse
// positions are already in world space.
func (d *dispatcher) dispatch(s *Session, evt input.Event) {
	switch evt.Kind {
	case input.KeyDown:
		d.keyDown.each(s, func(a *Actor, h KeyHandler) { h(a, evt.Key) })
	case input.KeyUp:
		d.keyUp.each(s, func(a *Actor, h KeyHandler) { h(a, evt.Key) })
	case input.MouseDown:
		d.mouseDown.each(s, func(a *Actor, h MouseHandler) { h(a, evt.Button, evt.Pos) })
	case input.MouseUp:
		d.mouseUp.each(s, func(a *Actor, h MouseHandler) { h(a, evt.Button, evt.Pos) })
	case input.MouseMove:
		d.mouseMove.each(s, func(a *Actor, h MoveHandler) { h(a, evt.Pos) })
	case input.MouseWheel:
		d.mouseWheel.each(s, func(a *Actor, h WheelHandler) { h(a, evt.Wheel, evt.Pos) })
	}
}

// OnKeyPress registers fn to run once per frame while any key is held. A
// nil actor registers a session-wide handler; a nil fn unregisters.
func (s *Session) OnKeyPress(a *Actor, fn KeysHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.keyPress.set(a, fn, fn == nil)
}

func (s *Session) OnKeyDown(a *Actor, fn KeyHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.keyDown.set(a, fn, fn == nil)
}

func (s *Session) OnKeyUp(a *Actor, fn KeyHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.keyUp.set(a, fn, fn == nil)
}

// OnMouseButton registers fn to run once per frame while any button is held.
func (s *Session) OnMouseButton(a *Actor, fn ButtonsHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.mouseButton.set(a, fn, fn == nil)
}

func (s *Session) OnMouseDown(a *Actor, fn MouseHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.mouseDown.set(a, fn, fn == nil)
}

func (s *Session) OnMouseUp(a *Actor, fn MouseHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.mouseUp.set(a, fn, fn == nil)
}

func (s *Session) OnMouseMove(a *Actor, fn MoveHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.mouseMove.set(a, fn, fn == nil)
}

func (s *Session) OnMouseWheel(a *Actor, fn WheelHandler) {
	if a != nil && !s.owns(a) {
		return
	}
	s.handlers.mouseWheel.set(a, fn, fn == nil)
}
