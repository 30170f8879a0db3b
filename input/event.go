package input

import (
	"fmt"

	"github.com/gamejr/gamejr/ecs"
	"github.com/jakecoffman/cp"
)

type Kind int

const (
	Quit Kind = iota + 1
	KeyDown
	KeyUp
	MouseDown
	MouseUp
	MouseMove
	MouseWheel
)

func (k Kind) String() string {
	switch k {
	case Quit:
		return "quit"
	case KeyDown:
		return "keydown"
	case KeyUp:
		return "keyup"
	case MouseDown:
		return "mousedown"
	case MouseUp:
		return "mouseup"
	case MouseMove:
		return "mousemove"
	case MouseWheel:
		return "mousewheel"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Event is one discrete input change. Pos is the cursor in y-down screen
// pixels for mouse events; Wheel holds the scroll delta.
type Event struct {
	Kind   Kind
	Key    string
	Button string
	Pos    cp.Vector
	Wheel  cp.Vector
}

// Source fills q with the events that happened since the last poll.
type Source interface {
	Poll(q *ecs.EventQueue[Event])
}
