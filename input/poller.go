package input

import (
	"github.com/gamejr/gamejr/ecs"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/jakecoffman/cp"
)

// Poller turns ebiten's per-tick input state into discrete events. It must
// be polled from the ebiten update goroutine.
type Poller struct {
	keys   []ebiten.Key
	lastX  int
	lastY  int
	moved  bool
	closed bool
}

func NewPoller() *Poller {
	return &Poller{}
}

func (p *Poller) Poll(q *ecs.EventQueue[Event]) {
	if p == nil || q == nil {
		return
	}
	if ebiten.IsWindowBeingClosed() && !p.closed {
		p.closed = true
		q.Push(Event{Kind: Quit})
	}

	p.keys = inpututil.AppendJustPressedKeys(p.keys[:0])
	for _, k := range p.keys {
		if name := KeyName(k); name != "" {
			q.Push(Event{Kind: KeyDown, Key: name})
		}
	}
	p.keys = inpututil.AppendJustReleasedKeys(p.keys[:0])
	for _, k := range p.keys {
		if name := KeyName(k); name != "" {
			q.Push(Event{Kind: KeyUp, Key: name})
		}
	}

	x, y := ebiten.CursorPosition()
	pos := cp.Vector{X: float64(x), Y: float64(y)}
	for _, b := range buttons {
		if inpututil.IsMouseButtonJustPressed(b.button) {
			q.Push(Event{Kind: MouseDown, Button: b.name, Pos: pos})
		}
		if inpututil.IsMouseButtonJustReleased(b.button) {
			q.Push(Event{Kind: MouseUp, Button: b.name, Pos: pos})
		}
	}
	if !p.moved || x != p.lastX || y != p.lastY {
		if p.moved {
			q.Push(Event{Kind: MouseMove, Pos: pos})
		}
		p.lastX, p.lastY, p.moved = x, y, true
	}
	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		q.Push(Event{Kind: MouseWheel, Pos: pos, Wheel: cp.Vector{X: wx, Y: wy}})
	}
}
