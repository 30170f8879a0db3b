package camera

import "github.com/jakecoffman/cp"

// HeldKeys is the read side of a held-key set.
type HeldKeys interface {
	Has(name string) bool
}

// Controls binds key names to camera moves. Empty bindings are inactive.
type Controls struct {
	Left, Right, Up, Down string
	ZoomIn, ZoomOut       string
	TurnLeft, TurnRight   string
	Reset                 string

	// PanStep is in view units, ZoomStep a per-frame factor above 1 and
	// TurnStep degrees.
	PanStep  float64
	ZoomStep float64
	TurnStep float64
}

func DefaultControls() Controls {
	return Controls{
		Left: "left", Right: "right", Up: "up", Down: "down",
		ZoomIn: "equal", ZoomOut: "minus",
		TurnLeft: "comma", TurnRight: "period",
		Reset:    "0",
		PanStep:  5,
		ZoomStep: 1.02,
		TurnStep: 1,
	}
}

// Update applies every bound key that is held and reports whether any did.
func (ctl Controls) Update(c *Camera, keys HeldKeys) bool {
	if c == nil || keys == nil {
		return false
	}
	held := func(name string) bool { return name != "" && keys.Has(name) }

	if held(ctl.Reset) {
		c.Reset()
		return true
	}

	used := false
	var pan cp.Vector
	if held(ctl.Left) {
		pan.X -= ctl.PanStep
	}
	if held(ctl.Right) {
		pan.X += ctl.PanStep
	}
	if held(ctl.Down) {
		pan.Y -= ctl.PanStep
	}
	if held(ctl.Up) {
		pan.Y += ctl.PanStep
	}
	if pan.X != 0 || pan.Y != 0 {
		c.MoveBy(pan)
		used = true
	}

	if ctl.ZoomStep > 0 {
		if held(ctl.ZoomIn) {
			c.ZoomBy(ctl.ZoomStep)
			used = true
		}
		if held(ctl.ZoomOut) {
			c.ZoomBy(1 / ctl.ZoomStep)
			used = true
		}
	}

	if held(ctl.TurnLeft) {
		c.TurnBy(ctl.TurnStep)
		used = true
	}
	if held(ctl.TurnRight) {
		c.TurnBy(-ctl.TurnStep)
		used = true
	}
	return used
}
