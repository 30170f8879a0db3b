package script

import (
	"fmt"

	"github.com/d5/tengo/v2"
	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/ecs"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

type gameFunc func(args ...tengo.Object) (tengo.Object, error)

// buildGame assembles the object scripts receive as game.
func (r *Runner) buildGame() *tengo.ImmutableMap {
	s := r.s
	values := map[string]tengo.Object{
		"state": r.state,
	}
	def := func(name string, fn gameFunc) {
		values[name] = &tengo.UserFunction{Name: name, Value: fn}
	}

	def("create_circle", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		radius, x, y := argFloat(args, 0), argFloat(args, 1), argFloat(args, 2)
		a, err := s.CreateCircle(radius, actorOptions(x, y, optsArg(args, 3)))
		return r.created(a, err)
	})
	def("create_rect", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		w, h := argFloat(args, 0), argFloat(args, 1)
		a, err := s.CreateRect(w, h, actorOptions(argFloat(args, 2), argFloat(args, 3), optsArg(args, 4)))
		return r.created(a, err)
	})
	def("create_polygon", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 4 {
			return nil, tengo.ErrWrongNumArguments
		}
		sides, _ := tengo.ToInt(args[0])
		radius := argFloat(args, 1)
		a, err := s.CreatePolygon(sides, radius, actorOptions(argFloat(args, 2), argFloat(args, 3), optsArg(args, 4)))
		return r.created(a, err)
	})
	def("create_walls", func(args ...tengo.Object) (tengo.Object, error) {
		opts := gamejr.AllWalls()
		m := optsArg(args, 0)
		if v, ok := m["elasticity"]; ok {
			opts.Elasticity = gamejr.Ptr(toFloat(v))
		}
		if v, ok := m["friction"]; ok {
			opts.Friction = gamejr.Ptr(toFloat(v))
		}
		if v, ok := m["color"].(string); ok {
			opts.Color = v
		}
		walls, err := s.CreateScreenWalls(opts)
		if err != nil {
			return scriptError(err), nil
		}
		ids := make([]tengo.Object, 0, len(walls))
		for _, w := range walls {
			ids = append(ids, idObject(w))
		}
		return &tengo.Array{Value: ids}, nil
	})
	def("remove", func(args ...tengo.Object) (tengo.Object, error) {
		if a := r.actorArg(args, 0); a != nil {
			s.Remove(a)
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	})

	def("key_pressed", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		for _, k := range s.KeysPressed() {
			if k == name {
				return tengo.TrueValue, nil
			}
		}
		return tengo.FalseValue, nil
	})
	def("keys", func(args ...tengo.Object) (tengo.Object, error) {
		keys := s.KeysPressed()
		out := make([]tengo.Object, 0, len(keys))
		for _, k := range keys {
			out = append(out, &tengo.String{Value: k})
		}
		return &tengo.Array{Value: out}, nil
	})
	def("mouse_xy", func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(s.MouseXY()), nil
	})

	def("move_to", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		a.MoveTo(cp.Vector{X: argFloat(args, 1), Y: argFloat(args, 2)})
		return tengo.TrueValue, nil
	})
	def("position", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil {
			return tengo.UndefinedValue, nil
		}
		return vecObject(a.Position()), nil
	})
	def("velocity", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil {
			return tengo.UndefinedValue, nil
		}
		return vecObject(a.Velocity()), nil
	})
	def("set_velocity", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		a.SetVelocity(cp.Vector{X: argFloat(args, 1), Y: argFloat(args, 2)})
		return tengo.TrueValue, nil
	})
	def("apply_impulse", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil || len(args) < 3 {
			return tengo.FalseValue, nil
		}
		a.ApplyImpulse(cp.Vector{X: argFloat(args, 1), Y: argFloat(args, 2)}, cp.Vector{})
		return tengo.TrueValue, nil
	})
	def("turn_by", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		a.TurnBy(argFloat(args, 1))
		return tengo.TrueValue, nil
	})
	def("set_color", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil || len(args) < 2 {
			return tengo.FalseValue, nil
		}
		name := objectAsString(args[1])
		c, err := common.ParseColor(name)
		if err != nil {
			return scriptError(err), nil
		}
		a.SetColor(c)
		return tengo.TrueValue, nil
	})
	def("touches", func(args ...tengo.Object) (tengo.Object, error) {
		a := r.actorArg(args, 0)
		if a == nil {
			return &tengo.Array{}, nil
		}
		if len(args) > 1 {
			other := r.actorArg(args, 1)
			if other == nil {
				return tengo.FalseValue, nil
			}
			return tengo.FromInterface(len(a.Touches(other)) > 0)
		}
		var out []tengo.Object
		for _, t := range a.Touches() {
			out = append(out, idObject(t.Actor))
		}
		return &tengo.Array{Value: out}, nil
	})

	def("add_text", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 3 {
			return nil, tengo.ErrWrongNumArguments
		}
		text := objectAsString(args[0])
		m := optsArg(args, 3)
		info := gamejr.TextInfo{
			Text:   text,
			Offset: cp.Vector{X: argFloat(args, 1), Y: argFloat(args, 2)},
			Size:   toFloat(m["size"]),
		}
		info.Color, _ = m["color"].(string)
		info.Background, _ = m["background"].(string)
		name, _ := m["name"].(string)
		if name == "" {
			name = text
		}
		s.AddText(info, name)
		return &tengo.String{Value: name}, nil
	})
	def("remove_text", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		name := objectAsString(args[0])
		if err := s.RemoveText(name); err != nil {
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	})

	def("set_gravity", func(args ...tengo.Object) (tengo.Object, error) {
		switch len(args) {
		case 1:
			s.SetGravity(cp.Vector{Y: argFloat(args, 0)})
		case 2:
			s.SetGravity(cp.Vector{X: argFloat(args, 0), Y: argFloat(args, 1)})
		default:
			return nil, tengo.ErrWrongNumArguments
		}
		return tengo.TrueValue, nil
	})
	def("play_sound", func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return nil, tengo.ErrWrongNumArguments
		}
		path := objectAsString(args[0])
		loops, volume := 0, 1.0
		if len(args) > 1 {
			loops, _ = tengo.ToInt(args[1])
		}
		if len(args) > 2 {
			volume = argFloat(args, 2)
		}
		if err := s.Sound().Play(path, loops, volume); err != nil {
			r.logger.Warn("play sound", "path", path, "err", err)
			return tengo.FalseValue, nil
		}
		return tengo.TrueValue, nil
	})
	def("screen_size", func(args ...tengo.Object) (tengo.Object, error) {
		w, h := s.ScreenSize()
		return vecObject(cp.Vector{X: float64(w), Y: float64(h)}), nil
	})
	def("frame", func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: int64(s.Frames())}, nil
	})
	def("end", func(args ...tengo.Object) (tengo.Object, error) {
		s.End()
		return tengo.TrueValue, nil
	})

	return &tengo.ImmutableMap{Value: values}
}

// created turns a factory result into an id, or a script error value so
// scripts can test is_error.
func (r *Runner) created(a *gamejr.Actor, err error) (tengo.Object, error) {
	if err != nil {
		r.logger.Warn("create", "err", err)
		return scriptError(err), nil
	}
	return idObject(a), nil
}

func (r *Runner) actorArg(args []tengo.Object, i int) *gamejr.Actor {
	if i >= len(args) {
		return nil
	}
	id, ok := tengo.ToInt64(args[i])
	if !ok {
		return nil
	}
	a, err := r.s.Actor(ecs.Entity(uint64(id)))
	if err != nil {
		return nil
	}
	return a
}

// actorOptions maps a script option map onto factory options.
func actorOptions(x, y float64, m map[string]any) gamejr.ActorOptions {
	opts := gamejr.ActorOptions{Center: gamejr.At(x, y)}
	switch m["kind"] {
	case "static":
		opts.Kind = physics.Static
	case "kinematic":
		opts.Kind = physics.Kinematic
	}
	if b, _ := m["static"].(bool); b {
		opts.Kind = physics.Static
	}
	if v, ok := m["elasticity"]; ok {
		opts.Elasticity = gamejr.Ptr(toFloat(v))
	}
	if v, ok := m["friction"]; ok {
		opts.Friction = gamejr.Ptr(toFloat(v))
	}
	opts.Mass = toFloat(m["mass"])
	opts.Density = toFloat(m["density"])
	opts.Angle = toFloat(m["angle"])
	opts.Border = toFloat(m["border"])
	opts.Velocity = cp.Vector{X: toFloat(m["vx"]), Y: toFloat(m["vy"])}
	opts.Color, _ = m["color"].(string)
	opts.BorderColor, _ = m["border_color"].(string)
	if img, ok := m["image"].(string); ok && img != "" {
		opts.Paths = []string{img}
	}
	return opts
}

func scriptError(err error) tengo.Object {
	return &tengo.Error{Value: &tengo.String{Value: fmt.Sprint(err)}}
}
