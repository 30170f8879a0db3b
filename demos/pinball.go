package demos

import (
	"math/rand/v2"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/jakecoffman/cp"
)

const (
	flipperStiffness = 20_000_000
	flipperDamping   = 900_000
	flipperRest      = 8.6 // degrees
	flipperKick      = 40_000
)

var pinball = Demo{
	Name:     "pinball",
	Summary:  "two spring-loaded flippers and a ball",
	Controls: "space: new ball, z: left flipper, m: right flipper",
	Configure: func(cfg *config.Config) {
		cfg.Width, cfg.Height = 600, 600
		cfg.Background = "purple"
		cfg.Gravity = config.Gravity{Y: -900}
	},
	Setup: setupPinball,
}

type flipper struct {
	actor *gamejr.Actor
	home  cp.Vector
	key   string
	kick  float64
}

func newFlipper(s *gamejr.Session, home cp.Vector, mirror bool) (*flipper, error) {
	points := []cp.Vector{{X: 30, Y: 620}, {X: -120, Y: 600}, {X: 20, Y: 580}}
	f := &flipper{home: home, key: "m", kick: flipperKick}
	rest := flipperRest
	if mirror {
		for i := range points {
			points[i].X = -points[i].X
		}
		f.key, f.kick, rest = "z", -flipperKick, -flipperRest
	}

	a, err := s.CreatePolygonAny(points, gamejr.ActorOptions{
		Center:     &home,
		Mass:       100,
		Elasticity: gamejr.Ptr(0.4),
		Color:      "green",
	})
	if err != nil {
		return nil, err
	}
	f.actor = a
	if _, err := s.CreatePinJoint(a, gamejr.ToPoint(home)); err != nil {
		return nil, err
	}
	if _, err := s.CreateRotarySpringJoint(a, gamejr.ToPoint(home), gamejr.RotarySpringOptions{
		RestAngle: rest,
		Stiffness: flipperStiffness,
		Damping:   flipperDamping,
	}); err != nil {
		return nil, err
	}
	s.OnKeyPress(a, func(a *gamejr.Actor, keys []string) {
		for _, k := range keys {
			if k == f.key {
				a.ApplyImpulse(cp.Vector{Y: f.kick}, cp.Vector{X: -100})
				return
			}
		}
	})
	return f, nil
}

// pin holds the flipper on its hinge; the spring only turns it.
func (f *flipper) pin() {
	f.actor.MoveTo(f.home)
	f.actor.SetVelocity(cp.Vector{})
}

func setupPinball(s *gamejr.Session, rng *rand.Rand) error {
	if _, err := s.CreateScreenWalls(gamejr.WallOptions{
		Left: true, Right: true, Top: true,
		Elasticity: gamejr.Ptr(0.7),
	}); err != nil {
		return err
	}
	right, err := newFlipper(s, cp.Vector{X: 450, Y: 100}, false)
	if err != nil {
		return err
	}
	left, err := newFlipper(s, cp.Vector{X: 150, Y: 100}, true)
	if err != nil {
		return err
	}

	var ball *gamejr.Actor
	s.OnFrame(func(s *gamejr.Session) {
		if ball == nil {
			for _, k := range s.KeysPressed() {
				if k != "space" {
					continue
				}
				center := cp.Vector{X: float64(115 + rng.IntN(236)), Y: 400}
				b, err := s.CreateCircle(25, gamejr.ActorOptions{
					Center:     &center,
					Mass:       1,
					Elasticity: gamejr.Ptr(0.95),
					Color:      "red",
				})
				if err != nil {
					s.Logger().Error("new ball", "err", err)
					return
				}
				ball = b
				break
			}
		}
		right.pin()
		left.pin()
		if ball != nil && ball.Position().Y < 0 {
			s.Remove(ball)
			ball = nil
		}
	})
	return nil
}
