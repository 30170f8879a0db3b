package demos

import (
	"math/rand/v2"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/physics"
)

var bouncingBall = Demo{
	Name:     "bouncing-ball",
	Summary:  "a ball moved by hand that turns around at the screen edges",
	Controls: "space: random speed",
	Configure: func(cfg *config.Config) {
		cfg.Gravity = config.Gravity{}
	},
	Setup: setupBouncingBall,
}

func setupBouncingBall(s *gamejr.Session, rng *rand.Rand) error {
	ball, err := s.CreateCircle(20, gamejr.ActorOptions{
		Center: gamejr.At(100, 100),
		Kind:   physics.Kinematic,
		Color:  "orange",
		Border: 2,
	})
	if err != nil {
		return err
	}
	w, h := s.ScreenSize()
	dx, dy := 4.0, 4.0

	s.OnKeyDown(nil, func(_ *gamejr.Actor, key string) {
		if key == "space" {
			dx = sign(dx) * (2 + rng.Float64()*6)
			dy = sign(dy) * (2 + rng.Float64()*6)
		}
	})
	s.OnFrame(func(*gamejr.Session) {
		ball.MoveBy(dx, dy)
		if (ball.Left() < 0 && dx < 0) || (ball.Right() > float64(w) && dx > 0) {
			dx = -dx
		}
		if (ball.Bottom() < 0 && dy < 0) || (ball.Top() > float64(h) && dy > 0) {
			dy = -dy
		}
	})
	return nil
}

func sign(v float64) float64 {
	if v < 0 {
		return -1
	}
	return 1
}
