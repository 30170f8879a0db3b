package demos

import (
	"math/rand/v2"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/jakecoffman/cp"
)

const (
	boxBalls  = 30
	ballImage = "ball.png"
)

var ballColors = []string{"red", "orange", "yellow", "lime", "cyan", "deepskyblue", "violet", "white"}

var ballsInBox = Demo{
	Name:     "balls-in-box",
	Summary:  "thirty elastic balls in a closed box without gravity",
	Controls: "space: kick every ball",
	Configure: func(cfg *config.Config) {
		cfg.Gravity = config.Gravity{}
		cfg.Width, cfg.Height = 640, 480
	},
	Setup: setupBallsInBox,
}

func setupBallsInBox(s *gamejr.Session, rng *rand.Rand) error {
	if _, err := s.CreateScreenWalls(gamejr.WallOptions{
		Left: true, Right: true, Top: true, Bottom: true,
		Elasticity: gamejr.Ptr(1.0),
		Friction:   gamejr.Ptr(0.0),
	}); err != nil {
		return err
	}

	w, h := s.ScreenSize()
	margin := 60.0
	balls := make([]*gamejr.Actor, 0, boxBalls)
	for i := 0; i < boxBalls; i++ {
		center := cp.Vector{
			X: margin + rng.Float64()*(float64(w)-2*margin),
			Y: margin + rng.Float64()*(float64(h)-2*margin),
		}
		ball, err := s.CreateCircle(12, gamejr.ActorOptions{
			Center:          &center,
			Density:         1,
			Elasticity:      gamejr.Ptr(1.0),
			Friction:        gamejr.Ptr(0.0),
			Velocity:        cp.Vector{X: rng.Float64()*400 - 200, Y: rng.Float64()*400 - 200},
			AngularVelocity: rng.Float64()*100 - 50,
			Color:           ballColors[i%len(ballColors)],
			Border:          1,
			Draw:            gamejr.DrawOptions{Heading: true},
			Paths:           []string{ballImage},
		})
		if err != nil {
			return err
		}
		ball.FitImage()
		balls = append(balls, ball)
	}

	s.OnKeyDown(nil, func(_ *gamejr.Actor, key string) {
		if key != "space" {
			return
		}
		for _, b := range balls {
			b.ApplyImpulse(cp.Vector{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100}, cp.Vector{})
		}
	})
	return nil
}
