package demos

import (
	"fmt"
	"math/rand/v2"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

var hud = Demo{
	Name:     "hud",
	Summary:  "screen-fixed labels over a camera-controlled world",
	Controls: "arrows/zoom/turn keys: camera, space: spend inventory",
	Configure: func(cfg *config.Config) {
		cfg.Gravity = config.Gravity{}
		cfg.Width, cfg.Height = 960, 540
		cfg.Camera.Controls = true
	},
	Setup: setupHUD,
}

func setupHUD(s *gamejr.Session, rng *rand.Rand) error {
	score, health, inventory := 0, 100, 10
	w, _ := s.ScreenSize()

	h := s.HUD()
	scoreLabel := h.AddText(fmt.Sprintf("Score: %d", score), cp.Vector{X: 10, Y: 10}, 30, "red")
	healthLabel := h.AddText(fmt.Sprintf("Health: %d", health), cp.Vector{X: float64(w) - 160, Y: 10}, 30, "blue")
	inventoryLabel := h.AddText(fmt.Sprintf("Inventory: %d", inventory), cp.Vector{X: 10, Y: 40}, 20, "purple")
	h.ShowFPS(cp.Vector{X: float64(w) - 160, Y: 44})

	ball, err := s.CreateCircle(100, gamejr.ActorOptions{
		Center: gamejr.At(200, 200),
		Kind:   physics.Kinematic,
		Color:  "red",
		Draw:   gamejr.DrawOptions{Heading: true},
	})
	if err != nil {
		return err
	}

	fps := uint64(s.Config().FPS)
	s.OnKeyDown(nil, func(_ *gamejr.Actor, key string) {
		if key != "space" || inventory == 0 {
			return
		}
		inventory--
		inventoryLabel.SetText(fmt.Sprintf("Inventory: %d", inventory))
	})
	s.OnFrame(func(s *gamejr.Session) {
		ball.TurnBy(1)
		if s.Frames() > 0 && s.Frames()%fps == 0 {
			score += 10
			health = max(0, health-rng.IntN(5))
			scoreLabel.SetText(fmt.Sprintf("Score: %d", score))
			healthLabel.SetText(fmt.Sprintf("Health: %d", health))
		}
	})
	return nil
}
