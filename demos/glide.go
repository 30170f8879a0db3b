package demos

import (
	"math/rand/v2"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween/ease"
)

const (
	glideSpeed   = 2
	glideSeconds = 0.8
	boomText     = "BOOM!!"
)

var glide = Demo{
	Name:     "glide",
	Summary:  "an arrow that chases the mouse; clicks glide the camera",
	Controls: "mouse: lead the arrow, click: centre the camera there, r: reset camera",
	Configure: func(cfg *config.Config) {
		cfg.Gravity = config.Gravity{}
		cfg.Width, cfg.Height = 640, 480
		cfg.Debug.ShowMouse = true
	},
	Setup: setupGlide,
}

func setupGlide(s *gamejr.Session, _ *rand.Rand) error {
	w, h := s.ScreenSize()
	arrow, err := s.CreatePolygonAny(
		[]cp.Vector{{X: 30, Y: 0}, {X: -15, Y: 15}, {X: -15, Y: -15}},
		gamejr.ActorOptions{
			Center: gamejr.At(float64(w)/2, float64(h)/2),
			Kind:   physics.Kinematic,
			Color:  "gold",
			Border: 2,
			Draw:   gamejr.DrawOptions{CenterDot: true},
		},
	)
	if err != nil {
		return err
	}

	// Markers give the camera something to move past.
	for x := 40; x < w; x += 120 {
		for y := 40; y < h; y += 120 {
			if _, err := s.CreateRect(10, 10, gamejr.ActorOptions{
				Center: gamejr.At(float64(x), float64(y)),
				Kind:   physics.Static,
				Color:  "gray",
			}); err != nil {
				return err
			}
		}
	}

	s.OnMouseDown(nil, func(_ *gamejr.Actor, button string, pos cp.Vector) {
		if button != "left" {
			return
		}
		vw, vh := s.Camera().Viewport()
		target := pos.Sub(cp.Vector{X: vw / 2, Y: vh / 2})
		s.Camera().GlideTo(target, glideSeconds, ease.OutQuad)
	})
	s.OnKeyDown(nil, func(_ *gamejr.Actor, key string) {
		if key == "r" {
			s.Camera().GlideTo(cp.Vector{}, glideSeconds, ease.InOutQuad)
		}
	})
	s.OnFrame(func(s *gamejr.Session) {
		mouse := s.MouseXY()
		arrow.TurnTowards(mouse)
		arrow.GlideTo(mouse, glideSpeed)
		if arrow.TouchesAt(mouse) {
			arrow.AddText(gamejr.TextInfo{Text: boomText, Offset: cp.Vector{Y: 30}, Color: "red"}, boomText)
		} else {
			_ = arrow.RemoveText(boomText)
		}
	})
	return nil
}
