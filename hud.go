package gamejr

import (
	"fmt"
	"image/color"

	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// HUD holds screen-fixed labels drawn above the world. Positions are
// y-down screen pixels and ignore the camera.
type HUD struct {
	s      *Session
	labels []*Label
	fps    *Label
}

// Label is one HUD line.
type Label struct {
	hud   *HUD
	text  string
	pos   cp.Vector
	size  float64
	color color.Color
}

func newHUD(s *Session) *HUD {
	return &HUD{s: s}
}

// AddText places text at pos. An unparsable colour falls back to white and
// is logged.
func (h *HUD) AddText(text string, pos cp.Vector, size float64, clr string) *Label {
	l := &Label{hud: h, text: text, pos: pos, size: size, color: color.White}
	l.SetColor(clr)
	h.labels = append(h.labels, l)
	return l
}

// ShowFPS keeps a frame-rate label at pos. Calling it again moves it.
func (h *HUD) ShowFPS(pos cp.Vector) *Label {
	if h.fps == nil {
		h.fps = h.AddText("", pos, 0, "white")
	}
	h.fps.pos = pos
	return h.fps
}

// HideFPS removes the frame-rate label.
func (h *HUD) HideFPS() {
	if h.fps != nil {
		h.fps.Remove()
		h.fps = nil
	}
}

// Labels returns the live labels in drawing order.
func (h *HUD) Labels() []*Label {
	return append([]*Label(nil), h.labels...)
}

func (h *HUD) draw(dst *ebiten.Image, comp *render.Compositor) {
	if h.fps == nil && h.s.cfg.Debug.ShowFPS {
		h.ShowFPS(cp.Vector{X: 4, Y: 4})
	}
	if h.fps != nil {
		h.fps.text = fmt.Sprintf("FPS: %.1f", ebiten.ActualFPS())
	}
	for _, l := range h.labels {
		comp.DrawText(dst, render.Text{Text: l.text, Size: l.size, Color: l.color}, l.pos)
	}
}

func (l *Label) Text() string {
	if l == nil {
		return ""
	}
	return l.text
}

func (l *Label) SetText(text string) {
	if l != nil {
		l.text = text
	}
}

// Position is the label's top-left corner in screen pixels.
func (l *Label) Position() cp.Vector {
	if l == nil {
		return cp.Vector{}
	}
	return l.pos
}

func (l *Label) MoveTo(pos cp.Vector) {
	if l != nil {
		l.pos = pos
	}
}

func (l *Label) SetColor(name string) {
	if l == nil || name == "" {
		return
	}
	c, err := common.ParseColor(name)
	if err != nil {
		l.hud.s.logger.Warn("hud color", "text", l.text, "color", name, "err", err)
		return
	}
	l.color = c
}

// Remove takes the label off the HUD.
func (l *Label) Remove() {
	if l == nil || l.hud == nil {
		return
	}
	h := l.hud
	for i, cur := range h.labels {
		if cur == l {
			h.labels = append(h.labels[:i], h.labels[i+1:]...)
			break
		}
	}
	if h.fps == l {
		h.fps = nil
	}
}
