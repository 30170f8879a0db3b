package gamejr

import (
	"fmt"
	"image/color"
	"sync"

	"github.com/gamejr/gamejr/render"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"golang.design/x/clipboard"
)

// overlayCopyKey copies the cursor's world position while the overlay is on.
const overlayCopyKey = "c"

// mouseOverlay prints the cursor's world position next to it.
type mouseOverlay struct {
	s *Session

	initOnce sync.Once
	initErr  error
}

// label formats a world position the way it is copied.
func (o *mouseOverlay) label(p cp.Vector) string {
	return fmt.Sprintf("%.0f, %.0f", p.X, p.Y)
}

func (o *mouseOverlay) draw(dst *ebiten.Image, comp *render.Compositor) {
	pos := o.s.MouseScreenXY()
	t := render.Text{
		Text:       o.label(o.s.MouseXY()),
		Size:       10,
		Color:      color.White,
		Background: color.RGBA{A: 160},
	}
	anchor := pos.Add(cp.Vector{X: 12, Y: 12})
	w, h := o.s.ScreenSize()
	anchor.X = min(anchor.X, float64(w)-60)
	anchor.Y = min(anchor.Y, float64(h)-14)
	comp.DrawText(dst, t, anchor)
}

// copy puts the current world position on the system clipboard.
func (o *mouseOverlay) copy() {
	text := o.label(o.s.MouseXY())
	o.initOnce.Do(func() { o.initErr = clipboard.Init() })
	if o.initErr != nil {
		o.s.logger.Warn("clipboard unavailable", "err", o.initErr)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(text))
	o.s.logger.Info("copied mouse position", "pos", text)
}
