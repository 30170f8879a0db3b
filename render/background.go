package render

import (
	"image/color"
	"math"

	"github.com/gamejr/gamejr/camera"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

// MaxTiles bounds how many background tiles one frame may draw.
const MaxTiles = 4096

// Background fills the screen with a colour and an optional image tiled in
// world space, so it pans, zooms and turns with the camera.
type Background struct {
	Color color.Color
	Image *ebiten.Image
}

// Draw clears dst and tiles the image across the whole viewport.
func (b *Background) Draw(dst *ebiten.Image, cam *camera.Camera) {
	if b == nil || dst == nil {
		return
	}
	if b.Color != nil {
		dst.Fill(b.Color)
	} else {
		dst.Clear()
	}
	if b.Image == nil {
		return
	}

	tw, th := float64(b.Image.Bounds().Dx()), float64(b.Image.Bounds().Dy())
	screenW, screenH := float64(dst.Bounds().Dx()), float64(dst.Bounds().Dy())
	zoom, angle := 1.0, 0.0
	if cam != nil {
		zoom, angle = cam.Scale(), cam.Radians()
	}
	for _, origin := range TileOrigins(cam, tw, th, screenW, screenH) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(zoom, zoom)
		op.GeoM.Rotate(-angle)
		op.GeoM.Translate(origin.X, origin.Y)
		op.Filter = ebiten.FilterLinear
		dst.DrawImage(b.Image, op)
	}
}

// TileOrigins returns the y-down screen positions of the top-left corner
// of every world tile of size tw×th that intersects a screenW×screenH
// viewport. Tiles sit on the world grid anchored at the origin, so the
// first visible one starts at the camera offset modulo the tile size. It
// returns nil when the grid would exceed MaxTiles.
func TileOrigins(cam *camera.Camera, tw, th, screenW, screenH float64) []cp.Vector {
	if tw <= 0 || th <= 0 || screenW <= 0 || screenH <= 0 {
		return nil
	}
	corners := []cp.Vector{
		{X: 0, Y: 0}, {X: screenW, Y: 0}, {X: screenW, Y: screenH}, {X: 0, Y: screenH},
	}
	lo := cp.Vector{X: math.Inf(1), Y: math.Inf(1)}
	hi := cp.Vector{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, v := range corners {
		w := cam.Inverse(v)
		lo.X, lo.Y = math.Min(lo.X, w.X), math.Min(lo.Y, w.Y)
		hi.X, hi.Y = math.Max(hi.X, w.X), math.Max(hi.Y, w.Y)
	}

	i0, i1 := int(math.Floor(lo.X/tw)), int(math.Ceil(hi.X/tw))
	j0, j1 := int(math.Floor(lo.Y/th)), int(math.Ceil(hi.Y/th))
	if (i1-i0)*(j1-j0) > MaxTiles {
		return nil
	}

	out := make([]cp.Vector, 0, (i1-i0)*(j1-j0))
	for j := j0; j < j1; j++ {
		for i := i0; i < i1; i++ {
			topLeft := cp.Vector{X: float64(i) * tw, Y: float64(j+1) * th}
			v := cam.Point(topLeft)
			out = append(out, cp.Vector{X: v.X, Y: screenH - v.Y})
		}
	}
	return out
}
