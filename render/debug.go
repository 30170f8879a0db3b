package render

import (
	"image/color"
	"math"

	"github.com/gamejr/gamejr/camera"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp"
)

// DrawSpace overlays every shape, constraint and contact in space, projected
// through cam onto a screen of height screenH.
func DrawSpace(dst *ebiten.Image, space *cp.Space, cam *camera.Camera, screenH float64) {
	if dst == nil || space == nil {
		return
	}
	cp.DrawSpace(space, &spaceDrawer{dst: dst, cam: cam, screenH: screenH})
}

type spaceDrawer struct {
	dst     *ebiten.Image
	cam     *camera.Camera
	screenH float64
}

func (d *spaceDrawer) project(p cp.Vector) (float32, float32) {
	v := d.cam.Point(p)
	return float32(v.X), float32(d.screenH - v.Y)
}

func (d *spaceDrawer) zoom() float64 {
	if d.cam == nil {
		return 1
	}
	return d.cam.Scale()
}

func (d *spaceDrawer) line(a, b cp.Vector, clr color.Color) {
	ax, ay := d.project(a)
	bx, by := d.project(b)
	vector.StrokeLine(d.dst, ax, ay, bx, by, 1, clr, true)
}

func (d *spaceDrawer) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	x, y := d.project(pos)
	r := float32(radius * d.zoom())
	c := toRGBA(outline)
	vector.StrokeCircle(d.dst, x, y, r, 1, c, true)
	d.line(pos, pos.Add(cp.ForAngle(angle).Mult(radius)), c)
}

func (d *spaceDrawer) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	d.line(a, b, toRGBA(fill))
}

func (d *spaceDrawer) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	ax, ay := d.project(a)
	bx, by := d.project(b)
	w := float32(math.Max(1, 2*radius*d.zoom()))
	vector.StrokeLine(d.dst, ax, ay, bx, by, w, toRGBA(outline), true)
}

func (d *spaceDrawer) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}
	c := toRGBA(outline)
	for i := 0; i < count; i++ {
		d.line(verts[i], verts[(i+1)%count], c)
	}
}

func (d *spaceDrawer) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	x, y := d.project(pos)
	vector.FillCircle(d.dst, x, y, float32(math.Max(1, size/2)), toRGBA(fill), true)
}

func (d *spaceDrawer) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS
}

func (d *spaceDrawer) OutlineColor() cp.FColor {
	return cp.FColor{R: 0.2, G: 1, B: 0.2, A: 1}
}

func (d *spaceDrawer) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	switch {
	case shape == nil:
		return cp.FColor{R: 1, G: 1, B: 1, A: 1}
	case shape.Sensor():
		return cp.FColor{R: 1, G: 0.85, B: 0.2, A: 1}
	case shape.Body() != nil && shape.Body().GetType() == cp.BODY_STATIC:
		return cp.FColor{R: 0.4, G: 0.7, B: 1, A: 1}
	case shape.Body() != nil && shape.Body().IsSleeping():
		return cp.FColor{R: 0.5, G: 0.5, B: 0.5, A: 1}
	default:
		return cp.FColor{R: 0.9, G: 0.4, B: 0.9, A: 1}
	}
}

func (d *spaceDrawer) ConstraintColor() cp.FColor {
	return cp.FColor{R: 0.7, G: 0.7, B: 0.7, A: 1}
}

func (d *spaceDrawer) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.1, B: 0.1, A: 1}
}

func (d *spaceDrawer) Data() interface{} {
	return nil
}

func toRGBA(c cp.FColor) color.RGBA {
	clamp := func(v float32) uint8 {
		return uint8(math.Round(float64(min(max(v, 0), 1)) * 255))
	}
	return color.RGBA{R: clamp(c.R), G: clamp(c.G), B: clamp(c.B), A: clamp(c.A)}
}
