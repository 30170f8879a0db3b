package camera

import (
	"math"

	"github.com/gamejr/gamejr/common"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// ApplyOptions selects which parts of the view transform Apply uses.
type ApplyOptions struct {
	Translate bool
	Scale     bool
	Rotate    bool
}

// All enables every stage of the view transform.
var All = ApplyOptions{Translate: true, Scale: true, Rotate: true}

type glide struct {
	x, y         *gween.Tween
	doneX, doneY bool
}

// Camera maps y-up world coordinates into y-up view coordinates. A world
// point p lands at rotate(scale(p)) - offset, so the offset is the view
// position of the viewport's bottom-left corner.
type Camera struct {
	offset cp.Vector
	angle  float64
	scale  float64

	width, height float64

	cos, sin float64
	dirty    bool

	glide *glide
}

// New creates an identity camera over a width×height viewport.
func New(width, height float64) *Camera {
	return &Camera{scale: 1, width: width, height: height, dirty: true}
}

func (c *Camera) Viewport() (width, height float64) {
	if c == nil {
		return 0, 0
	}
	return c.width, c.height
}

func (c *Camera) Offset() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	return c.offset
}

// Angle returns the camera rotation in degrees.
func (c *Camera) Angle() float64 {
	if c == nil {
		return 0
	}
	return common.Rad2Deg(c.angle)
}

// Radians returns the camera rotation in radians.
func (c *Camera) Radians() float64 {
	if c == nil {
		return 0
	}
	return c.angle
}

func (c *Camera) Scale() float64 {
	if c == nil {
		return 1
	}
	return c.scale
}

// IsIdentity reports whether Apply would return its input unchanged.
func (c *Camera) IsIdentity() bool {
	return c == nil || (c.scale == 1 && c.angle == 0 && c.offset.X == 0 && c.offset.Y == 0)
}

func (c *Camera) rotation() (float64, float64) {
	if c.dirty {
		c.cos, c.sin = math.Cos(c.angle), math.Sin(c.angle)
		c.dirty = false
	}
	return c.cos, c.sin
}

func (c *Camera) invalidate() {
	c.dirty = true
}

// Apply transforms points from world to view space. With an identity
// camera the input slice itself is returned.
func (c *Camera) Apply(points []cp.Vector, opts ApplyOptions) []cp.Vector {
	if c.IsIdentity() {
		return points
	}
	out := make([]cp.Vector, len(points))
	for i, p := range points {
		out[i] = c.apply(p, opts)
	}
	return out
}

// ApplyAll applies scale, rotation and translation.
func (c *Camera) ApplyAll(points []cp.Vector) []cp.Vector {
	return c.Apply(points, All)
}

// Point transforms a single world point with every stage enabled.
func (c *Camera) Point(p cp.Vector) cp.Vector {
	if c.IsIdentity() {
		return p
	}
	return c.apply(p, All)
}

func (c *Camera) apply(p cp.Vector, opts ApplyOptions) cp.Vector {
	if opts.Scale {
		p = p.Mult(c.scale)
	}
	if opts.Rotate {
		cos, sin := c.rotation()
		p = cp.Vector{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
	}
	if opts.Translate {
		p = p.Sub(c.offset)
	}
	return p
}

// Inverse maps a view point back to world space.
func (c *Camera) Inverse(p cp.Vector) cp.Vector {
	if c.IsIdentity() {
		return p
	}
	p = p.Add(c.offset)
	cos, sin := c.rotation()
	p = cp.Vector{X: p.X*cos + p.Y*sin, Y: -p.X*sin + p.Y*cos}
	return p.Mult(1 / c.scale)
}

// ScreenToWorld converts a y-down screen position to world space.
func (c *Camera) ScreenToWorld(screen cp.Vector) cp.Vector {
	if c == nil {
		return screen
	}
	return c.Inverse(cp.Vector{X: screen.X, Y: c.height - screen.Y})
}

// WorldToScreen converts a world point to a y-down screen position.
func (c *Camera) WorldToScreen(world cp.Vector) cp.Vector {
	if c == nil {
		return world
	}
	v := c.Point(world)
	return cp.Vector{X: v.X, Y: c.height - v.Y}
}

// GeoM returns the world-to-view transform as an ebiten matrix.
func (c *Camera) GeoM() ebiten.GeoM {
	var g ebiten.GeoM
	if c.IsIdentity() {
		return g
	}
	g.Scale(c.scale, c.scale)
	g.Rotate(c.angle)
	g.Translate(-c.offset.X, -c.offset.Y)
	return g
}

func (c *Camera) center() cp.Vector {
	return cp.Vector{X: c.width / 2, Y: c.height / 2}
}

// MoveBy shifts the view offset by d view units.
func (c *Camera) MoveBy(d cp.Vector) {
	if c == nil {
		return
	}
	c.offset = c.offset.Add(d)
	c.invalidate()
}

// MoveTo sets the view offset.
func (c *Camera) MoveTo(offset cp.Vector) {
	if c == nil {
		return
	}
	c.offset = offset
	c.invalidate()
}

// TurnBy rotates the view by deg degrees about the viewport centre.
func (c *Camera) TurnBy(deg float64) {
	if c == nil || deg == 0 {
		return
	}
	rad := common.Deg2Rad(deg)
	ctr := c.center()
	c.offset = ctr.Add(c.offset).Rotate(cp.ForAngle(rad)).Sub(ctr)
	c.angle = common.NormalizeAngle(c.angle + rad)
	c.invalidate()
}

// TurnTo sets the view rotation in degrees about the viewport centre.
func (c *Camera) TurnTo(deg float64) {
	if c == nil {
		return
	}
	c.TurnBy(common.Rad2Deg(common.NormalizeAngle(common.Deg2Rad(deg) - c.angle)))
}

// ZoomBy multiplies the scale by f about the viewport centre. Non-positive
// factors are ignored.
func (c *Camera) ZoomBy(f float64) {
	if c == nil || !(f > 0) || math.IsInf(f, 0) {
		return
	}
	ctr := c.center()
	c.offset = ctr.Add(c.offset).Mult(f).Sub(ctr)
	c.scale *= f
	c.invalidate()
}

// ZoomTo sets the scale about the viewport centre. Non-positive values are
// ignored.
func (c *Camera) ZoomTo(scale float64) {
	if c == nil || !(scale > 0) {
		return
	}
	c.ZoomBy(scale / c.scale)
}

// Reset restores the identity view and cancels any glide.
func (c *Camera) Reset() {
	if c == nil {
		return
	}
	c.offset = cp.Vector{}
	c.angle = 0
	c.scale = 1
	c.glide = nil
	c.invalidate()
}

// GlideTo tweens the offset to target over seconds. A nil easing function
// means linear; a non-positive duration jumps immediately.
func (c *Camera) GlideTo(target cp.Vector, seconds float32, fn ease.TweenFunc) {
	if c == nil {
		return
	}
	if seconds <= 0 {
		c.glide = nil
		c.MoveTo(target)
		return
	}
	if fn == nil {
		fn = ease.Linear
	}
	c.glide = &glide{
		x: gween.New(float32(c.offset.X), float32(target.X), seconds, fn),
		y: gween.New(float32(c.offset.Y), float32(target.Y), seconds, fn),
	}
}

// Gliding reports whether a glide is in progress.
func (c *Camera) Gliding() bool {
	return c != nil && c.glide != nil
}

// Update advances an active glide by dt seconds.
func (c *Camera) Update(dt float32) {
	if c == nil || c.glide == nil {
		return
	}
	g := c.glide
	if !g.doneX {
		v, done := g.x.Update(dt)
		c.offset.X = float64(v)
		g.doneX = done
	}
	if !g.doneY {
		v, done := g.y.Update(dt)
		c.offset.Y = float64(v)
		g.doneY = done
	}
	if g.doneX && g.doneY {
		c.glide = nil
	}
	c.invalidate()
}
