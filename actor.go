package gamejr

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/costume"
	"github.com/gamejr/gamejr/ecs"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

var (
	ErrUnknownText  = errors.New("unknown text")
	ErrUnknownActor = errors.New("unknown actor")
)

// DrawOptions toggles debug markers drawn over an actor.
type DrawOptions struct {
	Heading   bool
	CenterDot bool
}

// TextInfo is a label drawn next to an actor. Offset is in screen pixels
// from the actor centre with y up. Colors are names or hex strings.
type TextInfo struct {
	Text       string
	Offset     cp.Vector
	Size       float64
	Color      string
	Background string
}

// Touch is another actor overlapping this one.
type Touch struct {
	Actor    *Actor
	Contacts cp.ContactPointSet
}

// Actor is a visible object backed by exactly one body and shape.
type Actor struct {
	s     *Session
	id    ecs.Entity
	body  *cp.Body
	shape *cp.Shape
	kind  physics.BodyKind

	visible     bool
	border      float64
	fill        color.Color
	borderColor color.Color
	draw        DrawOptions

	costumes  costume.Set
	texts     map[string]TextInfo
	textOrder []string
}

func (a *Actor) ID() ecs.Entity {
	if a == nil {
		return 0
	}
	return a.id
}

func (a *Actor) Body() *cp.Body   { return a.body }
func (a *Actor) Shape() *cp.Shape { return a.shape }

func (a *Actor) Kind() physics.BodyKind {
	return a.kind
}

// Geometry returns the shape the actor collides with.
func (a *Actor) Geometry() physics.Geometry {
	if !a.alive() {
		return nil
	}
	g, _ := a.s.world.GeometryOf(a.body)
	return g
}

// Alive reports whether the actor has not been removed.
func (a *Actor) Alive() bool {
	return a.alive()
}

func (a *Actor) alive() bool {
	return a != nil && a.s != nil && a.s.actors.Has(a.id)
}

func (a *Actor) place(pos cp.Vector, angle float64) {
	if !a.alive() {
		return
	}
	if err := a.s.world.MoveBody(a.body, pos, angle); err != nil {
		a.s.logger.Warn("move actor", "actor", a.id, "err", err)
	}
}

// MoveBy shifts the actor by (dx, dy) world units.
func (a *Actor) MoveBy(dx, dy float64) {
	if !a.alive() {
		return
	}
	a.place(a.body.Position().Add(cp.Vector{X: dx, Y: dy}), a.body.Angle())
}

// MoveTo places the actor's body origin at p.
func (a *Actor) MoveTo(p cp.Vector) {
	if !a.alive() {
		return
	}
	a.place(p, a.body.Angle())
}

func (a *Actor) Position() cp.Vector {
	if !a.alive() {
		return cp.Vector{}
	}
	return a.body.Position()
}

func (a *Actor) Velocity() cp.Vector {
	if !a.alive() {
		return cp.Vector{}
	}
	return a.body.Velocity()
}

func (a *Actor) SetVelocity(v cp.Vector) {
	if !a.alive() {
		return
	}
	a.body.SetVelocityVector(v)
}

// AngularVelocity is in degrees per second.
func (a *Actor) AngularVelocity() float64 {
	if !a.alive() {
		return 0
	}
	return common.Rad2Deg(a.body.AngularVelocity())
}

func (a *Actor) SetAngularVelocity(deg float64) {
	if !a.alive() {
		return
	}
	a.body.SetAngularVelocity(common.Deg2Rad(deg))
}

// Angle returns the heading in degrees, counter-clockwise from +x.
func (a *Actor) Angle() float64 {
	if !a.alive() {
		return 0
	}
	return common.Rad2Deg(a.body.Angle())
}

func (a *Actor) TurnBy(deg float64) {
	if !a.alive() {
		return
	}
	a.place(a.body.Position(), a.body.Angle()+common.Deg2Rad(deg))
}

func (a *Actor) TurnTo(deg float64) {
	if !a.alive() {
		return
	}
	a.place(a.body.Position(), common.Deg2Rad(deg))
}

// TurnTowards points the heading at p.
func (a *Actor) TurnTowards(p cp.Vector) {
	if !a.alive() {
		return
	}
	d := p.Sub(a.body.Position())
	if d.LengthSq() == 0 {
		return
	}
	a.place(a.body.Position(), math.Atan2(d.Y, d.X))
}

// GlideTo moves at most speed units toward p and reports whether p was
// reached.
func (a *Actor) GlideTo(p cp.Vector, speed float64) bool {
	if !a.alive() {
		return false
	}
	pos := a.body.Position()
	d := p.Sub(pos)
	dist := d.Length()
	if dist <= speed || dist == 0 {
		a.place(p, a.body.Angle())
		return true
	}
	if speed <= 0 {
		return false
	}
	a.place(pos.Add(d.Mult(speed/dist)), a.body.Angle())
	return false
}

// ApplyForce applies a world-space force at a body-local point until the
// next step.
func (a *Actor) ApplyForce(force, localPoint cp.Vector) {
	if !a.alive() {
		return
	}
	a.body.ApplyForceAtLocalPoint(force, localPoint)
}

// ApplyImpulse applies a world-space impulse at a body-local point.
func (a *Actor) ApplyImpulse(impulse, localPoint cp.Vector) {
	if !a.alive() {
		return
	}
	a.body.ApplyImpulseAtLocalPoint(impulse, localPoint)
}

func (a *Actor) ApplyTorque(t float64) {
	if !a.alive() {
		return
	}
	a.body.SetTorque(a.body.Torque() + t)
}

// ApplyImpulseTorque changes angular velocity by t divided by the moment.
// Bodies with a zero or infinite moment are left alone.
func (a *Actor) ApplyImpulseTorque(t float64) {
	if !a.alive() {
		return
	}
	m := a.body.Moment()
	if m == 0 || math.IsInf(m, 0) || math.IsNaN(m) {
		return
	}
	a.body.SetAngularVelocity(a.body.AngularVelocity() + t/m)
}

// Touches returns the actors overlapping this one. With arguments the
// result is limited to those actors.
func (a *Actor) Touches(others ...*Actor) []Touch {
	if !a.alive() {
		return nil
	}
	var want map[ecs.Entity]bool
	if len(others) > 0 {
		want = make(map[ecs.Entity]bool, len(others))
		for _, o := range others {
			if o != nil {
				want[o.id] = true
			}
		}
	}
	var out []Touch
	for _, ov := range a.s.world.QueryOverlaps(a.shape) {
		if ov.Entity == a.id || (want != nil && !want[ov.Entity]) {
			continue
		}
		other, ok := a.s.actors.Get(ov.Entity)
		if !ok {
			continue
		}
		out = append(out, Touch{Actor: other, Contacts: ov.Contacts})
	}
	return out
}

// TouchesAt reports whether p lies inside or on the actor's shape.
func (a *Actor) TouchesAt(p cp.Vector) bool {
	if !a.alive() {
		return false
	}
	return a.s.world.QueryPoint(a.shape, p)
}

// DistanceTo returns the distance from the actor's position to p.
func (a *Actor) DistanceTo(p cp.Vector) float64 {
	if !a.alive() {
		return 0
	}
	return a.body.Position().Distance(p)
}

// Rect is the shape's world bounding box.
func (a *Actor) Rect() common.Rect {
	if !a.alive() {
		return common.Rect{}
	}
	return common.RectFromBB(a.shape.BB())
}

func (a *Actor) X() float64        { return a.Position().X }
func (a *Actor) Y() float64        { return a.Position().Y }
func (a *Actor) Center() cp.Vector { return a.Rect().Center() }
func (a *Actor) Width() float64    { return a.Rect().W }
func (a *Actor) Height() float64   { return a.Rect().H }
func (a *Actor) Top() float64      { return a.Rect().Top() }
func (a *Actor) Bottom() float64   { return a.Rect().Bottom() }
func (a *Actor) Left() float64     { return a.Rect().Left() }
func (a *Actor) Right() float64    { return a.Rect().Right() }

func (a *Actor) Visible() bool {
	return a != nil && a.visible
}

// Show and Hide only affect drawing; hidden actors still simulate.
func (a *Actor) Show() {
	if a != nil {
		a.visible = true
	}
}

func (a *Actor) Hide() {
	if a != nil {
		a.visible = false
	}
}

func (a *Actor) DrawOptions() DrawOptions {
	if a == nil {
		return DrawOptions{}
	}
	return a.draw
}

func (a *Actor) Border() float64 {
	if a == nil {
		return 0
	}
	return a.border
}

func (a *Actor) Color() color.Color {
	if a == nil {
		return nil
	}
	return a.fill
}

// Grounding describes what the actor is resting on.
func (a *Actor) Grounding() physics.Grounding {
	if !a.alive() {
		return physics.Grounding{}
	}
	return a.s.world.Grounding(a.body)
}

func (a *Actor) SetColor(c color.Color) {
	if a != nil {
		a.fill = c
	}
}

func (a *Actor) SetBorderColor(c color.Color) {
	if a != nil {
		a.borderColor = c
	}
}

// SetBorder sets the outline width in pixels. Zero draws no outline.
func (a *Actor) SetBorder(w float64) {
	if a != nil {
		a.border = math.Max(w, 0)
	}
}

func (a *Actor) SetDrawOptions(o DrawOptions) {
	if a != nil {
		a.draw = o
	}
}

// AddCostume loads every path as frames of one costume. Animated GIFs
// contribute one frame per GIF frame.
func (a *Actor) AddCostume(name string, paths []string, opts costume.Options) error {
	if !a.alive() {
		return ErrUnknownActor
	}
	c, err := costume.Load(a.s.assets, name, paths, opts)
	if err != nil {
		return fmt.Errorf("gamejr: add costume %s: %w", name, err)
	}
	a.costumes.Add(c)
	return nil
}

// AddCostumeFrames adds a costume built from in-memory frames.
func (a *Actor) AddCostumeFrames(name string, frames []image.Image, opts costume.Options) error {
	if a == nil {
		return ErrUnknownActor
	}
	c, err := costume.New(name, frames, opts)
	if err != nil {
		return fmt.Errorf("gamejr: add costume %s: %w", name, err)
	}
	a.costumes.Add(c)
	return nil
}

// SetCostume selects a costume by name; "" shows none.
func (a *Actor) SetCostume(name string) error {
	if a == nil {
		return ErrUnknownActor
	}
	if err := a.costumes.Select(name); err != nil {
		return fmt.Errorf("gamejr: set costume: %w", err)
	}
	return nil
}

func (a *Actor) RemoveCostume(name string) error {
	if a == nil {
		return ErrUnknownActor
	}
	if err := a.costumes.Remove(name); err != nil {
		return fmt.Errorf("gamejr: remove costume: %w", err)
	}
	return nil
}

// Costume returns the active costume or nil.
func (a *Actor) Costume() *costume.Costume {
	if a == nil {
		return nil
	}
	return a.costumes.Active()
}

// Costumes exposes the actor's costume set.
func (a *Actor) Costumes() *costume.Set {
	if a == nil {
		return nil
	}
	return &a.costumes
}

// StartAnimation starts the active costume's animation on the game clock.
func (a *Actor) StartAnimation(loop bool, from int, frameTime time.Duration) {
	c := a.Costume()
	if c == nil {
		return
	}
	c.Start(a.s.clock, loop, from, frameTime)
}

func (a *Actor) StopAnimation() {
	if c := a.Costume(); c != nil {
		c.Stop()
	}
}

// AddText attaches a label. An empty name uses the text as its name, and an
// existing name is replaced.
func (a *Actor) AddText(info TextInfo, name string) {
	if a == nil {
		return
	}
	if name == "" {
		name = info.Text
	}
	if a.texts == nil {
		a.texts = make(map[string]TextInfo)
	}
	if _, ok := a.texts[name]; !ok {
		a.textOrder = append(a.textOrder, name)
	}
	a.texts[name] = info
}

func (a *Actor) RemoveText(name string) error {
	if a == nil {
		return ErrUnknownActor
	}
	if _, ok := a.texts[name]; !ok {
		return fmt.Errorf("gamejr: remove text %q: %w", name, ErrUnknownText)
	}
	delete(a.texts, name)
	for i, n := range a.textOrder {
		if n == name {
			a.textOrder = append(a.textOrder[:i], a.textOrder[i+1:]...)
			break
		}
	}
	return nil
}

// Texts returns the labels in insertion order.
func (a *Actor) Texts() []TextInfo {
	if a == nil {
		return nil
	}
	out := make([]TextInfo, 0, len(a.textOrder))
	for _, n := range a.textOrder {
		out = append(out, a.texts[n])
	}
	return out
}

// FitImage scales the active costume to the shape's bounding box at zero
// rotation.
func (a *Actor) FitImage() {
	c := a.Costume()
	if c == nil || !a.alive() {
		return
	}
	w, h := localSize(a.Geometry())
	c.FitTo(w, h)
}

// FitToImage rebuilds the collision shape around the active costume's
// natural size. Circles take radius max(w, h)/2; polygons and segments
// become a w×h box. The body origin does not move.
func (a *Actor) FitToImage() error {
	c := a.Costume()
	if c == nil || !a.alive() {
		return nil
	}
	c.SetScale(1)
	w, h := c.NaturalSize()
	var g physics.Geometry
	switch cur := a.Geometry().(type) {
	case physics.Circle:
		g = physics.Circle{Radius: math.Max(float64(w), float64(h)) / 2, Offset: cur.Offset}
	case physics.Polygon:
		box := physics.Box(float64(w), float64(h))
		box.Radius = cur.Radius
		g = box
	case physics.Segment:
		g = physics.Box(float64(w), float64(h))
	default:
		panic(fmt.Sprintf("gamejr: unknown geometry %T", cur))
	}
	shape, err := a.s.world.ReplaceGeometry(a.body, g)
	if err != nil {
		return fmt.Errorf("gamejr: fit to image: %w", err)
	}
	a.shape = shape
	return nil
}

// localSize is the unrotated width and height of g.
func localSize(g physics.Geometry) (float64, float64) {
	if g == nil {
		return 0, 0
	}
	d := g.Describe()
	r := common.BoundingRect(d.Points)
	switch d.Kind {
	case physics.KindCircle:
		return r.W, r.H
	case physics.KindPolygon, physics.KindSegment:
		return r.W + 2*d.Radius, r.H + 2*d.Radius
	default:
		panic(fmt.Sprintf("gamejr: unknown shape kind %v", d.Kind))
	}
}
