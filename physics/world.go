package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr/ecs"
	"github.com/jakecoffman/cp"
)

var (
	ErrNoMass      = errors.New("dynamic body has no mass source")
	ErrUnknownBody = errors.New("body not in world")
)

// BodyKind selects how the engine treats a body.
type BodyKind int

const (
	// Dynamic bodies integrate gravity and forces.
	Dynamic BodyKind = iota
	// Kinematic bodies move only by their velocity and are never pushed.
	Kinematic
	// Static bodies never move on their own.
	Static
)

func (k BodyKind) String() string {
	switch k {
	case Dynamic:
		return "dynamic"
	case Kinematic:
		return "kinematic"
	case Static:
		return "static"
	default:
		return fmt.Sprintf("BodyKind(%d)", int(k))
	}
}

// Config tunes the simulation.
type Config struct {
	Iterations int
	// Damping is the fraction of velocity kept per second; 1 disables it.
	Damping float64
	Spring  SpringHeuristic
}

func DefaultConfig() Config {
	return Config{Iterations: 20, Damping: 1, Spring: DefaultSpringHeuristic()}
}

// BodyDef describes one body with its single shape.
type BodyDef struct {
	Geometry Geometry
	Kind     BodyKind
	Position cp.Vector
	// Angle in radians.
	Angle float64

	// Dynamic bodies take Mass and Moment together, Mass alone (moment from
	// geometry), or Density (both from geometry).
	Mass    float64
	Moment  float64
	Density float64

	Elasticity    float64
	Friction      float64
	Sensor        bool
	Filter        Filter
	FixedRotation bool

	// Entity is recorded against the shape for reverse lookups.
	Entity ecs.Entity
}

type bodyInfo struct {
	shape         *cp.Shape
	geometry      Geometry
	kind          BodyKind
	fixedRotation bool
	entity        ecs.Entity
}

// World owns the Chipmunk space and every body created through it.
type World struct {
	space  *cp.Space
	cfg    Config
	logger *log.Logger

	bodies        map[*cp.Body]*bodyInfo
	shapeToEntity map[*cp.Shape]ecs.Entity
	joints        []*Joint

	steps   uint64
	elapsed float64
}

// NewWorld creates an empty world with zero gravity. A nil logger disables
// debug output.
func NewWorld(cfg Config, logger *log.Logger) *World {
	if cfg.Iterations <= 0 {
		cfg.Iterations = DefaultConfig().Iterations
	}
	if cfg.Damping <= 0 {
		cfg.Damping = 1
	}
	space := cp.NewSpace()
	space.Iterations = uint(cfg.Iterations)
	space.SetDamping(cfg.Damping)

	return &World{
		space:         space,
		cfg:           cfg,
		logger:        logger,
		bodies:        make(map[*cp.Body]*bodyInfo),
		shapeToEntity: make(map[*cp.Shape]ecs.Entity),
	}
}

// Space returns the underlying Chipmunk space.
func (w *World) Space() *cp.Space {
	if w == nil {
		return nil
	}
	return w.space
}

func (w *World) Config() Config {
	if w == nil {
		return DefaultConfig()
	}
	return w.cfg
}

// SetSpring replaces the spring heuristic used by MaxSpring helpers.
func (w *World) SetSpring(h SpringHeuristic) {
	if w == nil {
		return
	}
	w.cfg.Spring = h
}

// SetGravity sets the acceleration applied to every dynamic body.
func (w *World) SetGravity(g cp.Vector) {
	if w == nil {
		return
	}
	w.space.SetGravity(g)
}

func (w *World) Gravity() cp.Vector {
	if w == nil {
		return cp.Vector{}
	}
	return w.space.Gravity()
}

// Steps returns how many times Step has run.
func (w *World) Steps() uint64 {
	if w == nil {
		return 0
	}
	return w.steps
}

// Elapsed returns the simulated time in seconds.
func (w *World) Elapsed() float64 {
	if w == nil {
		return 0
	}
	return w.elapsed
}

// Step advances the simulation by exactly dt seconds. Callers pass a fixed
// dt; the world never consults the wall clock.
func (w *World) Step(dt float64) {
	if w == nil || dt <= 0 {
		return
	}
	w.space.Step(dt)
	w.steps++
	w.elapsed += dt
}

// AddBody creates a body and its shape and inserts both into the space.
func (w *World) AddBody(def BodyDef) (*cp.Body, *cp.Shape, error) {
	if w == nil {
		return nil, nil, errors.New("physics: nil world")
	}
	if def.Geometry == nil {
		return nil, nil, fmt.Errorf("physics: add body: nil geometry: %w", ErrInvalidGeometry)
	}
	if err := def.Geometry.Validate(); err != nil {
		return nil, nil, fmt.Errorf("physics: add body: %w", err)
	}

	var body *cp.Body
	useDensity := false
	switch def.Kind {
	case Static:
		body = cp.NewStaticBody()
	case Kinematic:
		body = cp.NewKinematicBody()
	case Dynamic:
		switch {
		case def.Mass > 0 && def.Moment > 0:
			body = cp.NewBody(def.Mass, def.Moment)
		case def.Mass > 0:
			body = cp.NewBody(def.Mass, MomentFor(def.Geometry, def.Mass))
		case def.Density > 0:
			body = cp.NewBody(0, 0)
			useDensity = true
		default:
			return nil, nil, fmt.Errorf("physics: add body: %w", ErrNoMass)
		}
	default:
		return nil, nil, fmt.Errorf("physics: add body: unknown kind %v", def.Kind)
	}
	body.SetPosition(def.Position)
	body.SetAngle(def.Angle)

	shape := newShape(body, def.Geometry)
	applyMaterial(shape, def)
	if useDensity {
		shape.SetDensity(def.Density)
	}

	w.space.AddBody(body)
	w.space.AddShape(shape)
	if def.Kind == Dynamic && def.FixedRotation {
		body.SetMoment(math.Inf(1))
	}

	info := &bodyInfo{
		shape:         shape,
		geometry:      def.Geometry,
		kind:          def.Kind,
		fixedRotation: def.FixedRotation,
		entity:        def.Entity,
	}
	w.bodies[body] = info
	if def.Entity.Valid() {
		w.shapeToEntity[shape] = def.Entity
	}

	if w.logger != nil {
		w.logger.Debug("physics: add body", "entity", def.Entity, "kind", def.Kind,
			"shape", def.Geometry.Describe().Kind, "mass", body.Mass())
	}
	return body, shape, nil
}

func applyMaterial(shape *cp.Shape, def BodyDef) {
	shape.SetElasticity(def.Elasticity)
	shape.SetFriction(def.Friction)
	shape.SetSensor(def.Sensor)
	shape.SetFilter(def.Filter.ShapeFilter())
}

// RemoveBody removes the body, its shape and every joint attached to it.
// Unknown bodies are ignored.
func (w *World) RemoveBody(body *cp.Body) {
	if w == nil || body == nil {
		return
	}
	info, ok := w.bodies[body]
	if !ok {
		return
	}
	w.removeJointsFor(body)
	if info.shape != nil && w.space.ContainsShape(info.shape) {
		w.space.RemoveShape(info.shape)
	}
	if w.space.ContainsBody(body) {
		w.space.RemoveBody(body)
	}
	delete(w.shapeToEntity, info.shape)
	delete(w.bodies, body)
}

// Contains reports whether body was created by this world and not removed.
func (w *World) Contains(body *cp.Body) bool {
	if w == nil || body == nil {
		return false
	}
	_, ok := w.bodies[body]
	return ok
}

// BodyCount returns the number of bodies created through AddBody.
func (w *World) BodyCount() int {
	if w == nil {
		return 0
	}
	return len(w.bodies)
}

// EntityFor maps a shape back to the entity recorded at creation.
func (w *World) EntityFor(shape *cp.Shape) (ecs.Entity, bool) {
	if w == nil || shape == nil {
		return 0, false
	}
	e, ok := w.shapeToEntity[shape]
	return e, ok
}

// GeometryOf returns the geometry the body was built with.
func (w *World) GeometryOf(body *cp.Body) (Geometry, bool) {
	if w == nil {
		return nil, false
	}
	info, ok := w.bodies[body]
	if !ok {
		return nil, false
	}
	return info.geometry, true
}

// MoveBody places body at pos with the given angle and refreshes the
// spatial index so queries see the new placement before the next step.
// Velocity is left untouched.
func (w *World) MoveBody(body *cp.Body, pos cp.Vector, angle float64) error {
	if w == nil || body == nil {
		return ErrUnknownBody
	}
	info, ok := w.bodies[body]
	if !ok {
		return ErrUnknownBody
	}
	body.SetAngle(angle)
	body.SetPosition(pos)
	w.reinsert(body, info)
	return nil
}

func (w *World) reinsert(body *cp.Body, info *bodyInfo) {
	if info.shape == nil || !w.space.ContainsShape(info.shape) {
		return
	}
	w.space.RemoveShape(info.shape)
	w.space.AddShape(info.shape)
	if info.kind == Dynamic && info.fixedRotation {
		body.SetMoment(math.Inf(1))
	}
}

// ReplaceGeometry swaps the body's shape for one built from g, keeping
// material, filter and entity mapping. Density-derived mass is recomputed
// from the new geometry.
func (w *World) ReplaceGeometry(body *cp.Body, g Geometry) (*cp.Shape, error) {
	if w == nil || body == nil {
		return nil, ErrUnknownBody
	}
	info, ok := w.bodies[body]
	if !ok {
		return nil, ErrUnknownBody
	}
	if g == nil {
		return nil, fmt.Errorf("physics: replace geometry: nil geometry: %w", ErrInvalidGeometry)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("physics: replace geometry: %w", err)
	}

	old := info.shape
	next := newShape(body, g)
	next.SetElasticity(old.Elasticity())
	next.SetFriction(old.Friction())
	next.SetSensor(old.Sensor())
	next.SetFilter(old.Filter)

	density := 0.0
	if old.Mass() > 0 && old.Area() > 0 {
		density = old.Mass() / old.Area()
	}
	if w.space.ContainsShape(old) {
		w.space.RemoveShape(old)
	}
	if density > 0 {
		next.SetDensity(density)
	}
	w.space.AddShape(next)
	if info.kind == Dynamic && density == 0 && body.Mass() > 0 && !info.fixedRotation {
		body.SetMoment(MomentFor(g, body.Mass()))
	}
	if info.kind == Dynamic && info.fixedRotation {
		body.SetMoment(math.Inf(1))
	}

	if e, ok := w.shapeToEntity[old]; ok {
		delete(w.shapeToEntity, old)
		w.shapeToEntity[next] = e
	}
	info.shape = next
	info.geometry = g
	return next, nil
}

// Clear removes every body and joint.
func (w *World) Clear() {
	if w == nil {
		return
	}
	for body := range w.bodies {
		w.RemoveBody(body)
	}
	for _, j := range append([]*Joint(nil), w.joints...) {
		w.RemoveJoint(j)
	}
}
