package gamejr

import (
	"errors"
	"fmt"
	"image/color"

	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/costume"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

// ErrPlacement is returned when an actor is given both a centre and a
// bottom-left position.
var ErrPlacement = errors.New("center and bottom-left are mutually exclusive")

// Default colours for new actors.
var (
	DefaultColor       = common.MustColor("white")
	DefaultBorderColor = common.MustColor("black")
)

// ActorOptions configures a new actor. Zero values pick sensible defaults;
// pointer fields distinguish "unset" from zero.
type ActorOptions struct {
	// Center places the body origin. BottomLeft places the lower-left
	// corner of the unrotated bounding box. Neither means the screen
	// centre, or the shape's own position for CreatePolygonAny and
	// CreateLine.
	Center     *cp.Vector
	BottomLeft *cp.Vector
	// Angle in degrees.
	Angle float64

	Kind physics.BodyKind
	// Mass, Moment and Density follow physics.BodyDef. A dynamic actor
	// with none of them uses the configured density.
	Mass       float64
	Moment     float64
	Density    float64
	Elasticity *float64
	Friction   *float64

	Velocity        cp.Vector
	AngularVelocity float64
	FixedRotation   bool
	Sensor          bool
	Filter          physics.Filter

	// Color and BorderColor are names or hex strings.
	Color       string
	BorderColor string
	Border      float64
	Draw        DrawOptions
	Hidden      bool

	// Paths become the "default" costume, selected on creation.
	Paths   []string
	Costume costume.Options
}

// Ptr returns a pointer to v, for optional fields.
func Ptr[T any](v T) *T {
	return &v
}

// At is shorthand for a placement pointer.
func At(x, y float64) *cp.Vector {
	return &cp.Vector{X: x, Y: y}
}

// CreateCircle adds a circle of the given radius.
func (s *Session) CreateCircle(radius float64, opts ActorOptions) (*Actor, error) {
	return s.create(physics.Circle{Radius: radius}, nil, opts)
}

// CreateRect adds a w×h box centred on its origin.
func (s *Session) CreateRect(w, h float64, opts ActorOptions) (*Actor, error) {
	return s.create(physics.Box(w, h), nil, opts)
}

// CreatePolygon adds a regular polygon with the given number of sides and
// circumradius.
func (s *Session) CreatePolygon(sides int, radius float64, opts ActorOptions) (*Actor, error) {
	pts := common.PolygonPoints(sides, radius)
	if pts == nil {
		return nil, fmt.Errorf("gamejr: create polygon: %d sides radius %v: %w", sides, radius, physics.ErrInvalidGeometry)
	}
	return s.create(physics.Polygon{Vertices: pts}, nil, opts)
}

// CreatePolygonAny adds a convex polygon from world points. The body origin
// sits on their centroid; without a placement the shape stays where the
// points are.
func (s *Session) CreatePolygonAny(points []cp.Vector, opts ActorOptions) (*Actor, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("gamejr: create polygon: %d points: %w", len(points), physics.ErrInvalidGeometry)
	}
	c := common.Centroid(points)
	local := common.Translate(points, c.Neg())
	return s.create(physics.Polygon{Vertices: local}, &c, opts)
}

// CreateLine adds a segment from a to b with the given thickness. The body
// origin is the midpoint.
func (s *Session) CreateLine(a, b cp.Vector, thickness float64, opts ActorOptions) (*Actor, error) {
	mid := a.Lerp(b, 0.5)
	g := physics.Segment{A: a.Sub(mid), B: b.Sub(mid), Radius: thickness / 2}
	return s.create(g, &mid, opts)
}

// CreateImage adds a box sized to the first frame of opts.Paths, wearing
// those frames as its costume.
func (s *Session) CreateImage(opts ActorOptions) (*Actor, error) {
	if len(opts.Paths) == 0 {
		return nil, fmt.Errorf("gamejr: create image: no paths: %w", costume.ErrNoFrames)
	}
	img, err := s.assets.Load(opts.Paths[0])
	if err != nil {
		return nil, fmt.Errorf("gamejr: create image: %w", err)
	}
	b := img.Bounds()
	scale := opts.Costume.Scale
	if scale <= 0 {
		scale = 1
	}
	return s.create(physics.Box(float64(b.Dx())*scale, float64(b.Dy())*scale), nil, opts)
}

// WallOptions selects the screen edges that get a static wall.
type WallOptions struct {
	Left, Right, Top, Bottom bool
	// Offset moves walls inward; negative moves them off screen.
	Offset     float64
	Thickness  float64
	Elasticity *float64
	Friction   *float64
	Color      string
	Hidden     bool
}

// AllWalls encloses the whole screen.
func AllWalls() WallOptions {
	return WallOptions{Left: true, Right: true, Top: true, Bottom: true}
}

// CreateScreenWalls adds one static segment per selected edge, in left,
// right, top, bottom order.
func (s *Session) CreateScreenWalls(opts WallOptions) ([]*Actor, error) {
	segs := physics.WallSegments(float64(s.cfg.Width), float64(s.cfg.Height), physics.WallSides{
		Left: opts.Left, Right: opts.Right, Top: opts.Top, Bottom: opts.Bottom,
		Offset:    opts.Offset,
		Thickness: opts.Thickness,
	})
	clr := opts.Color
	if clr == "" {
		clr = "gray"
	}
	walls := make([]*Actor, 0, len(segs))
	for _, seg := range segs {
		a, err := s.CreateLine(seg.A, seg.B, 2*seg.Radius, ActorOptions{
			Kind:       physics.Static,
			Elasticity: opts.Elasticity,
			Friction:   opts.Friction,
			Color:      clr,
			Hidden:     opts.Hidden,
		})
		if err != nil {
			for _, w := range walls {
				s.Remove(w)
			}
			return nil, fmt.Errorf("gamejr: create walls: %w", err)
		}
		walls = append(walls, a)
	}
	return walls, nil
}

// create builds the body, registers the actor and dresses it. natural is
// the origin used when opts has no placement.
func (s *Session) create(g physics.Geometry, natural *cp.Vector, opts ActorOptions) (*Actor, error) {
	kind := g.Describe().Kind
	if s.state == Ended {
		return nil, ErrEnded
	}
	if opts.Center != nil && opts.BottomLeft != nil {
		return nil, fmt.Errorf("gamejr: create %v: %w", kind, ErrPlacement)
	}
	fill, err := colorOr(opts.Color, DefaultColor)
	if err != nil {
		return nil, fmt.Errorf("gamejr: create %v: color: %w", kind, err)
	}
	border, err := colorOr(opts.BorderColor, DefaultBorderColor)
	if err != nil {
		return nil, fmt.Errorf("gamejr: create %v: border color: %w", kind, err)
	}

	pos := cp.Vector{X: float64(s.cfg.Width) / 2, Y: float64(s.cfg.Height) / 2}
	switch {
	case opts.Center != nil:
		pos = *opts.Center
	case opts.BottomLeft != nil:
		pos = opts.BottomLeft.Sub(localBottomLeft(g))
	case natural != nil:
		pos = *natural
	}

	def := physics.BodyDef{
		Geometry:      g,
		Kind:          opts.Kind,
		Position:      pos,
		Angle:         common.Deg2Rad(opts.Angle),
		Mass:          opts.Mass,
		Moment:        opts.Moment,
		Density:       opts.Density,
		Elasticity:    s.cfg.Physics.Elasticity,
		Friction:      s.cfg.Physics.Friction,
		Sensor:        opts.Sensor,
		Filter:        opts.Filter,
		FixedRotation: opts.FixedRotation,
	}
	if opts.Elasticity != nil {
		def.Elasticity = *opts.Elasticity
	}
	if opts.Friction != nil {
		def.Friction = *opts.Friction
	}
	if def.Kind == physics.Dynamic && def.Mass <= 0 && def.Density <= 0 {
		def.Density = s.cfg.Physics.Density
	}

	e := s.store.Create()
	def.Entity = e
	body, shape, err := s.world.AddBody(def)
	if err != nil {
		s.store.Destroy(e)
		return nil, fmt.Errorf("gamejr: create %v: %w", kind, err)
	}
	if def.Kind != physics.Static {
		body.SetVelocityVector(opts.Velocity)
		if !opts.FixedRotation {
			body.SetAngularVelocity(common.Deg2Rad(opts.AngularVelocity))
		}
	}

	a := &Actor{
		s:           s,
		id:          e,
		body:        body,
		shape:       shape,
		kind:        def.Kind,
		visible:     !opts.Hidden,
		border:      opts.Border,
		fill:        fill,
		borderColor: border,
		draw:        opts.Draw,
	}
	s.register(a)

	if len(opts.Paths) > 0 {
		if err := a.AddCostume("default", opts.Paths, opts.Costume); err != nil {
			s.Remove(a)
			return nil, err
		}
		if err := a.SetCostume("default"); err != nil {
			s.Remove(a)
			return nil, err
		}
	}
	s.logger.Debug("actor created", "actor", e, "shape", kind, "kind", def.Kind, "pos", pos)
	return a, nil
}

// localBottomLeft is the lower-left corner of g's unrotated bounds,
// relative to the body origin.
func localBottomLeft(g physics.Geometry) cp.Vector {
	d := g.Describe()
	r := common.BoundingRect(d.Points)
	switch d.Kind {
	case physics.KindCircle:
		return cp.Vector{X: r.X, Y: r.Y}
	case physics.KindPolygon, physics.KindSegment:
		return cp.Vector{X: r.X - d.Radius, Y: r.Y - d.Radius}
	default:
		panic(fmt.Sprintf("gamejr: unknown shape kind %v", d.Kind))
	}
}

func colorOr(name string, fallback color.Color) (color.Color, error) {
	if name == "" {
		return fallback, nil
	}
	c, err := common.ParseColor(name)
	if err != nil {
		return nil, err
	}
	return c, nil
}
