package physics

import (
	"errors"
	"fmt"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrInvalidGeometry = errors.New("invalid geometry")

// ShapeKind tags the Geometry variant.
type ShapeKind int

const (
	KindCircle ShapeKind = iota + 1
	KindPolygon
	KindSegment
)

func (k ShapeKind) String() string {
	switch k {
	case KindCircle:
		return "circle"
	case KindPolygon:
		return "polygon"
	case KindSegment:
		return "segment"
	default:
		return fmt.Sprintf("ShapeKind(%d)", int(k))
	}
}

// Description is the renderer-facing view of a shape in body-local
// coordinates. Circles report the corners of their bounding square and carry
// the radius separately. Segments report their two endpoints.
type Description struct {
	Kind   ShapeKind
	Points []cp.Vector
	Radius float64
}

// Geometry is the closed set of collision shapes: Circle, Polygon and
// Segment. Code that branches on the variant must handle all three and panic
// on anything else.
type Geometry interface {
	Describe() Description
	Validate() error
	isGeometry()
}

type Circle struct {
	Radius float64
	Offset cp.Vector
}

type Polygon struct {
	// Vertices are body-local and must describe a simple convex outline in
	// either winding.
	Vertices []cp.Vector
	// Radius rounds the corners.
	Radius float64
}

type Segment struct {
	A, B   cp.Vector
	Radius float64
}

// Box returns a w×h rectangle centred on the body origin.
func Box(w, h float64) Polygon {
	hw, hh := w/2, h/2
	return Polygon{Vertices: []cp.Vector{{X: -hw, Y: -hh}, {X: hw, Y: -hh}, {X: hw, Y: hh}, {X: -hw, Y: hh}}}
}

func (Circle) isGeometry()  {}
func (Polygon) isGeometry() {}
func (Segment) isGeometry() {}

func (c Circle) Describe() Description {
	r, o := c.Radius, c.Offset
	return Description{
		Kind: KindCircle,
		Points: []cp.Vector{
			{X: o.X - r, Y: o.Y - r},
			{X: o.X + r, Y: o.Y - r},
			{X: o.X + r, Y: o.Y + r},
			{X: o.X - r, Y: o.Y + r},
		},
		Radius: r,
	}
}

func (p Polygon) Describe() Description {
	return Description{Kind: KindPolygon, Points: append([]cp.Vector(nil), p.Vertices...), Radius: p.Radius}
}

func (s Segment) Describe() Description {
	return Description{Kind: KindSegment, Points: []cp.Vector{s.A, s.B}, Radius: s.Radius}
}

func (c Circle) Validate() error {
	if !(c.Radius > 0) || math.IsInf(c.Radius, 0) || !finite(c.Offset) {
		return fmt.Errorf("circle radius %v: %w", c.Radius, ErrInvalidGeometry)
	}
	return nil
}

func (p Polygon) Validate() error {
	if len(p.Vertices) < 3 {
		return fmt.Errorf("polygon with %d vertices: %w", len(p.Vertices), ErrInvalidGeometry)
	}
	for _, v := range p.Vertices {
		if !finite(v) {
			return fmt.Errorf("polygon vertex %v: %w", v, ErrInvalidGeometry)
		}
	}
	if p.Radius < 0 {
		return fmt.Errorf("polygon radius %v: %w", p.Radius, ErrInvalidGeometry)
	}
	if math.Abs(cp.AreaForPoly(len(p.Vertices), p.Vertices, 0)) < 1e-9 {
		return fmt.Errorf("polygon has zero area: %w", ErrInvalidGeometry)
	}
	if !convex(p.Vertices) {
		return fmt.Errorf("polygon is not convex: %w", ErrInvalidGeometry)
	}
	return nil
}

// convex reports whether pts turn the same way at every corner and wind
// around exactly once. Collinear corners are allowed.
func convex(pts []cp.Vector) bool {
	n := len(pts)
	sign, turn := 0.0, 0.0
	for i := range n {
		a, b, c := pts[i], pts[(i+1)%n], pts[(i+2)%n]
		e1, e2 := b.Sub(a), c.Sub(b)
		cross := e1.Cross(e2)
		if math.Abs(cross) > 1e-9 {
			if sign == 0 {
				sign = math.Copysign(1, cross)
			} else if sign*cross < 0 {
				return false
			}
		}
		turn += math.Atan2(cross, e1.Dot(e2))
	}
	return math.Abs(math.Abs(turn)-2*math.Pi) < 1e-6
}

func (s Segment) Validate() error {
	if !finite(s.A) || !finite(s.B) || s.A.DistanceSq(s.B) == 0 {
		return fmt.Errorf("segment %v-%v: %w", s.A, s.B, ErrInvalidGeometry)
	}
	if s.Radius < 0 {
		return fmt.Errorf("segment radius %v: %w", s.Radius, ErrInvalidGeometry)
	}
	return nil
}

func finite(v cp.Vector) bool {
	return !math.IsNaN(v.X) && !math.IsNaN(v.Y) && !math.IsInf(v.X, 0) && !math.IsInf(v.Y, 0)
}

func newShape(body *cp.Body, g Geometry) *cp.Shape {
	switch g := g.(type) {
	case Circle:
		return cp.NewCircle(body, g.Radius, g.Offset)
	case Polygon:
		return cp.NewPolyShape(body, len(g.Vertices), g.Vertices, cp.NewTransformIdentity(), g.Radius)
	case Segment:
		return cp.NewSegment(body, g.A, g.B, g.Radius)
	default:
		panic(fmt.Sprintf("physics: unknown geometry %T", g))
	}
}

// MomentFor returns the moment of inertia of g carrying mass m.
func MomentFor(g Geometry, m float64) float64 {
	switch g := g.(type) {
	case Circle:
		return cp.MomentForCircle(m, 0, g.Radius, g.Offset)
	case Polygon:
		return cp.MomentForPoly(m, len(g.Vertices), g.Vertices, cp.Vector{}, g.Radius)
	case Segment:
		return cp.MomentForSegment(m, g.A, g.B, g.Radius)
	default:
		panic(fmt.Sprintf("physics: unknown geometry %T", g))
	}
}
