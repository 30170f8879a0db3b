package physics

import (
	"github.com/gamejr/gamejr/ecs"
	"github.com/jakecoffman/cp"
)

// Overlap is one shape touching the queried shape.
type Overlap struct {
	Shape    *cp.Shape
	Entity   ecs.Entity
	Contacts cp.ContactPointSet
}

// QueryOverlaps returns every shape whose geometry intersects shape, using
// exact shape tests rather than bounding boxes. Pairs rejected by their
// filters are skipped.
func (w *World) QueryOverlaps(shape *cp.Shape) []Overlap {
	if w == nil || shape == nil || shape.Body() == nil {
		return nil
	}
	var out []Overlap
	w.space.ShapeQuery(shape, func(other *cp.Shape, points *cp.ContactPointSet) {
		ov := Overlap{Shape: other}
		if points != nil {
			ov.Contacts = *points
		}
		ov.Entity = w.shapeToEntity[other]
		out = append(out, ov)
	})
	return out
}

// QueryPoint reports whether p lies inside or on the boundary of shape.
func (w *World) QueryPoint(shape *cp.Shape, p cp.Vector) bool {
	if shape == nil || shape.Body() == nil {
		return false
	}
	body := shape.Body()
	shape.Update(cp.NewTransformRigid(body.Position(), body.Angle()))
	return shape.PointQuery(p).Distance <= 0
}

// Grounding describes the most upward-facing contact a body rests on.
type Grounding struct {
	// Normal points away from the supporting surface.
	Normal          cp.Vector
	Penetration     float64
	Impulse         cp.Vector
	Position        cp.Vector
	Friction        float64
	SurfaceVelocity cp.Vector
	Body            *cp.Body
	HasContact      bool
}

// OnGround reports a supporting contact steep enough to stand on.
func (g Grounding) OnGround() bool {
	return g.HasContact && g.Normal.Y > 0.5
}

// Grounding scans the body's current contacts and keeps the one whose
// normal points most upward.
func (w *World) Grounding(body *cp.Body) Grounding {
	var g Grounding
	if w == nil || body == nil || !w.Contains(body) {
		return g
	}
	body.EachArbiter(func(arb *cp.Arbiter) {
		set := arb.ContactPointSet()
		if set.Count == 0 {
			return
		}
		n := arb.Normal().Neg()
		if g.HasContact && n.Y <= g.Normal.Y {
			return
		}
		if !g.HasContact && n.Y <= 0 {
			return
		}
		_, other := arb.Bodies()
		sa, sb := arb.Shapes()
		g = Grounding{
			Normal:      n,
			Penetration: -set.Points[0].Distance,
			Impulse:     arb.TotalImpulse(),
			Position:    set.Points[0].PointB,
			Friction:    sa.Friction() * sb.Friction(),
			Body:        other,
			HasContact:  true,
		}
		if other != nil {
			g.SurfaceVelocity = other.VelocityAtWorldPoint(g.Position)
		}
	})
	return g
}
