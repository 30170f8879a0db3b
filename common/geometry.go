package common

import (
	"math"

	"github.com/jakecoffman/cp"
)

// Rect is an axis-aligned rectangle in world units with a y-up origin at
// its bottom-left corner.
type Rect struct {
	X, Y, W, H float64
}

func RectFromBB(bb cp.BB) Rect {
	return Rect{X: bb.L, Y: bb.B, W: bb.R - bb.L, H: bb.T - bb.B}
}

func (r Rect) Left() float64   { return r.X }
func (r Rect) Right() float64  { return r.X + r.W }
func (r Rect) Bottom() float64 { return r.Y }
func (r Rect) Top() float64    { return r.Y + r.H }

func (r Rect) Center() cp.Vector {
	return cp.Vector{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Corners returns the four corners counter-clockwise from the bottom-left.
func (r Rect) Corners() []cp.Vector {
	return []cp.Vector{
		{X: r.X, Y: r.Y}, {X: r.X + r.W, Y: r.Y},
		{X: r.X + r.W, Y: r.Y + r.H}, {X: r.X, Y: r.Y + r.H},
	}
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p cp.Vector) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// PolygonPoints returns the vertices of a regular polygon with the given
// number of sides, centred on the origin. The first vertex points straight
// down so that triangles and pentagons sit flat on their base.
func PolygonPoints(sides int, radius float64) []cp.Vector {
	if sides < 3 || radius <= 0 {
		return nil
	}
	pts := make([]cp.Vector, sides)
	start := -math.Pi / 2
	step := 2 * math.Pi / float64(sides)
	for i := range pts {
		a := start + step*float64(i)
		pts[i] = cp.Vector{X: radius * math.Cos(a), Y: radius * math.Sin(a)}
	}
	return pts
}

// BoundingRect returns the smallest Rect containing every point. An empty
// input yields the zero Rect.
func BoundingRect(points []cp.Vector) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, W: maxX - minX, H: maxY - minY}
}

// RectFromLine returns the four corners of a rectangle of the given
// thickness whose centre line runs from a to b, in counter-clockwise order.
func RectFromLine(a, b cp.Vector, thickness float64) []cp.Vector {
	d := b.Sub(a)
	if d.LengthSq() == 0 {
		return nil
	}
	n := d.Normalize().Perp().Mult(thickness / 2)
	return []cp.Vector{a.Sub(n), b.Sub(n), b.Add(n), a.Add(n)}
}

// Centroid returns the area centroid of a simple polygon, falling back to
// the vertex average for degenerate input.
func Centroid(points []cp.Vector) cp.Vector {
	if len(points) == 0 {
		return cp.Vector{}
	}
	if len(points) >= 3 && math.Abs(cp.AreaForPoly(len(points), points, 0)) > 1e-9 {
		return cp.CentroidForPoly(len(points), points)
	}
	var sum cp.Vector
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Mult(1 / float64(len(points)))
}

// Translate returns a copy of points shifted by offset.
func Translate(points []cp.Vector, offset cp.Vector) []cp.Vector {
	out := make([]cp.Vector, len(points))
	for i, p := range points {
		out[i] = p.Add(offset)
	}
	return out
}
