package physics

import "github.com/jakecoffman/cp"

// WallSides selects which screen edges get a wall. Offset moves every wall
// inward from its edge by that many units; a negative Offset moves it
// outward.
type WallSides struct {
	Left, Right, Top, Bottom bool
	Offset                   float64
	// Thickness is the segment radius; zero means 1.
	Thickness float64
}

// WallSegments returns static segments along the edges of a width×height
// area anchored at the origin, in left, right, top, bottom order.
func WallSegments(width, height float64, sides WallSides) []Segment {
	r := sides.Thickness
	if r <= 0 {
		r = 1
	}
	o := sides.Offset
	var out []Segment
	if sides.Left {
		out = append(out, Segment{A: cp.Vector{X: o, Y: 0}, B: cp.Vector{X: o, Y: height}, Radius: r})
	}
	if sides.Right {
		out = append(out, Segment{A: cp.Vector{X: width - o, Y: 0}, B: cp.Vector{X: width - o, Y: height}, Radius: r})
	}
	if sides.Top {
		out = append(out, Segment{A: cp.Vector{X: 0, Y: height - o}, B: cp.Vector{X: width, Y: height - o}, Radius: r})
	}
	if sides.Bottom {
		out = append(out, Segment{A: cp.Vector{X: 0, Y: o}, B: cp.Vector{X: width, Y: o}, Radius: r})
	}
	return out
}
