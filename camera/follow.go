package camera

import (
	"math"

	"github.com/gamejr/gamejr/common"
	"github.com/jakecoffman/cp"
)

// FollowOptions tunes Follow. Distances are view units and angles degrees.
type FollowOptions struct {
	// MinDistance is the margin kept between the target and the viewport
	// edges.
	MinDistance float64
	// Speed caps the offset change per call. Zero means no cap.
	Speed float64
	// MinAngle is the rotation deadband around upright.
	MinAngle float64
	// AngleSpeed caps the rotation per call. Zero disables rotation
	// following.
	AngleSpeed float64
}

func DefaultFollowOptions() FollowOptions {
	return FollowOptions{MinDistance: 100, Speed: 10}
}

// Follow nudges the camera so a target with world bounding points bounds
// stays at least MinDistance inside the viewport. heading is the target's
// world angle in degrees and is only used when AngleSpeed is set.
func (c *Camera) Follow(bounds []cp.Vector, heading float64, opts FollowOptions) {
	if c == nil || len(bounds) == 0 {
		return
	}

	if opts.AngleSpeed > 0 {
		// view heading is world heading plus camera angle; upright is zero.
		diff := common.Rad2Deg(common.NormalizeAngle(-common.Deg2Rad(heading) - c.angle))
		if excess := math.Abs(diff) - opts.MinAngle; excess > 0 {
			step := math.Min(excess, opts.AngleSpeed)
			c.TurnBy(math.Copysign(step, diff))
		}
	}

	box := common.BoundingRect(c.ApplyAll(bounds))
	d := cp.Vector{
		X: edgePush(box.Left(), box.Right(), c.width, opts.MinDistance),
		Y: edgePush(box.Bottom(), box.Top(), c.height, opts.MinDistance),
	}
	if opts.Speed > 0 {
		d.X = common.ClampMagnitude(d.X, opts.Speed)
		d.Y = common.ClampMagnitude(d.Y, opts.Speed)
	}
	if d.X != 0 || d.Y != 0 {
		c.MoveBy(d)
	}
}

// edgePush returns how far the offset must move along one axis so the span
// [lo, hi] sits inside [margin, size-margin]. A span wider than the window
// is centred.
func edgePush(lo, hi, size, margin float64) float64 {
	minEdge, maxEdge := margin, size-margin
	if hi-lo > maxEdge-minEdge {
		return (lo+hi)/2 - size/2
	}
	switch {
	case lo < minEdge:
		return lo - minEdge
	case hi > maxEdge:
		return hi - maxEdge
	default:
		return 0
	}
}
