package render

import (
	"fmt"
	"image"
	"math"

	"github.com/gamejr/gamejr/camera"
	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

// Plan is the screen-space layout of one shape. Local coordinates are
// relative to Box.Min, the top-left corner of the scratch surface.
type Plan struct {
	Kind physics.ShapeKind

	// Points are y-down screen coordinates; Local the same points on the
	// scratch surface.
	Points []cp.Vector
	Local  []cp.Vector
	// Radius is the circle radius or corner rounding, scaled by zoom.
	Radius float64
	Box    image.Rectangle

	// Center is the body origin on the scratch surface and Heading the tip
	// of the heading marker.
	Center  cp.Vector
	Heading cp.Vector

	// Zoom is the camera scale. ImageAngle is the clockwise screen rotation
	// for costume images, in radians.
	Zoom       float64
	ImageAngle float64
}

// Empty reports whether the plan has nothing to draw.
func (p Plan) Empty() bool {
	return p.Box.Empty()
}

// PlanShape projects a shape description at pos and angle (radians)
// through cam onto a screen of height screenH. border pads the box so
// strokes are not clipped.
func PlanShape(desc physics.Description, pos cp.Vector, angle float64, cam *camera.Camera, screenH, border float64) Plan {
	zoom := 1.0
	camAngle := 0.0
	if cam != nil {
		zoom = cam.Scale()
		camAngle = cam.Radians()
	}

	rot := cp.ForAngle(angle)
	toScreen := func(local cp.Vector) cp.Vector {
		world := pos.Add(local.Rotate(rot))
		v := cam.Point(world)
		return cp.Vector{X: v.X, Y: screenH - v.Y}
	}

	plan := Plan{
		Kind:       desc.Kind,
		Radius:     desc.Radius * zoom,
		Zoom:       zoom,
		ImageAngle: -(angle + camAngle),
	}

	var lo, hi cp.Vector
	switch desc.Kind {
	case physics.KindCircle:
		mid := common.Centroid(desc.Points)
		c := toScreen(mid)
		plan.Points = []cp.Vector{c}
		r := plan.Radius
		lo = cp.Vector{X: c.X - r, Y: c.Y - r}
		hi = cp.Vector{X: c.X + r, Y: c.Y + r}
	case physics.KindPolygon, physics.KindSegment:
		plan.Points = make([]cp.Vector, len(desc.Points))
		for i, p := range desc.Points {
			plan.Points[i] = toScreen(p)
		}
		r := common.BoundingRect(plan.Points)
		lo = cp.Vector{X: r.Left() - plan.Radius, Y: r.Bottom() - plan.Radius}
		hi = cp.Vector{X: r.Right() + plan.Radius, Y: r.Top() + plan.Radius}
	default:
		panic(fmt.Sprintf("render: unknown shape kind %v", desc.Kind))
	}

	pad := math.Max(border, 0)/2 + 1
	plan.Box = image.Rect(
		int(math.Floor(lo.X-pad)), int(math.Floor(lo.Y-pad)),
		int(math.Ceil(hi.X+pad)), int(math.Ceil(hi.Y+pad)),
	)
	origin := cp.Vector{X: float64(plan.Box.Min.X), Y: float64(plan.Box.Min.Y)}

	plan.Local = make([]cp.Vector, len(plan.Points))
	for i, p := range plan.Points {
		plan.Local[i] = p.Sub(origin)
	}
	plan.Center = toScreen(cp.Vector{}).Sub(origin)
	plan.Heading = toScreen(cp.Vector{X: headingLength(desc), Y: 0}).Sub(origin)
	return plan
}

// headingLength is the distance from the body origin to the farthest
// outline point, so the marker reaches the edge.
func headingLength(desc physics.Description) float64 {
	if desc.Kind == physics.KindCircle {
		return common.Centroid(desc.Points).Length() + desc.Radius
	}
	var best float64
	for _, p := range desc.Points {
		best = math.Max(best, p.Length())
	}
	return best + desc.Radius
}
