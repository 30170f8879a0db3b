package physics

import (
	"errors"
	"math"

	"github.com/jakecoffman/cp"
)

var ErrJointBody = errors.New("joint body not in world")

type JointKind int

const (
	PinJoint JointKind = iota + 1
	SpringJoint
	RotarySpringJoint
)

// Joint ties two bodies together. When B is the space's static body the
// joint pins A to the fixed world point AnchorB.
type Joint struct {
	Kind       JointKind
	A, B       *cp.Body
	AnchorA    cp.Vector
	AnchorB    cp.Vector
	RestLength float64
	RestAngle  float64
	Stiffness  float64
	Damping    float64

	constraint *cp.Constraint
}

func (j *Joint) Constraint() *cp.Constraint {
	if j == nil {
		return nil
	}
	return j.constraint
}

// Touches reports whether body is one of the joint's endpoints.
func (j *Joint) Touches(body *cp.Body) bool {
	return j != nil && body != nil && (j.A == body || j.B == body)
}

// SpringHeuristic estimates the strongest spring the fixed step can carry
// without blowing up. The fractions scale the theoretical limits and are
// tunable rather than physical constants.
type SpringHeuristic struct {
	StiffnessFraction float64 `yaml:"stiffness_fraction"`
	DampingFraction   float64 `yaml:"damping_fraction"`
}

func DefaultSpringHeuristic() SpringHeuristic {
	return SpringHeuristic{StiffnessFraction: 0.75, DampingFraction: 0.25}
}

// MaxSpring returns stiffness and damping limits for a linear spring
// between a and b stepped at dt.
func (h SpringHeuristic) MaxSpring(a, b *cp.Body, dt float64) (stiffness, damping float64) {
	return h.limits(reduced(inertia(a, true), inertia(b, true)), dt)
}

// MaxRotarySpring returns stiffness and damping limits for a rotary spring
// between a and b stepped at dt.
func (h SpringHeuristic) MaxRotarySpring(a, b *cp.Body, dt float64) (stiffness, damping float64) {
	return h.limits(reduced(inertia(a, false), inertia(b, false)), dt)
}

func (h SpringHeuristic) limits(m, dt float64) (float64, float64) {
	if m <= 0 || math.IsInf(m, 0) || dt <= 0 {
		return 0, 0
	}
	return h.StiffnessFraction * m / (dt * dt), h.DampingFraction * m / dt
}

func inertia(b *cp.Body, linear bool) float64 {
	if b == nil || b.GetType() != cp.BODY_DYNAMIC {
		return math.Inf(1)
	}
	if linear {
		return b.Mass()
	}
	return b.Moment()
}

// reduced combines two inertias; an infinite side contributes nothing.
func reduced(x, y float64) float64 {
	switch {
	case math.IsInf(x, 1) && math.IsInf(y, 1):
		return 0
	case math.IsInf(x, 1):
		return y
	case math.IsInf(y, 1):
		return x
	case x+y == 0:
		return 0
	default:
		return x * y / (x + y)
	}
}

func (w *World) endpoint(b *cp.Body) (*cp.Body, error) {
	if b == nil {
		return w.space.StaticBody, nil
	}
	if !w.Contains(b) {
		return nil, ErrJointBody
	}
	return b, nil
}

func (w *World) addJoint(j *Joint) *Joint {
	w.space.AddConstraint(j.constraint)
	w.joints = append(w.joints, j)
	return j
}

// AddPinJoint keeps anchorA on a and anchorB on b at their current
// distance. A nil b pins a to the world point anchorB.
func (w *World) AddPinJoint(a, b *cp.Body, anchorA, anchorB cp.Vector) (*Joint, error) {
	if w == nil || !w.Contains(a) {
		return nil, ErrJointBody
	}
	other, err := w.endpoint(b)
	if err != nil {
		return nil, err
	}
	j := &Joint{Kind: PinJoint, A: a, B: other, AnchorA: anchorA, AnchorB: anchorB}
	j.constraint = cp.NewPinJoint(a, other, anchorA, anchorB)
	return w.addJoint(j), nil
}

// AddSpring connects anchors with a damped spring. A nil b anchors to the
// world point anchorB.
func (w *World) AddSpring(a, b *cp.Body, anchorA, anchorB cp.Vector, restLength, stiffness, damping float64) (*Joint, error) {
	if w == nil || !w.Contains(a) {
		return nil, ErrJointBody
	}
	other, err := w.endpoint(b)
	if err != nil {
		return nil, err
	}
	j := &Joint{Kind: SpringJoint, A: a, B: other, AnchorA: anchorA, AnchorB: anchorB,
		RestLength: restLength, Stiffness: stiffness, Damping: damping}
	j.constraint = cp.NewDampedSpring(a, other, anchorA, anchorB, restLength, stiffness, damping)
	return w.addJoint(j), nil
}

// AddRotarySpring pulls the relative angle of a and b toward restAngle
// (radians). A nil b uses the world as the reference frame.
func (w *World) AddRotarySpring(a, b *cp.Body, restAngle, stiffness, damping float64) (*Joint, error) {
	if w == nil || !w.Contains(a) {
		return nil, ErrJointBody
	}
	other, err := w.endpoint(b)
	if err != nil {
		return nil, err
	}
	j := &Joint{Kind: RotarySpringJoint, A: a, B: other, RestAngle: restAngle, Stiffness: stiffness, Damping: damping}
	j.constraint = cp.NewDampedRotarySpring(a, other, restAngle, stiffness, damping)
	return w.addJoint(j), nil
}

// RemoveJoint detaches j. Unknown joints are ignored.
func (w *World) RemoveJoint(j *Joint) {
	if w == nil || j == nil {
		return
	}
	for i, cur := range w.joints {
		if cur != j {
			continue
		}
		if w.space.ContainsConstraint(j.constraint) {
			w.space.RemoveConstraint(j.constraint)
		}
		w.joints = append(w.joints[:i], w.joints[i+1:]...)
		return
	}
}

// Joints returns a copy of the live joints.
func (w *World) Joints() []*Joint {
	if w == nil {
		return nil
	}
	return append([]*Joint(nil), w.joints...)
}

func (w *World) removeJointsFor(body *cp.Body) {
	for _, j := range w.Joints() {
		if j.Touches(body) {
			w.RemoveJoint(j)
		}
	}
}
