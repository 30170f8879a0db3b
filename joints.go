package gamejr

import (
	"fmt"

	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
)

// JointTarget is the far end of a joint: another actor, or a fixed world
// point when Actor is nil.
type JointTarget struct {
	Actor *Actor
	// Anchor is body-local on Actor, or a world point without one.
	Anchor cp.Vector
	// From is the anchor on the first actor, body-local.
	From cp.Vector
}

// ToActor targets b at its local anchor.
func ToActor(b *Actor, anchor cp.Vector) JointTarget {
	return JointTarget{Actor: b, Anchor: anchor}
}

// ToPoint targets the fixed world point p.
func ToPoint(p cp.Vector) JointTarget {
	return JointTarget{Anchor: p}
}

// SpringOptions tunes a linear spring. A zero RestLength keeps the current
// anchor distance. With ParamsAsRatio, Stiffness and Damping scale the
// largest values the step can carry; zero values use those limits.
type SpringOptions struct {
	RestLength    float64
	Stiffness     float64
	Damping       float64
	ParamsAsRatio bool
}

// RotarySpringOptions tunes an angular spring. RestAngle is in degrees.
type RotarySpringOptions struct {
	RestAngle     float64
	Stiffness     float64
	Damping       float64
	ParamsAsRatio bool
}

func (s *Session) jointEnds(a *Actor, t JointTarget) (*cp.Body, error) {
	if !s.owns(a) {
		return nil, ErrUnknownActor
	}
	if t.Actor == nil {
		return nil, nil
	}
	if !s.owns(t.Actor) {
		return nil, ErrUnknownActor
	}
	return t.Actor.body, nil
}

func (s *Session) stepDT() float64 {
	return 1 / float64(s.cfg.FPS*s.cfg.Substeps)
}

// CreatePinJoint keeps the two anchors at their current distance.
func (s *Session) CreatePinJoint(a *Actor, t JointTarget) (*physics.Joint, error) {
	other, err := s.jointEnds(a, t)
	if err != nil {
		return nil, fmt.Errorf("gamejr: pin joint: %w", err)
	}
	j, err := s.world.AddPinJoint(a.body, other, t.From, t.Anchor)
	if err != nil {
		return nil, fmt.Errorf("gamejr: pin joint: %w", err)
	}
	s.joints = append(s.joints, j)
	return j, nil
}

// CreateSpringJoint connects the anchors with a damped spring.
func (s *Session) CreateSpringJoint(a *Actor, t JointTarget, opts SpringOptions) (*physics.Joint, error) {
	other, err := s.jointEnds(a, t)
	if err != nil {
		return nil, fmt.Errorf("gamejr: spring joint: %w", err)
	}
	rest := opts.RestLength
	if rest <= 0 {
		to := t.Anchor
		if other != nil {
			to = other.LocalToWorld(t.Anchor)
		}
		rest = a.body.LocalToWorld(t.From).Distance(to)
	}
	k, d := opts.Stiffness, opts.Damping
	if opts.ParamsAsRatio || (k == 0 && d == 0) {
		maxK, maxD := s.world.Config().Spring.MaxSpring(a.body, other, s.stepDT())
		k, d = ratio(opts.Stiffness, maxK, opts.ParamsAsRatio), ratio(opts.Damping, maxD, opts.ParamsAsRatio)
	}
	j, err := s.world.AddSpring(a.body, other, t.From, t.Anchor, rest, k, d)
	if err != nil {
		return nil, fmt.Errorf("gamejr: spring joint: %w", err)
	}
	s.joints = append(s.joints, j)
	return j, nil
}

// CreateRotarySpringJoint pulls a's angle relative to the target toward
// RestAngle. A target without an actor uses the world frame.
func (s *Session) CreateRotarySpringJoint(a *Actor, t JointTarget, opts RotarySpringOptions) (*physics.Joint, error) {
	other, err := s.jointEnds(a, t)
	if err != nil {
		return nil, fmt.Errorf("gamejr: rotary spring: %w", err)
	}
	k, d := opts.Stiffness, opts.Damping
	if opts.ParamsAsRatio || (k == 0 && d == 0) {
		maxK, maxD := s.world.Config().Spring.MaxRotarySpring(a.body, other, s.stepDT())
		k, d = ratio(opts.Stiffness, maxK, opts.ParamsAsRatio), ratio(opts.Damping, maxD, opts.ParamsAsRatio)
	}
	j, err := s.world.AddRotarySpring(a.body, other, common.Deg2Rad(opts.RestAngle), k, d)
	if err != nil {
		return nil, fmt.Errorf("gamejr: rotary spring: %w", err)
	}
	s.joints = append(s.joints, j)
	return j, nil
}

// ratio scales limit by r, treating a zero r as the full limit.
func ratio(r, limit float64, asRatio bool) float64 {
	if !asRatio || r == 0 {
		return limit
	}
	return r * limit
}

// RemoveJoint detaches j; unknown joints are ignored.
func (s *Session) RemoveJoint(j *physics.Joint) {
	s.world.RemoveJoint(j)
	s.pruneJoints()
}

// pruneJoints drops joints the world no longer holds.
func (s *Session) pruneJoints() {
	live := make(map[*physics.Joint]bool)
	for _, j := range s.world.Joints() {
		live[j] = true
	}
	kept := s.joints[:0]
	for _, j := range s.joints {
		if live[j] {
			kept = append(kept, j)
		}
	}
	clear(s.joints[len(kept):])
	s.joints = kept
}
