package gamejr

import (
	"errors"
	"image"
	"io"
	"math"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr/camera"
	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/costume"
	"github.com/gamejr/gamejr/input"
	"github.com/gamejr/gamejr/physics"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/jakecoffman/cp"
)

func newTestSession(t *testing.T, mutate func(*config.Config), frames ...[]input.Event) *Session {
	t.Helper()
	cfg := config.Default()
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSession(cfg,
		WithHeadless(),
		WithInput(input.NewScripted(frames...)),
		WithLogger(log.New(io.Discard)),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(s.End)
	return s
}

func step(t *testing.T, s *Session, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
}

func near(a, b cp.Vector) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestSessionStateMachine(t *testing.T) {
	s, err := NewSession(config.Default(), WithHeadless(), WithInput(input.NewScripted()), WithLogger(log.New(io.Discard)))
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.State() != NotStarted {
		t.Fatalf("state = %v", s.State())
	}
	if err := s.Update(); err != nil {
		t.Fatalf("update before start: %v", err)
	}
	if s.World().Steps() != 0 {
		t.Fatalf("world stepped before start")
	}

	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if !s.IsRunning() {
		t.Fatalf("not running after start")
	}
	if err := s.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Fatalf("second start = %v", err)
	}

	s.End()
	s.End()
	if s.State() != Ended || s.IsRunning() {
		t.Fatalf("state after end = %v", s.State())
	}
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("update after end = %v", err)
	}
	if err := s.Start(); !errors.Is(err, ErrEnded) {
		t.Fatalf("start after end = %v", err)
	}
	if _, err := s.CreateCircle(5, ActorOptions{}); !errors.Is(err, ErrEnded) {
		t.Fatalf("create after end = %v", err)
	}
}

func TestNewSessionRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Substeps = 0
	if _, err := NewSession(cfg, WithHeadless()); !errors.Is(err, config.ErrInvalid) {
		t.Fatalf("err = %v", err)
	}
}

func TestQuitEventEndsSession(t *testing.T) {
	s := newTestSession(t, nil, []input.Event{{Kind: input.Quit}})
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("update = %v", err)
	}
	if s.State() != Ended {
		t.Fatalf("state = %v", s.State())
	}
}

func TestFixedStep(t *testing.T) {
	run := func() (*Session, *Actor) {
		s := newTestSession(t, func(c *config.Config) {
			c.Substeps = 2
			c.Gravity = config.Gravity{Y: -300}
		})
		ball, err := s.CreateCircle(10, ActorOptions{Center: At(100, 200)})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		step(t, s, 30)
		return s, ball
	}

	s, ball := run()
	if got := s.World().Steps(); got != 60 {
		t.Fatalf("steps = %d, want 60", got)
	}
	if got, want := s.Clock(), 30*(time.Second/60); got != want {
		t.Fatalf("clock = %v, want %v", got, want)
	}
	if ball.Y() >= 200 {
		t.Fatalf("ball did not fall: y = %v", ball.Y())
	}

	_, again := run()
	if ball.Position() != again.Position() {
		t.Fatalf("runs diverged: %v vs %v", ball.Position(), again.Position())
	}
}

func TestDispatchOnlyToRegistered(t *testing.T) {
	s := newTestSession(t, nil, []input.Event{{Kind: input.KeyDown, Key: "space"}})
	a, _ := s.CreateCircle(5, ActorOptions{Center: At(50, 50), Kind: physics.Static})
	b, _ := s.CreateCircle(5, ActorOptions{Center: At(200, 50), Kind: physics.Static})

	var gotA []string
	var global []*Actor
	bCalled := false
	s.OnKeyDown(a, func(x *Actor, key string) {
		if x != a {
			t.Errorf("handler got actor %v, want %v", x.ID(), a.ID())
		}
		gotA = append(gotA, key)
	})
	s.OnKeyUp(b, func(*Actor, string) { bCalled = true })
	s.OnKeyDown(nil, func(x *Actor, key string) { global = append(global, x) })

	step(t, s, 1)
	if len(gotA) != 1 || gotA[0] != "space" {
		t.Fatalf("a got %v", gotA)
	}
	if len(global) != 1 || global[0] != nil {
		t.Fatalf("global handler got %v", global)
	}
	if bCalled {
		t.Fatalf("keyup handler fired on keydown")
	}
	if keys := s.KeysPressed(); len(keys) != 1 || keys[0] != "space" {
		t.Fatalf("keys pressed = %v", keys)
	}
}

func TestRemoveInsideHandler(t *testing.T) {
	s := newTestSession(t, nil, []input.Event{{Kind: input.KeyDown, Key: "x"}})
	a, _ := s.CreateCircle(5, ActorOptions{Center: At(50, 50)})
	b, _ := s.CreateCircle(5, ActorOptions{Center: At(100, 50)})

	bCalled := false
	s.OnKeyDown(a, func(*Actor, string) { s.Remove(b) })
	s.OnKeyDown(b, func(*Actor, string) { bCalled = true })

	step(t, s, 1)
	if bCalled {
		t.Fatalf("removed actor still received the event")
	}
	if b.Alive() || len(s.Actors()) != 1 {
		t.Fatalf("b alive %v, actors %d", b.Alive(), len(s.Actors()))
	}
}

func TestRemoveCleansUp(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateCircle(10, ActorOptions{Center: At(100, 100)})
	b, _ := s.CreateCircle(10, ActorOptions{Center: At(105, 100)})

	if len(a.Touches()) != 1 || len(b.Touches(a)) != 1 {
		t.Fatalf("overlap not symmetric: %d %d", len(a.Touches()), len(b.Touches(a)))
	}
	s.OnKeyDown(b, func(*Actor, string) {})
	s.OnMouseMove(b, func(*Actor, cp.Vector) {})
	s.FollowActor(b, camera.FollowOptions{})
	if _, err := s.CreatePinJoint(a, ToActor(b, cp.Vector{})); err != nil {
		t.Fatalf("pin: %v", err)
	}

	s.Remove(b)
	s.Remove(b)

	if b.Alive() || s.World().Contains(b.Body()) {
		t.Fatalf("body still present")
	}
	if len(a.Touches()) != 0 {
		t.Fatalf("a still touches the removed actor")
	}
	if s.handlers.registered(b) {
		t.Fatalf("handlers survived removal")
	}
	if _, ok := s.Following(); ok {
		t.Fatalf("camera still follows removed actor")
	}
	if len(s.Joints()) != 0 || len(s.World().Joints()) != 0 {
		t.Fatalf("joint survived removal")
	}
	if _, err := s.Actor(b.ID()); !errors.Is(err, ErrUnknownActor) {
		t.Fatalf("lookup err = %v", err)
	}
	if _, ok := s.ActorForBody(b.Body()); ok {
		t.Fatalf("body map still holds removed actor")
	}
}

func TestPlacement(t *testing.T) {
	s := newTestSession(t, nil)
	if _, err := s.CreateCircle(5, ActorOptions{Center: At(1, 1), BottomLeft: At(0, 0)}); !errors.Is(err, ErrPlacement) {
		t.Fatalf("err = %v", err)
	}
	if len(s.Actors()) != 0 {
		t.Fatalf("failed create left an actor")
	}

	tests := []struct {
		name   string
		create func() (*Actor, error)
		rect   common.Rect
	}{
		{
			name:   "rect bottom-left",
			create: func() (*Actor, error) { return s.CreateRect(20, 10, ActorOptions{BottomLeft: At(0, 0)}) },
			rect:   common.Rect{X: 0, Y: 0, W: 20, H: 10},
		},
		{
			name:   "circle centre",
			create: func() (*Actor, error) { return s.CreateCircle(5, ActorOptions{Center: At(50, 60)}) },
			rect:   common.Rect{X: 45, Y: 55, W: 10, H: 10},
		},
		{
			name: "polygon at its points",
			create: func() (*Actor, error) {
				return s.CreatePolygonAny([]cp.Vector{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}, ActorOptions{})
			},
			rect: common.Rect{X: 0, Y: 0, W: 30, H: 30},
		},
		{
			name:   "line at its points",
			create: func() (*Actor, error) { return s.CreateLine(cp.Vector{X: 10, Y: 10}, cp.Vector{X: 50, Y: 10}, 2, ActorOptions{}) },
			rect:   common.Rect{X: 9, Y: 9, W: 42, H: 2},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a, err := tc.create()
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			r := a.Rect()
			if math.Abs(r.X-tc.rect.X) > 1e-6 || math.Abs(r.Y-tc.rect.Y) > 1e-6 ||
				math.Abs(r.W-tc.rect.W) > 1e-6 || math.Abs(r.H-tc.rect.H) > 1e-6 {
				t.Fatalf("rect = %+v, want %+v", r, tc.rect)
			}
		})
	}
}

func TestPolygonAnyKeepsCentroid(t *testing.T) {
	s := newTestSession(t, nil)
	a, err := s.CreatePolygonAny([]cp.Vector{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 0, Y: 30}}, ActorOptions{Kind: physics.Static})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !near(a.Position(), cp.Vector{X: 10, Y: 10}) {
		t.Fatalf("position = %v", a.Position())
	}
}

func TestPolygonAnyRejectsConcave(t *testing.T) {
	s := newTestSession(t, nil)
	l := []cp.Vector{{X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 30}, {X: 0, Y: 30}}
	if _, err := s.CreatePolygonAny(l, ActorOptions{}); !errors.Is(err, physics.ErrInvalidGeometry) {
		t.Fatalf("err = %v, want ErrInvalidGeometry", err)
	}
	if len(s.Actors()) != 0 {
		t.Fatalf("failed create left an actor behind")
	}
}

func TestBadColorIsAnError(t *testing.T) {
	s := newTestSession(t, nil)
	if _, err := s.CreateCircle(5, ActorOptions{Color: "not-a-colour"}); err == nil {
		t.Fatalf("expected colour error")
	}
	if len(s.Actors()) != 0 || s.World().BodyCount() != 0 {
		t.Fatalf("failed create left state behind")
	}
}

func TestCostumeSwitchPreservesCenter(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateRect(20, 10, ActorOptions{Center: At(100, 80), Kind: physics.Static})
	before := a.Center()

	frames := []image.Image{image.NewRGBA(image.Rect(0, 0, 40, 30))}
	if err := a.AddCostumeFrames("big", frames, costume.Options{}); err != nil {
		t.Fatalf("add costume: %v", err)
	}
	if err := a.SetCostume("big"); err != nil {
		t.Fatalf("set costume: %v", err)
	}
	if err := a.FitToImage(); err != nil {
		t.Fatalf("fit: %v", err)
	}
	if !near(a.Center(), before) {
		t.Fatalf("centre moved from %v to %v", before, a.Center())
	}
	if math.Abs(a.Width()-40) > 1e-6 || math.Abs(a.Height()-30) > 1e-6 {
		t.Fatalf("size = %vx%v", a.Width(), a.Height())
	}
	if err := a.SetCostume("missing"); !errors.Is(err, costume.ErrUnknownCostume) {
		t.Fatalf("unknown costume err = %v", err)
	}
}

func TestAnimationFollowsClock(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateRect(4, 4, ActorOptions{Kind: physics.Static})
	frames := make([]image.Image, 4)
	for i := range frames {
		frames[i] = image.NewRGBA(image.Rect(0, 0, 4, 4))
	}
	if err := a.AddCostumeFrames("walk", frames, costume.Options{}); err != nil {
		t.Fatalf("add costume: %v", err)
	}
	_ = a.SetCostume("walk")
	a.StartAnimation(true, 0, 2*(time.Second/60))

	for _, want := range []int{0, 1, 1, 2, 2, 3, 3, 0} {
		step(t, s, 1)
		if got := a.Costume().Index(); got != want {
			t.Fatalf("frame %d: index = %d, want %d", s.Frames(), got, want)
		}
	}
}

func TestMousePositionsAreWorldSpace(t *testing.T) {
	s := newTestSession(t, nil, []input.Event{{Kind: input.MouseMove, Pos: cp.Vector{X: 10, Y: 230}}})
	var got cp.Vector
	s.OnMouseMove(nil, func(_ *Actor, pos cp.Vector) { got = pos })

	step(t, s, 1)
	want := cp.Vector{X: 10, Y: 10}
	if !near(got, want) || !near(s.MouseXY(), want) {
		t.Fatalf("handler %v, MouseXY %v, want %v", got, s.MouseXY(), want)
	}
	if !near(s.MouseScreenXY(), cp.Vector{X: 10, Y: 230}) {
		t.Fatalf("screen pos = %v", s.MouseScreenXY())
	}
}

func TestHeldKeysFireOncePerFrame(t *testing.T) {
	s := newTestSession(t, nil,
		[]input.Event{{Kind: input.KeyDown, Key: "m"}},
		nil,
		[]input.Event{{Kind: input.KeyUp, Key: "m"}},
		nil,
	)
	calls := 0
	s.OnKeyPress(nil, func(_ *Actor, keys []string) {
		if len(keys) != 1 || keys[0] != "m" {
			t.Errorf("keys = %v", keys)
		}
		calls++
	})
	for i, want := range []int{1, 2, 2, 2} {
		step(t, s, 1)
		if calls != want {
			t.Fatalf("frame %d: calls = %d, want %d", i, calls, want)
		}
	}
}

func TestCameraControls(t *testing.T) {
	s := newTestSession(t, nil,
		[]input.Event{{Kind: input.KeyDown, Key: "right"}},
		[]input.Event{{Kind: input.KeyUp, Key: "right"}},
	)
	step(t, s, 1)
	if s.Camera().Offset().X != 0 {
		t.Fatalf("controls moved the camera while disabled")
	}

	s = newTestSession(t, nil, []input.Event{{Kind: input.KeyDown, Key: "right"}})
	s.SetCameraControls(true)
	step(t, s, 2)
	if got := s.Camera().Offset().X; got != 10 {
		t.Fatalf("offset x = %v, want 10", got)
	}
}

func TestFollowActor(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateRect(10, 10, ActorOptions{Center: At(300, 120), Kind: physics.Static})
	s.FollowActor(a, camera.FollowOptions{})
	step(t, s, 1)
	if got := s.Camera().Offset(); !near(got, cp.Vector{X: 10}) {
		t.Fatalf("offset = %v, want (10, 0)", got)
	}
	s.StopFollowing()
	step(t, s, 1)
	if got := s.Camera().Offset(); !near(got, cp.Vector{X: 10}) {
		t.Fatalf("camera moved after StopFollowing: %v", got)
	}
}

func TestPauseFreezesWorld(t *testing.T) {
	s := newTestSession(t, nil,
		[]input.Event{{Kind: input.KeyDown, Key: "escape"}},
		nil,
		[]input.Event{{Kind: input.KeyDown, Key: "escape"}},
		nil,
	)
	keyDowns := 0
	s.OnKeyDown(nil, func(*Actor, string) { keyDowns++ })

	step(t, s, 1)
	if !s.Paused() || s.World().Steps() != 1 {
		t.Fatalf("paused %v steps %d", s.Paused(), s.World().Steps())
	}
	step(t, s, 1)
	if s.World().Steps() != 1 {
		t.Fatalf("world stepped while paused")
	}
	step(t, s, 1)
	if s.Paused() {
		t.Fatalf("escape did not resume")
	}
	step(t, s, 1)
	if s.World().Steps() != 2 {
		t.Fatalf("steps = %d, want 2", s.World().Steps())
	}
	if keyDowns != 0 {
		t.Fatalf("pause key reached handlers %d times", keyDowns)
	}
}

func TestPauseHoldsBackRestOfBatch(t *testing.T) {
	s := newTestSession(t, nil,
		[]input.Event{
			{Kind: input.KeyDown, Key: "escape"},
			{Kind: input.KeyDown, Key: "a"},
			{Kind: input.KeyUp, Key: "a"},
		},
	)
	var downs []string
	s.OnKeyDown(nil, func(_ *Actor, key string) { downs = append(downs, key) })
	presses := 0
	s.OnKeyPress(nil, func(_ *Actor, keys []string) { presses++ })

	step(t, s, 1)
	if !s.Paused() {
		t.Fatalf("escape did not pause")
	}
	if len(downs) != 0 {
		t.Fatalf("handlers saw %v while paused", downs)
	}
	if presses != 0 {
		t.Fatalf("pause key was reported as held")
	}

	step(t, s, 1)
	s.SetPaused(false)
	step(t, s, 3)
	if presses != 0 {
		t.Fatalf("key press handler ran %d times after resume", presses)
	}
	if len(downs) != 0 {
		t.Fatalf("events from the paused frame leaked to handlers: %v", downs)
	}
}

func TestResumeDeliversRestOfBatch(t *testing.T) {
	s := newTestSession(t, nil,
		[]input.Event{{Kind: input.KeyDown, Key: "escape"}},
		[]input.Event{
			{Kind: input.KeyDown, Key: "escape"},
			{Kind: input.KeyDown, Key: "b"},
		},
		nil,
	)
	var downs []string
	s.OnKeyDown(nil, func(_ *Actor, key string) { downs = append(downs, key) })
	var held []string
	s.OnKeyPress(nil, func(_ *Actor, keys []string) { held = keys })

	step(t, s, 2)
	if s.Paused() {
		t.Fatalf("second escape did not resume")
	}
	step(t, s, 1)
	if len(downs) != 1 || downs[0] != "b" {
		t.Fatalf("downs = %v, want [b]", downs)
	}
	if len(held) != 1 || held[0] != "b" {
		t.Fatalf("held = %v, want [b]", held)
	}
}

func TestScreenWallsContainBall(t *testing.T) {
	s := newTestSession(t, func(c *config.Config) { c.Gravity = config.Gravity{Y: -500} })
	walls, err := s.CreateScreenWalls(AllWalls())
	if err != nil {
		t.Fatalf("walls: %v", err)
	}
	if len(walls) != 4 {
		t.Fatalf("got %d walls", len(walls))
	}
	for _, w := range walls {
		if w.Kind() != physics.Static {
			t.Fatalf("wall kind = %v", w.Kind())
		}
	}
	ball, _ := s.CreateCircle(10, ActorOptions{
		Center:     At(160, 120),
		Velocity:   cp.Vector{X: 300, Y: 100},
		Elasticity: Ptr(0.9),
	})
	step(t, s, 600)
	p := ball.Position()
	if p.X < 0 || p.X > 320 || p.Y < 0 || p.Y > 240 {
		t.Fatalf("ball escaped to %v", p)
	}
}

func TestRotarySpringRatio(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateRect(40, 10, ActorOptions{Center: At(100, 100)})
	maxK, maxD := s.World().Config().Spring.MaxRotarySpring(a.Body(), nil, 1.0/60)
	if maxK <= 0 || maxD <= 0 {
		t.Fatalf("limits = %v, %v", maxK, maxD)
	}
	j, err := s.CreateRotarySpringJoint(a, ToPoint(cp.Vector{}), RotarySpringOptions{
		RestAngle: 10, Stiffness: 0.5, Damping: 0.25, ParamsAsRatio: true,
	})
	if err != nil {
		t.Fatalf("rotary spring: %v", err)
	}
	if math.Abs(j.Stiffness-0.5*maxK) > 1e-9*maxK || math.Abs(j.Damping-0.25*maxD) > 1e-9*maxD {
		t.Fatalf("stiffness %v damping %v, want %v %v", j.Stiffness, j.Damping, 0.5*maxK, 0.25*maxD)
	}
	if math.Abs(j.RestAngle-common.Deg2Rad(10)) > 1e-12 {
		t.Fatalf("rest angle = %v", j.RestAngle)
	}
}

func TestSpringRestLengthDefaultsToDistance(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateCircle(5, ActorOptions{Center: At(100, 100)})
	b, _ := s.CreateCircle(5, ActorOptions{Center: At(150, 100)})
	j, err := s.CreateSpringJoint(a, ToActor(b, cp.Vector{}), SpringOptions{Stiffness: 10, Damping: 1})
	if err != nil {
		t.Fatalf("spring: %v", err)
	}
	if math.Abs(j.RestLength-50) > 1e-9 || j.Stiffness != 10 || j.Damping != 1 {
		t.Fatalf("joint = %+v", j)
	}
	s.RemoveJoint(j)
	if len(s.Joints()) != 0 {
		t.Fatalf("joint not removed")
	}
}

func TestImpulseTorqueGuard(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateRect(10, 10, ActorOptions{FixedRotation: true})
	a.ApplyImpulseTorque(100)
	if a.AngularVelocity() != 0 {
		t.Fatalf("fixed rotation actor spun: %v", a.AngularVelocity())
	}
}

func TestTexts(t *testing.T) {
	s := newTestSession(t, nil)
	a, _ := s.CreateCircle(5, ActorOptions{})
	a.AddText(TextInfo{Text: "hi"}, "")
	a.AddText(TextInfo{Text: "score", Color: "yellow"}, "s")
	a.AddText(TextInfo{Text: "score 2", Color: "yellow"}, "s")
	if got := a.Texts(); len(got) != 2 || got[1].Text != "score 2" {
		t.Fatalf("texts = %+v", got)
	}
	if err := a.RemoveText("hi"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := a.RemoveText("hi"); !errors.Is(err, ErrUnknownText) {
		t.Fatalf("second remove = %v", err)
	}

	s.AddText(TextInfo{Text: "world label", Offset: cp.Vector{X: 10, Y: 10}}, "w")
	if len(s.Texts()) != 1 {
		t.Fatalf("global texts = %d", len(s.Texts()))
	}
	if err := s.RemoveText("nope"); !errors.Is(err, ErrUnknownText) {
		t.Fatalf("remove unknown = %v", err)
	}
	if _, err := s.textFor(TextInfo{Text: "x", Color: "nope"}); err == nil {
		t.Fatalf("bad text colour accepted")
	}
}

func TestHUD(t *testing.T) {
	s := newTestSession(t, nil)
	h := s.HUD()
	l := h.AddText("lives: 3", cp.Vector{X: 4, Y: 20}, 12, "not-a-colour")
	l.SetText("lives: 2")
	if l.Text() != "lives: 2" {
		t.Fatalf("text = %q", l.Text())
	}
	fps := h.ShowFPS(cp.Vector{X: 4, Y: 4})
	if h.ShowFPS(cp.Vector{X: 8, Y: 4}) != fps || !near(fps.Position(), cp.Vector{X: 8, Y: 4}) {
		t.Fatalf("ShowFPS should reuse and move its label")
	}
	if len(h.Labels()) != 2 {
		t.Fatalf("labels = %d", len(h.Labels()))
	}
	l.Remove()
	h.HideFPS()
	if len(h.Labels()) != 0 {
		t.Fatalf("labels after remove = %d", len(h.Labels()))
	}
}

func TestApplyLive(t *testing.T) {
	s := newTestSession(t, nil)
	cfg := config.Default()
	cfg.Gravity = config.Gravity{Y: -50}
	cfg.Background = "black"
	cfg.Debug.PhysicsOverlay = true
	cfg.Width = 999
	cfg.Physics.Spring = config.Spring{Stiffness: 0.5, Damping: 0.1}
	s.ApplyLive(cfg)
	if h := s.World().Config().Spring; h.StiffnessFraction != 0.5 || h.DampingFraction != 0.1 {
		t.Fatalf("spring heuristic not applied: %+v", h)
	}
	if !near(s.Gravity(), cp.Vector{Y: -50}) {
		t.Fatalf("gravity = %v", s.Gravity())
	}
	got := s.Config()
	if !got.Debug.PhysicsOverlay || got.Background != "black" {
		t.Fatalf("debug/background not applied: %+v", got)
	}
	if got.Width != 320 {
		t.Fatalf("width changed live to %d", got.Width)
	}

	cfg.Background = "not-a-colour"
	s.ApplyLive(cfg)
	if s.Config().Background != "black" {
		t.Fatalf("bad background applied")
	}
}

func TestFrameCallbacksAndEndInside(t *testing.T) {
	s := newTestSession(t, nil)
	calls := 0
	s.OnFrame(func(s *Session) {
		calls++
		if calls == 3 {
			s.End()
		}
	})
	s.OnFrame(func(*Session) {
		if calls == 3 {
			t.Errorf("callback ran after End")
		}
	})
	for i := 0; i < 2; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("update: %v", err)
		}
	}
	if err := s.Update(); !errors.Is(err, ebiten.Termination) {
		t.Fatalf("update = %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d", calls)
	}
}
