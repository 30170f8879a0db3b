package demos

import (
	"errors"
	"io"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
	"github.com/gamejr/gamejr/input"
	"github.com/jakecoffman/cp"
)

func startDemo(t *testing.T, name string, frames ...[]input.Event) *gamejr.Session {
	t.Helper()
	d, err := Lookup(name)
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	cfg := config.Default()
	d.Apply(&cfg)
	s, err := gamejr.NewSession(cfg,
		gamejr.WithHeadless(),
		gamejr.WithInput(input.NewScripted(frames...)),
		gamejr.WithLogger(log.New(io.Discard)),
	)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if err := s.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(s.End)
	if err := d.Setup(s, rand.New(rand.NewPCG(1, 2))); err != nil {
		t.Fatalf("setup %s: %v", name, err)
	}
	return s
}

func step(t *testing.T, s *gamejr.Session, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		if err := s.Update(); err != nil {
			t.Fatalf("update %d: %v", i, err)
		}
	}
}

func TestRegistry(t *testing.T) {
	want := []string{"balls-in-box", "bouncing-ball", "glide", "hud", "pinball"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("names = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("names = %v, want %v", got, want)
		}
	}
	if list := List(); list[0].Name != "balls-in-box" || list[0].Summary == "" {
		t.Fatalf("list[0] = %+v", list[0])
	}
	if _, err := Lookup("nope"); !errors.Is(err, ErrUnknownDemo) {
		t.Fatalf("lookup err = %v", err)
	}
}

func TestEveryDemoRuns(t *testing.T) {
	for _, name := range Names() {
		t.Run(name, func(t *testing.T) {
			s := startDemo(t, name)
			step(t, s, 30)
			if !s.IsRunning() {
				t.Fatalf("demo ended itself")
			}
			if len(s.Actors()) == 0 {
				t.Fatalf("demo created no actors")
			}
		})
	}
}

func TestBouncingBallMoves(t *testing.T) {
	s := startDemo(t, "bouncing-ball")
	ball := s.Actors()[0]
	step(t, s, 3)
	if p := ball.Position(); math.Abs(p.X-112) > 1e-9 || math.Abs(p.Y-112) > 1e-9 {
		t.Fatalf("ball at %v, want (112, 112)", p)
	}
}

func TestBallsInBoxCount(t *testing.T) {
	s := startDemo(t, "balls-in-box")
	if got := len(s.Actors()); got != boxBalls+4 {
		t.Fatalf("actors = %d, want %d", got, boxBalls+4)
	}
	if g := s.Gravity(); g != (cp.Vector{}) {
		t.Fatalf("gravity = %v", g)
	}
}

func TestPinballSpawnsBallOnSpace(t *testing.T) {
	s := startDemo(t, "pinball", []input.Event{{Kind: input.KeyDown, Key: "space"}})
	before := len(s.Actors())
	if before != 5 {
		t.Fatalf("actors = %d, want 3 walls and 2 flippers", before)
	}
	if got := len(s.Joints()); got != 4 {
		t.Fatalf("joints = %d, want 4", got)
	}
	step(t, s, 2)
	if got := len(s.Actors()); got != before+1 {
		t.Fatalf("actors after space = %d, want %d", got, before+1)
	}
	// holding space does not add more balls
	step(t, s, 2)
	if got := len(s.Actors()); got != before+1 {
		t.Fatalf("actors while held = %d", got)
	}
}

func TestGlideCameraFollowsClick(t *testing.T) {
	s := startDemo(t, "glide", []input.Event{{Kind: input.MouseDown, Button: "left", Pos: cp.Vector{X: 420, Y: 240}}})
	step(t, s, 1)
	if !s.Camera().Gliding() {
		t.Fatalf("click did not start a glide")
	}
	step(t, s, 60)
	if s.Camera().Gliding() {
		t.Fatalf("glide still running")
	}
	if off := s.Camera().Offset(); math.Abs(off.X-100) > 1e-3 || math.Abs(off.Y) > 1e-3 {
		t.Fatalf("offset = %v, want (100, 0)", off)
	}
}

func TestHUDScoreTicks(t *testing.T) {
	s := startDemo(t, "hud", nil, []input.Event{{Kind: input.KeyDown, Key: "space"}})
	labels := s.HUD().Labels()
	if len(labels) != 4 {
		t.Fatalf("labels = %d, want 4", len(labels))
	}
	step(t, s, 61)
	if got := labels[0].Text(); got != "Score: 10" {
		t.Fatalf("score label = %q", got)
	}
	if got := labels[2].Text(); got != "Inventory: 9" {
		t.Fatalf("inventory label = %q", got)
	}
}
