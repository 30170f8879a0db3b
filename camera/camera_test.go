package camera

import (
	"math"
	"testing"

	"github.com/jakecoffman/cp"
	"github.com/tanema/gween/ease"
)

const epsilon = 1e-9

func approxVec(a, b cp.Vector, eps float64) bool {
	return math.Abs(a.X-b.X) < eps && math.Abs(a.Y-b.Y) < eps
}

func TestIdentityReturnsInputSlice(t *testing.T) {
	cam := New(800, 600)
	in := []cp.Vector{{X: 1, Y: 2}, {X: 3, Y: 4}}
	out := cam.ApplyAll(in)
	if &out[0] != &in[0] {
		t.Fatalf("identity camera must return the input slice")
	}
	if cam.Inverse(in[1]) != in[1] {
		t.Fatalf("identity inverse should pass points through")
	}

	cam.MoveBy(cp.Vector{X: 1})
	out = cam.ApplyAll(in)
	if &out[0] == &in[0] {
		t.Fatalf("non-identity camera must not alias the input")
	}
	if in[0] != (cp.Vector{X: 1, Y: 2}) {
		t.Fatalf("input mutated: %v", in[0])
	}
}

func TestApplyOrder(t *testing.T) {
	cam := New(800, 600)
	cam.scale = 2
	cam.angle = math.Pi / 2
	cam.offset = cp.Vector{X: 10, Y: 20}
	cam.invalidate()

	cases := []struct {
		name string
		opts ApplyOptions
		want cp.Vector
	}{
		{"scale_only", ApplyOptions{Scale: true}, cp.Vector{X: 2, Y: 0}},
		{"rotate_only", ApplyOptions{Rotate: true}, cp.Vector{X: 0, Y: 1}},
		{"translate_only", ApplyOptions{Translate: true}, cp.Vector{X: -9, Y: -20}},
		{"all", All, cp.Vector{X: -10, Y: -18}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := cam.Apply([]cp.Vector{{X: 1, Y: 0}}, c.opts)[0]
			if !approxVec(got, c.want, epsilon) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestInverseRoundtrip(t *testing.T) {
	cam := New(640, 480)
	cam.MoveBy(cp.Vector{X: 37, Y: -12})
	cam.ZoomBy(1.7)
	cam.TurnBy(33)

	points := []cp.Vector{{}, {X: 100, Y: 50}, {X: -250, Y: 310}}
	for _, p := range points {
		back := cam.Inverse(cam.Point(p))
		if !approxVec(back, p, 1e-6) {
			t.Fatalf("roundtrip %v -> %v", p, back)
		}
		screen := cam.WorldToScreen(p)
		if w := cam.ScreenToWorld(screen); !approxVec(w, p, 1e-6) {
			t.Fatalf("screen roundtrip %v -> %v", p, w)
		}
	}
}

func TestScreenToWorldFlipsY(t *testing.T) {
	cam := New(800, 600)
	got := cam.ScreenToWorld(cp.Vector{X: 10, Y: 0})
	if got != (cp.Vector{X: 10, Y: 600}) {
		t.Fatalf("top-left screen pixel should map to world top, got %v", got)
	}
}

func TestZoomAndTurnKeepCentre(t *testing.T) {
	cam := New(800, 600)
	cam.MoveBy(cp.Vector{X: 50, Y: 20})
	centre := cp.Vector{X: 400, Y: 300}
	world := cam.Inverse(centre)

	cam.ZoomBy(2.5)
	if got := cam.Point(world); !approxVec(got, centre, 1e-6) {
		t.Fatalf("zoom moved the centre to %v", got)
	}
	cam.TurnBy(45)
	if got := cam.Point(world); !approxVec(got, centre, 1e-6) {
		t.Fatalf("turn moved the centre to %v", got)
	}
	if math.Abs(cam.Angle()-45) > 1e-9 {
		t.Fatalf("angle = %f, want 45", cam.Angle())
	}
	cam.TurnTo(-30)
	if math.Abs(cam.Angle()+30) > 1e-9 {
		t.Fatalf("angle = %f, want -30", cam.Angle())
	}
	cam.ZoomTo(1)
	if math.Abs(cam.Scale()-1) > 1e-12 {
		t.Fatalf("scale = %f, want 1", cam.Scale())
	}
}

func TestZoomIgnoresNonPositive(t *testing.T) {
	cam := New(800, 600)
	for _, f := range []float64{0, -1, math.NaN()} {
		cam.ZoomBy(f)
		cam.ZoomTo(f)
	}
	if cam.Scale() != 1 || !cam.IsIdentity() {
		t.Fatalf("non-positive zoom changed the camera")
	}
}

func TestReset(t *testing.T) {
	cam := New(800, 600)
	cam.MoveBy(cp.Vector{X: 3, Y: 4})
	cam.ZoomBy(2)
	cam.TurnBy(10)
	cam.GlideTo(cp.Vector{X: 100}, 1, nil)
	cam.Reset()
	if !cam.IsIdentity() || cam.Gliding() {
		t.Fatalf("reset should restore identity and stop glides")
	}
}

func box(x, y, w, h float64) []cp.Vector {
	return []cp.Vector{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

func TestFollowDeadband(t *testing.T) {
	opts := FollowOptions{MinDistance: 100, Speed: 10}
	cases := []struct {
		name   string
		target []cp.Vector
		want   cp.Vector
	}{
		{"centre", box(390, 290, 20, 20), cp.Vector{}},
		{"inside_margin", box(100, 100, 20, 20), cp.Vector{}},
		{"past_right", box(780, 290, 20, 20), cp.Vector{X: 10}},
		{"past_left", box(95, 290, 20, 20), cp.Vector{X: -5}},
		{"past_top", box(390, 560, 20, 20), cp.Vector{Y: 10}},
		{"past_bottom", box(390, 0, 20, 20), cp.Vector{Y: -10}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := New(800, 600)
			cam.Follow(c.target, 0, opts)
			if !approxVec(cam.Offset(), c.want, epsilon) {
				t.Fatalf("offset = %v, want %v", cam.Offset(), c.want)
			}
		})
	}
}

func TestFollowConverges(t *testing.T) {
	cam := New(800, 600)
	target := box(1500, 290, 20, 20)
	for i := 0; i < 200; i++ {
		cam.Follow(target, 0, FollowOptions{MinDistance: 100, Speed: 10})
	}
	view := cam.ApplyAll(target)
	for _, p := range view {
		if p.X > 700+epsilon || p.X < 100-epsilon {
			t.Fatalf("target still outside margin at %v", p)
		}
	}
}

func TestFollowRotationDeadband(t *testing.T) {
	opts := FollowOptions{MinDistance: 0, MinAngle: 10, AngleSpeed: 5}
	cam := New(800, 600)
	target := box(390, 290, 20, 20)

	cam.Follow(target, 8, opts)
	if cam.Angle() != 0 {
		t.Fatalf("heading inside deadband should not rotate, got %f", cam.Angle())
	}
	cam.Follow(target, 30, opts)
	if math.Abs(cam.Angle()+5) > 1e-9 {
		t.Fatalf("rotation should be capped at AngleSpeed, got %f", cam.Angle())
	}
	for i := 0; i < 20; i++ {
		cam.Follow(target, 30, opts)
	}
	if math.Abs(cam.Angle()+20) > 1e-9 {
		t.Fatalf("rotation should settle at the deadband edge, got %f", cam.Angle())
	}
}

func TestGlide(t *testing.T) {
	cam := New(800, 600)
	cam.GlideTo(cp.Vector{X: 100, Y: 50}, 1, ease.Linear)
	cam.Update(0.5)
	if !approxVec(cam.Offset(), cp.Vector{X: 50, Y: 25}, 1e-3) {
		t.Fatalf("halfway offset = %v", cam.Offset())
	}
	if !cam.Gliding() {
		t.Fatalf("glide should still be running")
	}
	cam.Update(0.6)
	if !approxVec(cam.Offset(), cp.Vector{X: 100, Y: 50}, 1e-3) || cam.Gliding() {
		t.Fatalf("glide should finish at target, got %v", cam.Offset())
	}

	cam.GlideTo(cp.Vector{X: 7}, 0, nil)
	if cam.Offset() != (cp.Vector{X: 7}) {
		t.Fatalf("zero-duration glide should jump")
	}
}

func TestGeoMMatchesApply(t *testing.T) {
	cam := New(800, 600)
	cam.MoveBy(cp.Vector{X: 12, Y: 7})
	cam.ZoomBy(1.5)
	cam.TurnBy(20)
	g := cam.GeoM()
	p := cp.Vector{X: 40, Y: -15}
	x, y := g.Apply(p.X, p.Y)
	if !approxVec(cp.Vector{X: x, Y: y}, cam.Point(p), 1e-6) {
		t.Fatalf("GeoM gives (%f,%f), Apply gives %v", x, y, cam.Point(p))
	}
}

type heldSet map[string]bool

func (h heldSet) Has(name string) bool { return h[name] }

func TestControls(t *testing.T) {
	ctl := DefaultControls()
	cases := []struct {
		name  string
		held  heldSet
		check func(c *Camera) bool
	}{
		{"idle", heldSet{}, func(c *Camera) bool { return c.IsIdentity() }},
		{"pan_right_up", heldSet{"right": true, "up": true}, func(c *Camera) bool {
			return c.Offset() == cp.Vector{X: ctl.PanStep, Y: ctl.PanStep}
		}},
		{"zoom_in", heldSet{"equal": true}, func(c *Camera) bool { return math.Abs(c.Scale()-ctl.ZoomStep) < epsilon }},
		{"turn_left", heldSet{"comma": true}, func(c *Camera) bool { return math.Abs(c.Angle()-ctl.TurnStep) < epsilon }},
		{"reset_wins", heldSet{"0": true, "right": true}, func(c *Camera) bool { return c.IsIdentity() }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cam := New(800, 600)
			if c.name == "reset_wins" {
				cam.MoveBy(cp.Vector{X: 30})
			}
			used := ctl.Update(cam, c.held)
			if used != (len(c.held) > 0) {
				t.Fatalf("used = %v", used)
			}
			if !c.check(cam) {
				t.Fatalf("unexpected camera state offset=%v scale=%f angle=%f", cam.Offset(), cam.Scale(), cam.Angle())
			}
		})
	}
}
