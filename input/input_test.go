package input

import (
	"testing"

	"github.com/gamejr/gamejr/ecs"
	"github.com/hajimehoshi/ebiten/v2"
)

func TestKeyNames(t *testing.T) {
	cases := []struct {
		key  ebiten.Key
		want string
	}{
		{ebiten.KeyA, "a"},
		{ebiten.KeySpace, "space"},
		{ebiten.KeyArrowLeft, "left"},
		{ebiten.KeyArrowUp, "up"},
		{ebiten.KeyDigit7, "7"},
		{ebiten.KeyEscape, "escape"},
		{ebiten.KeyShiftLeft, "shiftleft"},
		{ebiten.KeyEqual, "equal"},
	}
	for _, c := range cases {
		t.Run(c.want, func(t *testing.T) {
			if got := KeyName(c.key); got != c.want {
				t.Fatalf("KeyName = %q, want %q", got, c.want)
			}
			k, ok := KeyByName(c.want)
			if !ok || k != c.key {
				t.Fatalf("KeyByName(%q) = %v, %v", c.want, k, ok)
			}
		})
	}

	if k, ok := KeyByName(" ArrowRight "); !ok || k != ebiten.KeyArrowRight {
		t.Fatalf("ebiten spelling should resolve")
	}
	if _, ok := KeyByName("nope"); ok {
		t.Fatalf("unknown name resolved")
	}
	if len(KeyNames()) < 26 {
		t.Fatalf("key name table looks empty")
	}
}

func TestButtonNames(t *testing.T) {
	for _, name := range []string{"left", "right", "middle"} {
		b, ok := ButtonByName(name)
		if !ok || ButtonName(b) != name {
			t.Fatalf("button %q did not roundtrip", name)
		}
	}
	if _, ok := ButtonByName("thumb"); ok {
		t.Fatalf("unknown button resolved")
	}
}

func TestApplyTracksHeldSets(t *testing.T) {
	var keys, btns KeySet
	events := []Event{
		{Kind: KeyDown, Key: "a"},
		{Kind: KeyDown, Key: "space"},
		{Kind: MouseDown, Button: "left"},
		{Kind: KeyUp, Key: "a"},
		{Kind: MouseMove},
	}
	for _, e := range events {
		Apply(&keys, &btns, e)
	}
	if got := keys.Names(); len(got) != 1 || got[0] != "space" {
		t.Fatalf("held keys = %v", got)
	}
	if !btns.Has("left") || btns.Len() != 1 {
		t.Fatalf("held buttons = %v", btns.Names())
	}
	Apply(&keys, &btns, Event{Kind: MouseUp, Button: "left"})
	if btns.Len() != 0 {
		t.Fatalf("button release not applied")
	}
	keys.Clear()
	if keys.Has("space") {
		t.Fatalf("clear left keys behind")
	}
}

func TestScriptedSource(t *testing.T) {
	src := NewScripted(
		[]Event{{Kind: KeyDown, Key: "a"}, {Kind: KeyUp, Key: "a"}},
		nil,
	)
	src.Push(Event{Kind: Quit})

	var q ecs.EventQueue[Event]
	want := []int{2, 0, 1, 0}
	for i, n := range want {
		src.Poll(&q)
		if got := len(q.Drain()); got != n {
			t.Fatalf("poll %d delivered %d events, want %d", i, got, n)
		}
	}
	if !src.Done() {
		t.Fatalf("source should be exhausted")
	}
}

func TestKindString(t *testing.T) {
	if MouseWheel.String() != "mousewheel" || Kind(99).String() != "Kind(99)" {
		t.Fatalf("unexpected kind names")
	}
}
