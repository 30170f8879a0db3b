package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/gamejr/gamejr/assets"
)

func TestEmbeddedDefaultMatchesDefault(t *testing.T) {
	cfg, err := Parse(DefaultYAML())
	if err != nil {
		t.Fatalf("embedded default: %v", err)
	}
	want := Default()
	if cfg.Width != want.Width || cfg.Height != want.Height || cfg.FPS != want.FPS || cfg.Substeps != want.Substeps {
		t.Fatalf("screen = %dx%d@%d/%d", cfg.Width, cfg.Height, cfg.FPS, cfg.Substeps)
	}
	if cfg.Background != "purple" || cfg.Gravity != (Gravity{}) {
		t.Fatalf("background %q gravity %+v", cfg.Background, cfg.Gravity)
	}
	if cfg.Physics.Spring != want.Physics.Spring || cfg.Camera.Keys != want.Camera.Keys {
		t.Fatalf("physics or camera section differs from Default")
	}
}

func TestGravityForms(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Gravity
		bad  bool
	}{
		{"scalar", "gravity: -900", Gravity{Y: -900}, false},
		{"pair", "gravity: [10, -5]", Gravity{X: 10, Y: -5}, false},
		{"mapping", "gravity: {x: 3, y: 4}", Gravity{X: 3, Y: 4}, false},
		{"short pair", "gravity: [1]", Gravity{}, true},
		{"text", "gravity: down", Gravity{}, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg, err := Parse([]byte(c.doc))
			if c.bad {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if cfg.Gravity != c.want {
				t.Fatalf("gravity = %+v, want %+v", cfg.Gravity, c.want)
			}
		})
	}
}

func TestGravityMarshalRoundTrip(t *testing.T) {
	for _, g := range []Gravity{{Y: -900}, {X: 2, Y: 3}} {
		cfg := Default()
		cfg.Gravity = g
		data, err := Marshal(cfg)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		back, err := Parse(data)
		if err != nil {
			t.Fatalf("parse: %v", err)
		}
		if back.Gravity != g {
			t.Fatalf("gravity %+v came back as %+v", g, back.Gravity)
		}
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	cfg, err := Parse([]byte("title: demo\nwidth: 800\n"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if cfg.Title != "demo" || cfg.Width != 800 || cfg.Height != 240 || cfg.FPS != 60 {
		t.Fatalf("unexpected merge: %+v", cfg)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"default", func(*Config) {}, true},
		{"zero width", func(c *Config) { c.Width = 0 }, false},
		{"negative height", func(c *Config) { c.Height = -1 }, false},
		{"zero fps", func(c *Config) { c.FPS = 0 }, false},
		{"zero substeps", func(c *Config) { c.Substeps = 0 }, false},
		{"bad color", func(c *Config) { c.Background = "not-a-color" }, false},
		{"hex color", func(c *Config) { c.Background = "#102030" }, true},
		{"spring fraction", func(c *Config) { c.Physics.Spring.Stiffness = 2 }, false},
		{"zoom step with controls", func(c *Config) { c.Camera.Controls = true; c.Camera.ZoomStep = 1 }, false},
		{"zoom step without controls", func(c *Config) { c.Camera.ZoomStep = 1 }, true},
		{"log level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"empty log level", func(c *Config) { c.Log.Level = "" }, true},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			cfg := Default()
			c.mutate(&cfg)
			err := cfg.Validate()
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok && !errors.Is(err, ErrInvalid) {
				t.Fatalf("error = %v, want ErrInvalid", err)
			}
		})
	}
}

func TestLoadSearchOrder(t *testing.T) {
	home := t.TempDir()
	work := t.TempDir()
	t.Setenv("HOME", home)
	t.Chdir(work)

	_, src, err := Load("")
	if err != nil || src != EmbeddedSource {
		t.Fatalf("empty dirs: src %q err %v", src, err)
	}

	local := filepath.Join("configs", "gamejr.yaml")
	writeFile(t, filepath.Join(work, local), "title: local\n")
	cfg, src, err := Load("")
	if err != nil || src != local || cfg.Title != "local" {
		t.Fatalf("local: src %q title %q err %v", src, cfg.Title, err)
	}

	user := filepath.Join(home, ".gamejr", "config.yaml")
	writeFile(t, user, "title: user\n")
	cfg, src, err = Load("")
	if err != nil || src != user || cfg.Title != "user" {
		t.Fatalf("user: src %q title %q err %v", src, cfg.Title, err)
	}

	custom := filepath.Join(work, "custom.yaml")
	writeFile(t, custom, "title: custom\nfps: 30\n")
	cfg, src, err = Load(custom)
	if err != nil || src != custom || cfg.Title != "custom" || cfg.FPS != 30 {
		t.Fatalf("custom: src %q cfg %+v err %v", src, cfg, err)
	}

	if _, _, err := Load(filepath.Join(work, "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("missing custom path: %v", err)
	}
	writeFile(t, user, "fps: -1\n")
	if _, _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("invalid user file should fail, got %v", err)
	}
}

func TestSectionAdapters(t *testing.T) {
	cfg := Default()
	if p, ok := cfg.Assets.Policy().(assets.NeverEvict); !ok {
		t.Fatalf("default policy = %T", p)
	}
	cfg.Assets.MaxEntries = 4
	if p, ok := cfg.Assets.Policy().(assets.LimitEntries); !ok || p.Max != 4 {
		t.Fatalf("limited policy = %#v", cfg.Assets.Policy())
	}

	w := cfg.Physics.World()
	if w.Spring.StiffnessFraction != 0.75 || w.Spring.DampingFraction != 0.25 || w.Iterations != 20 {
		t.Fatalf("physics config = %+v", w)
	}
	if b := cfg.Camera.Bindings(); b.Left != "left" || b.Reset != "0" || b.ZoomStep != 1.02 {
		t.Fatalf("bindings = %+v", b)
	}
	if f := cfg.Camera.Follow(); f.MinDistance != 100 || f.Speed != 10 {
		t.Fatalf("follow = %+v", f)
	}

	cfg.Log.Level = "DEBUG"
	if lvl, err := cfg.Log.ParsedLevel(); err != nil || lvl != log.DebugLevel {
		t.Fatalf("level = %v, %v", lvl, err)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		event fsnotify.Event
		keep  bool
		cfg   bool
	}{
		{fsnotify.Event{Name: "a.yaml", Op: fsnotify.Write}, true, true},
		{fsnotify.Event{Name: "a.YML", Op: fsnotify.Create}, true, true},
		{fsnotify.Event{Name: "game.tengo", Op: fsnotify.Write}, true, false},
		{fsnotify.Event{Name: "a.yaml", Op: fsnotify.Chmod}, false, false},
		{fsnotify.Event{Name: "notes.txt", Op: fsnotify.Write}, false, false},
	}
	for _, c := range cases {
		t.Run(c.event.String(), func(t *testing.T) {
			got, keep := classify(c.event)
			if keep != c.keep || (keep && got.Config != c.cfg) {
				t.Fatalf("classify = %+v, %v", got, keep)
			}
		})
	}
}

func TestWatcherReportsScriptChange(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()

	path := filepath.Join(dir, "game.tengo")
	writeFile(t, path, "x := 1")

	select {
	case c := <-w.Events:
		if c.Path != path || !c.Script {
			t.Fatalf("change = %+v", c)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("no change reported")
	}

	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	for range w.Events {
	}
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
}
