package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/gamejr/gamejr/assets"
	"github.com/gamejr/gamejr/camera"
	"github.com/gamejr/gamejr/common"
	"github.com/gamejr/gamejr/physics"
	"github.com/jakecoffman/cp"
	"gopkg.in/yaml.v3"
)

// ErrInvalid marks a configuration value that cannot be used.
var ErrInvalid = errors.New("invalid config")

// Config is the full game configuration.
type Config struct {
	Title           string  `yaml:"title"`
	Width           int     `yaml:"width"`
	Height          int     `yaml:"height"`
	Background      string  `yaml:"background"`
	BackgroundImage string  `yaml:"background_image"`
	FPS             int     `yaml:"fps"`
	Substeps        int     `yaml:"substeps"`
	Gravity         Gravity `yaml:"gravity"`

	Physics   Physics `yaml:"physics"`
	Camera    Camera  `yaml:"camera"`
	Debug     Debug   `yaml:"debug"`
	PauseMenu bool    `yaml:"pause_menu"`
	Assets    Assets  `yaml:"assets"`
	Log       Log     `yaml:"log"`
	Watch     bool    `yaml:"watch"`
}

// Gravity is written either as a single number, the vertical component, or
// as an [x, y] pair. Negative y pulls down.
type Gravity struct {
	X, Y float64
}

func (g Gravity) Vector() cp.Vector {
	return cp.Vector{X: g.X, Y: g.Y}
}

func (g *Gravity) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		var y float64
		if err := node.Decode(&y); err != nil {
			return fmt.Errorf("gravity: %w", err)
		}
		*g = Gravity{Y: y}
		return nil
	case yaml.SequenceNode:
		var xy []float64
		if err := node.Decode(&xy); err != nil {
			return fmt.Errorf("gravity: %w", err)
		}
		if len(xy) != 2 {
			return fmt.Errorf("gravity: want [x, y], got %d values", len(xy))
		}
		*g = Gravity{X: xy[0], Y: xy[1]}
		return nil
	case yaml.MappingNode:
		var m struct {
			X float64 `yaml:"x"`
			Y float64 `yaml:"y"`
		}
		if err := node.Decode(&m); err != nil {
			return fmt.Errorf("gravity: %w", err)
		}
		*g = Gravity{X: m.X, Y: m.Y}
		return nil
	default:
		return fmt.Errorf("gravity: unsupported yaml node at line %d", node.Line)
	}
}

func (g Gravity) MarshalYAML() (any, error) {
	if g.X == 0 {
		return g.Y, nil
	}
	return []float64{g.X, g.Y}, nil
}

// Physics tunes the simulation and the defaults factories use.
type Physics struct {
	Iterations int     `yaml:"iterations"`
	Damping    float64 `yaml:"damping"`
	Density    float64 `yaml:"density"`
	Friction   float64 `yaml:"friction"`
	Elasticity float64 `yaml:"elasticity"`
	Spring     Spring  `yaml:"spring"`
}

// Spring holds the fractions of the stiffest stable spring used by joint
// helpers.
type Spring struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
}

func (p Physics) World() physics.Config {
	return physics.Config{
		Iterations: p.Iterations,
		Damping:    p.Damping,
		Spring: physics.SpringHeuristic{
			StiffnessFraction: p.Spring.Stiffness,
			DampingFraction:   p.Spring.Damping,
		},
	}
}

// Camera configures keyboard controls and follow behaviour.
type Camera struct {
	Controls bool       `yaml:"controls"`
	Keys     CameraKeys `yaml:"keys"`
	PanStep  float64    `yaml:"pan_step"`
	ZoomStep float64    `yaml:"zoom_step"`
	TurnStep float64    `yaml:"turn_step"`

	FollowDistance float64 `yaml:"follow_distance"`
	FollowSpeed    float64 `yaml:"follow_speed"`
}

type CameraKeys struct {
	Left      string `yaml:"left"`
	Right     string `yaml:"right"`
	Up        string `yaml:"up"`
	Down      string `yaml:"down"`
	ZoomIn    string `yaml:"zoom_in"`
	ZoomOut   string `yaml:"zoom_out"`
	TurnLeft  string `yaml:"turn_left"`
	TurnRight string `yaml:"turn_right"`
	Reset     string `yaml:"reset"`
}

func (c Camera) Bindings() camera.Controls {
	return camera.Controls{
		Left: c.Keys.Left, Right: c.Keys.Right, Up: c.Keys.Up, Down: c.Keys.Down,
		ZoomIn: c.Keys.ZoomIn, ZoomOut: c.Keys.ZoomOut,
		TurnLeft: c.Keys.TurnLeft, TurnRight: c.Keys.TurnRight,
		Reset:    c.Keys.Reset,
		PanStep:  c.PanStep,
		ZoomStep: c.ZoomStep,
		TurnStep: c.TurnStep,
	}
}

func (c Camera) Follow() camera.FollowOptions {
	opts := camera.DefaultFollowOptions()
	if c.FollowDistance > 0 {
		opts.MinDistance = c.FollowDistance
	}
	if c.FollowSpeed > 0 {
		opts.Speed = c.FollowSpeed
	}
	return opts
}

type Debug struct {
	ShowMouse      bool `yaml:"show_mouse"`
	PhysicsOverlay bool `yaml:"physics_overlay"`
	ShowFPS        bool `yaml:"show_fps"`
}

type Assets struct {
	Dirs       []string `yaml:"dirs"`
	MaxEntries int      `yaml:"max_entries"`
}

// Policy maps MaxEntries to a cache eviction policy; zero keeps everything.
func (a Assets) Policy() assets.EvictionPolicy {
	if a.MaxEntries > 0 {
		return assets.LimitEntries{Max: a.MaxEntries}
	}
	return assets.NeverEvict{}
}

type Log struct {
	Level string `yaml:"level"`
}

// ParsedLevel returns the log level, defaulting to info when unset.
func (l Log) ParsedLevel() (log.Level, error) {
	if strings.TrimSpace(l.Level) == "" {
		return log.InfoLevel, nil
	}
	return log.ParseLevel(strings.ToLower(strings.TrimSpace(l.Level)))
}

// Default returns the built-in configuration.
func Default() Config {
	spring := physics.DefaultSpringHeuristic()
	ctl := camera.DefaultControls()
	follow := camera.DefaultFollowOptions()
	return Config{
		Title:      "gamejr",
		Width:      320,
		Height:     240,
		Background: "purple",
		FPS:        60,
		Substeps:   1,
		Physics: Physics{
			Iterations: physics.DefaultConfig().Iterations,
			Damping:    1,
			Density:    1,
			Friction:   0.5,
			Elasticity: 0.5,
			Spring:     Spring{Stiffness: spring.StiffnessFraction, Damping: spring.DampingFraction},
		},
		Camera: Camera{
			Keys: CameraKeys{
				Left: ctl.Left, Right: ctl.Right, Up: ctl.Up, Down: ctl.Down,
				ZoomIn: ctl.ZoomIn, ZoomOut: ctl.ZoomOut,
				TurnLeft: ctl.TurnLeft, TurnRight: ctl.TurnRight,
				Reset: ctl.Reset,
			},
			PanStep:        ctl.PanStep,
			ZoomStep:       ctl.ZoomStep,
			TurnStep:       ctl.TurnStep,
			FollowDistance: follow.MinDistance,
			FollowSpeed:    follow.Speed,
		},
		PauseMenu: true,
		Log:       Log{Level: "info"},
	}
}

// Validate reports every unusable value, joined.
func (c Config) Validate() error {
	var errs []error
	bad := func(field string, format string, args ...any) {
		errs = append(errs, fmt.Errorf("config: %s: %s: %w", field, fmt.Sprintf(format, args...), ErrInvalid))
	}

	if c.Width <= 0 {
		bad("width", "must be positive, got %d", c.Width)
	}
	if c.Height <= 0 {
		bad("height", "must be positive, got %d", c.Height)
	}
	if c.FPS <= 0 {
		bad("fps", "must be positive, got %d", c.FPS)
	}
	if c.Substeps < 1 {
		bad("substeps", "must be at least 1, got %d", c.Substeps)
	}
	if c.Background != "" {
		if _, err := common.ParseColor(c.Background); err != nil {
			bad("background", "%v", err)
		}
	}
	if c.Physics.Iterations < 0 {
		bad("physics.iterations", "must not be negative, got %d", c.Physics.Iterations)
	}
	if c.Physics.Damping < 0 || c.Physics.Damping > 1 {
		bad("physics.damping", "must be within [0, 1], got %g", c.Physics.Damping)
	}
	if c.Physics.Density < 0 {
		bad("physics.density", "must not be negative, got %g", c.Physics.Density)
	}
	if s := c.Physics.Spring; s.Stiffness < 0 || s.Stiffness > 1 || s.Damping < 0 || s.Damping > 1 {
		bad("physics.spring", "fractions must be within [0, 1], got %g/%g", s.Stiffness, s.Damping)
	}
	if c.Camera.Controls && c.Camera.ZoomStep <= 1 {
		bad("camera.zoom_step", "must be above 1, got %g", c.Camera.ZoomStep)
	}
	if c.Assets.MaxEntries < 0 {
		bad("assets.max_entries", "must not be negative, got %d", c.Assets.MaxEntries)
	}
	if _, err := c.Log.ParsedLevel(); err != nil {
		bad("log.level", "%v", err)
	}
	return errors.Join(errs...)
}
