// Package script runs learner games written in Tengo. A script defines
// setup(game) and update(game), and optionally on_key_down(game, key).
package script

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
)

// ErrNoEntryPoint is returned for a script that defines neither setup nor
// update.
var ErrNoEntryPoint = errors.New("script defines neither setup nor update")

const (
	phaseSetup   = "setup"
	phaseUpdate  = "update"
	phaseKeyDown = "on_key_down"
)

// Runner owns one compiled script bound to a session. Globals in the script
// body are re-evaluated on every call, so lasting values belong in
// game.state.
type Runner struct {
	s      *gamejr.Session
	path   string
	logger *log.Logger

	compiled *tengo.Compiled
	phases   map[string]bool
	game     *tengo.ImmutableMap
	state    *tengo.Map

	setupDone bool
	lastErr   string
}

// Load reads and compiles the script at path.
func Load(s *gamejr.Session, path string) (*Runner, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", path, err)
	}
	return New(s, path, src)
}

// New compiles src; name is used in messages and to match watcher events.
func New(s *gamejr.Session, name string, src []byte) (*Runner, error) {
	r := &Runner{
		s:      s,
		path:   name,
		logger: s.Logger().WithPrefix("script"),
		state:  &tengo.Map{Value: map[string]tengo.Object{}},
	}
	r.game = r.buildGame()
	if err := r.compile(src); err != nil {
		return nil, err
	}
	return r, nil
}

// definedPhases finds the entry points src declares at the top level.
func definedPhases(src string) map[string]bool {
	out := make(map[string]bool)
	for _, name := range []string{phaseSetup, phaseUpdate, phaseKeyDown} {
		re := regexp.MustCompile(`(?m)^\s*` + name + `\s*:?=\s*func\b`)
		if re.MatchString(src) {
			out[name] = true
		}
	}
	return out
}

// dispatchScript calls the entry point named by __phase.
func dispatchScript(phases map[string]bool) string {
	var b strings.Builder
	b.WriteString("\n")
	if phases[phaseSetup] {
		b.WriteString("if __phase == \"setup\" { setup(__game) }\n")
	}
	if phases[phaseUpdate] {
		b.WriteString("if __phase == \"update\" { update(__game) }\n")
	}
	if phases[phaseKeyDown] {
		b.WriteString("if __phase == \"on_key_down\" { on_key_down(__game, __key) }\n")
	}
	return b.String()
}

func (r *Runner) compile(src []byte) error {
	phases := definedPhases(string(src))
	if !phases[phaseSetup] && !phases[phaseUpdate] {
		return fmt.Errorf("script: compile %s: %w", r.path, ErrNoEntryPoint)
	}
	script := tengo.NewScript([]byte(string(src) + dispatchScript(phases)))
	_ = script.Add("__phase", "")
	_ = script.Add("__game", map[string]any{})
	_ = script.Add("__key", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return fmt.Errorf("script: compile %s: %w", r.path, err)
	}
	if err := compiled.Set("__game", r.game); err != nil {
		return fmt.Errorf("script: compile %s: %w", r.path, err)
	}
	r.compiled = compiled
	r.phases = phases
	return nil
}

func (r *Runner) run(phase, key string) error {
	if !r.phases[phase] {
		return nil
	}
	if err := r.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := r.compiled.Set("__key", key); err != nil {
		return err
	}
	if err := r.compiled.Run(); err != nil {
		return fmt.Errorf("script: %s %s: %w", r.path, phase, err)
	}
	return nil
}

// Setup runs setup(game) once.
func (r *Runner) Setup() error {
	if r.setupDone {
		return nil
	}
	r.setupDone = true
	return r.run(phaseSetup, "")
}

// Update runs update(game).
func (r *Runner) Update() error {
	return r.run(phaseUpdate, "")
}

// KeyDown runs on_key_down(game, key) when the script defines it.
func (r *Runner) KeyDown(key string) error {
	return r.run(phaseKeyDown, key)
}

// HasPhase reports whether the script defines the named entry point.
func (r *Runner) HasPhase(name string) bool {
	return r.phases[name]
}

// State is the map scripts see as game.state.
func (r *Runner) State() *tengo.Map {
	return r.state
}

// Reload recompiles src, keeping game.state. setup is not run again.
func (r *Runner) Reload(src []byte) error {
	if err := r.compile(src); err != nil {
		return err
	}
	r.lastErr = ""
	r.logger.Info("reloaded", "path", r.path)
	return nil
}

// Attach runs setup and hooks update, key handling and hot reload into
// the session loop. Errors after setup are logged, once per distinct
// message.
func (r *Runner) Attach() error {
	if err := r.Setup(); err != nil {
		return err
	}
	r.s.OnFrame(func(*gamejr.Session) {
		r.report(r.Update())
	})
	r.s.OnKeyDown(nil, func(_ *gamejr.Actor, key string) {
		r.report(r.KeyDown(key))
	})
	r.s.OnReload(func(ch config.Change) {
		if !ch.Script || !samePath(ch.Path, r.path) {
			return
		}
		src, err := os.ReadFile(ch.Path)
		if err != nil {
			r.logger.Warn("reload", "path", ch.Path, "err", err)
			return
		}
		if err := r.Reload(src); err != nil {
			r.logger.Error("reload", "path", ch.Path, "err", err)
		}
	})
	return nil
}

func (r *Runner) report(err error) {
	if err == nil {
		return
	}
	if msg := err.Error(); msg != r.lastErr {
		r.lastErr = msg
		r.logger.Error("script error", "err", err)
	}
}
