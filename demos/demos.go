// Package demos holds the built-in example games the gamejr command can run.
package demos

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"strings"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
)

// ErrUnknownDemo is returned by Lookup for a name that is not registered.
var ErrUnknownDemo = errors.New("unknown demo")

// Demo is one runnable example. Configure adjusts the loaded configuration
// before the session exists; Setup populates a started session.
type Demo struct {
	Name      string
	Summary   string
	Controls  string
	Configure func(*config.Config)
	Setup     func(s *gamejr.Session, rng *rand.Rand) error
}

var registry = map[string]Demo{}

func register(d Demo) {
	if _, dup := registry[d.Name]; dup {
		panic(fmt.Sprintf("demos: duplicate demo %q", d.Name))
	}
	registry[d.Name] = d
}

// Lookup returns the demo registered under name.
func Lookup(name string) (Demo, error) {
	d, ok := registry[name]
	if !ok {
		return Demo{}, fmt.Errorf("demos: %q: %w", name, ErrUnknownDemo)
	}
	return d, nil
}

// List returns every demo sorted by name.
func List() []Demo {
	out := make([]Demo, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Demo) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// Names returns the registered demo names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Apply runs the demo's Configure hook on cfg.
func (d Demo) Apply(cfg *config.Config) {
	if d.Configure != nil {
		d.Configure(cfg)
	}
}

func init() {
	register(bouncingBall)
	register(ballsInBox)
	register(pinball)
	register(glide)
	register(hud)
}
