package main

import (
	"fmt"
	"strings"

	"github.com/gamejr/gamejr"
	"github.com/gamejr/gamejr/config"
)

// loadConfig reads the configuration and folds the global flags into it. It
// returns the path the config came from, or "" for the embedded default.
func loadConfig() (config.Config, string, error) {
	cfg, source, err := config.Load(flagConfig)
	if err != nil {
		return cfg, "", err
	}
	if flagLogLevel != "" {
		cfg.Log.Level = strings.ToLower(flagLogLevel)
	}
	if flagDebug {
		cfg.Debug.ShowMouse = true
		cfg.Debug.PhysicsOverlay = true
		cfg.Debug.ShowFPS = true
	}
	if flagWatch {
		cfg.Watch = true
	}
	if source == config.EmbeddedSource {
		source = ""
	}
	return cfg, source, nil
}

// newSession applies the configured log level to the shared logger and
// creates a session watching the given files.
func newSession(cfg config.Config, watch ...string) (*gamejr.Session, error) {
	lvl, err := cfg.Log.ParsedLevel()
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Log.Level, err)
	}
	logger.SetLevel(lvl)

	var paths []string
	for _, p := range watch {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return gamejr.NewSession(cfg, gamejr.WithLogger(logger), gamejr.WithWatch(paths...))
}
