package main

import (
	"github.com/spf13/cobra"

	"github.com/gamejr/gamejr/script"
)

var runCmd = &cobra.Command{
	Use:   "run <script.tengo>",
	Short: "Run a Tengo game script",
	Long: `Run a game script. The script's setup(game) runs once, update(game)
runs every frame and on_key_down(game, key) runs for each key press.

With --watch, saving the script recompiles it in place. game.state keeps
its values across reloads; setup does not run again.`,
	Args: cobra.ExactArgs(1),
	RunE: runScript,
}

func runScript(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}
	s, err := newSession(cfg, source, path)
	if err != nil {
		return err
	}
	r, err := script.Load(s, path)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}
	if err := r.Attach(); err != nil {
		s.End()
		return err
	}
	logger.Info("running script", "path", path, "config", sourceName(source))
	return s.KeepRunning()
}

func sourceName(source string) string {
	if source == "" {
		return "embedded"
	}
	return source
}
