// gamejr runs small physics games written in Tengo, plus a few built-in demos.
//
// Usage:
//
//	gamejr run <script.tengo>  - Run a script
//	gamejr demo <name>         - Run a built-in demo
//	gamejr demos               - List the built-in demos
//	gamejr config              - Print the effective configuration
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.gamejr/config.yaml, then ./configs/gamejr.yaml)
//	--log-level <level> - debug, info, warn or error
//	--debug             - Show the mouse overlay, physics overlay and FPS
//	--watch             - Reload the config and script when they change
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	flagConfig   string
	flagLogLevel string
	flagDebug    bool
	flagWatch    bool
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	ReportTimestamp: true,
	Prefix:          "gamejr",
})

func main() {
	if err := rootCmd.Execute(); err != nil {
		logger.Fatal("gamejr failed", "err", err)
	}
}

var rootCmd = &cobra.Command{
	Use:   "gamejr",
	Short: "gamejr - small physics games in a window",
	Long: `gamejr opens a window, runs a 2D physics world and hands it to your game.

Games are Tengo scripts that define setup(game) and update(game), and
optionally on_key_down(game, key).

Examples:
  gamejr run pong.tengo
  gamejr run pong.tengo --watch
  gamejr demo pinball
  gamejr demos
  gamejr config > my.yaml`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to a config YAML")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&flagDebug, "debug", false, "Enable the debug overlays")
	rootCmd.PersistentFlags().BoolVar(&flagWatch, "watch", false, "Hot reload the config and script")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(demosCmd)
	rootCmd.AddCommand(configCmd)
}
