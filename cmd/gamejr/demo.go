package main

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/spf13/cobra"

	"github.com/gamejr/gamejr/demos"
)

var flagSeed uint64

var demoCmd = &cobra.Command{
	Use:   "demo <name>",
	Short: "Run a built-in demo",
	Long: `Run one of the built-in demos. The demo adjusts the loaded config
(screen size, gravity and so on) before the window opens.

Run 'gamejr demos' to see the names.`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: demos.Names(),
	RunE:      runDemo,
}

var demosCmd = &cobra.Command{
	Use:   "demos",
	Short: "List the built-in demos",
	Run:   listDemos,
}

func init() {
	demoCmd.Flags().Uint64Var(&flagSeed, "seed", 0, "RNG seed (0 = time based)")
}

func runDemo(cmd *cobra.Command, args []string) error {
	d, err := demos.Lookup(args[0])
	if err != nil {
		return fmt.Errorf("%w (run 'gamejr demos' for the list)", err)
	}
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}
	d.Apply(&cfg)
	if cfg.Title == "" || cfg.Title == "gamejr" {
		cfg.Title = "gamejr - " + d.Name
	}

	s, err := newSession(cfg, source)
	if err != nil {
		return err
	}
	if err := s.Start(); err != nil {
		return err
	}
	seed := flagSeed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	if err := d.Setup(s, rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))); err != nil {
		s.End()
		return fmt.Errorf("demo %s: %w", d.Name, err)
	}
	logger.Info("running demo", "demo", d.Name, "seed", seed, "controls", d.Controls)
	return s.KeepRunning()
}

func listDemos(cmd *cobra.Command, args []string) {
	list := demos.List()
	width := len("NAME")
	for _, d := range list {
		width = max(width, len(d.Name))
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "  %-*s  %s\n", width, "NAME", "SUMMARY")
	for _, d := range list {
		fmt.Fprintf(out, "  %-*s  %s\n", width, d.Name, d.Summary)
		if d.Controls != "" {
			fmt.Fprintf(out, "  %-*s    %s\n", width, "", d.Controls)
		}
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, "Run 'gamejr demo <name>' to start one.")
}
