package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gamejr/gamejr/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration as YAML",
	Long: `Print the configuration gamejr would use, after the config file and
the global flags are applied. The output is a valid config file.`,
	Args: cobra.NoArgs,
	RunE: printConfig,
}

func printConfig(cmd *cobra.Command, args []string) error {
	cfg, source, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "# source: %s\n", sourceName(source))
	_, err = out.Write(data)
	return err
}
