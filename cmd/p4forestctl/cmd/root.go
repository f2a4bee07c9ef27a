// Package cmd implements p4forestctl's cobra command tree: a small
// demonstration CLI that builds a brick forest from config.Config and
// drives one of the core operations end-to-end (spec.md §11.3).
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/p4forest/config"
	"github.com/katalvlaran/p4forest/internal/logging"
)

var (
	configPath string
	verbose    bool

	logger logging.Logger
	cfg    *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "p4forestctl",
	Short: "Build and inspect a parallel adaptive-mesh forest",
	Long: `p4forestctl is a demonstration CLI over the p4forest library.

It builds a small brick-connectivity forest from a config file (or
defaults), then drives one of validate, checksum, or partition-demo over
it so the library's behavior is observable without writing Go.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		level := cfg.LogLevel()
		if verbose {
			level = logging.LevelDebug
		}
		logger = logging.New(level, os.Stdout)
		return nil
	},
}

// Execute runs the root command, exiting the process with status 1 on
// error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a p4forest config file (defaults applied if empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "force debug-level logging regardless of config")
}
