// Package main is the entry point for the pace CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "0.0.1"

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "pace",
	Short: "pace - track projects, todos, and daily KPIs",
	Long: `pace is a personal productivity tracker. It tracks projects (counted
work units), todos with numeric targets, and KPIs - daily-checkable habits
that can feed their target into a linked todo's progress.

All state lives in a single JSON document saved after every change.`,
	Version: Version,
	// Show help when no subcommand is provided
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// dataDir overrides the default per-user data directory.
var dataDir string

func init() {
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory (default: user config dir)")
	rootCmd.SetVersionTemplate("pace version {{.Version}}\n")
}
