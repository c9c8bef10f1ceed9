// Package cli provides the statmv command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	rootDir      string
	languageName string
	outputFormat string
	historyPath  string
)

// rootCmd is the base command when called without subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "statmv",
		Version: "dev",
		Short:   "Plan moves of static members to a new or existing type",
		Long: `statmv plans "move static members" refactorings over Python and Ruby trees.

Given a type, it works out which members are eligible to move, what those
members depend on, which existing types could receive them, and a
collision-free default name for a brand-new destination. The output is a
plan; rewriting source files is left to the tooling that consumes it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if outputFormat != "text" && outputFormat != "toon" {
				return fmt.Errorf("unknown format %q", outputFormat)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&rootDir, "root", ".", "repository root to scan")
	cmd.PersistentFlags().StringVar(&languageName, "lang", "python", "source language when not inferable from --file")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "text", "output format: text or toon")
	cmd.PersistentFlags().StringVar(&historyPath, "history", "", "destination history file for recency markers")

	return cmd
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}
