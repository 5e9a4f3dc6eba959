// Package cmd implements the clueitems command line.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/pkg/profiling"
)

// NewRootCmd returns the clueitems command with every subcommand attached.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"clueitems",
		"Track emote clue item progress from host game events",
	)

	profiling.Attach(rootCmd)

	rootCmd.AddCommand(NewDaemonCmd())
	rootCmd.AddCommand(NewReplayCmd())
	rootCmd.AddCommand(NewStatusCmd())
	rootCmd.AddCommand(NewSendCmd())
	rootCmd.AddCommand(NewHighlightCmd())
	rootCmd.AddCommand(NewSettingsCmd())
	rootCmd.AddCommand(NewSchemaCmd())
	rootCmd.AddCommand(NewPathsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("clueitems"))

	return rootCmd
}
