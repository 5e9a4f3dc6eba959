package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/pkg/daemon"
)

// NewStatusCmd returns the status command.
func NewStatusCmd() *cobra.Command {
	var (
		events string
		status string
		follow bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show collection log progress",
		Long: `Show the collection log panel. When the daemon is running its live state is
shown, otherwise the state is rebuilt from the profile and, if given, a
recorded session.`,
		Example: `  # Show only what is still missing
  clueitems status --status missing

  # Follow live panel updates
  clueitems status --follow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}

			profile, closeProfile, err := openProfile(opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeProfile() }()

			cat := catalogue.Default()
			client := daemon.New(opts.Socket, func() daemon.Client {
				return daemon.NewLocalClient(cat, profile, events)
			})
			defer client.Close()

			ctx := cmd.Context()
			if follow {
				return followState(ctx, cmd, client)
			}

			st, err := client.State(ctx)
			if err != nil {
				return err
			}
			st, err = filterItems(st, status)
			if err != nil {
				return err
			}
			return printState(cmd, opts.JSONOutput, st)
		},
	}

	cmd.Flags().StringVar(&events, "events", "", "Recorded session to replay when the daemon is not running")
	cmd.Flags().StringVar(&status, "status", "", "Only list items with this status: owned, missing, unknown")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "Print panel updates as they happen (requires the daemon)")
	return cmd
}

func followState(ctx context.Context, cmd *cobra.Command, client daemon.Client) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	updates, err := client.StreamState(ctx)
	if err != nil {
		return err
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	for u := range updates {
		if jsonOutput {
			if err := writeJSON(cmd.OutOrStdout(), u); err != nil {
				return err
			}
			continue
		}
		fmt.Fprintln(cmd.OutOrStdout(), describeUpdate(u))
	}
	return nil
}
