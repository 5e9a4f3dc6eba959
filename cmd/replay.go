package cmd

import (
	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/internal/daemon/collector"
	"github.com/grovetools/clueitems/internal/daemon/engine"
	"github.com/grovetools/clueitems/pkg/daemon"
	"github.com/grovetools/clueitems/pkg/profiling"
)

// NewReplayCmd returns the replay command.
func NewReplayCmd() *cobra.Command {
	var (
		strict  bool
		persist bool
		status  string
	)

	cmd := &cobra.Command{
		Use:   "replay <events-file>",
		Short: "Replay a recorded session and print the resulting progress",
		Long: `Replay a JSONL event file (optionally zstd compressed) against the profile
and print the collection log as it stands after the last event.

Settings and STASH fill states the session changes are kept in memory unless
--persist is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}
			logger := cli.GetLogger(cmd, "replay")

			profile, closeProfile, err := openProfile(opts)
			if err != nil {
				return err
			}
			defer func() { _ = closeProfile() }()

			var target config.Store = profile
			if !persist {
				target = daemon.NewOverlay(profile)
			}

			eng := engine.New(engine.Options{
				Catalogue: catalogue.Default(),
				Settings:  config.NewManager(target),
				Logger:    logger,
			})
			eng.Register(collector.NewFileCollector(args[0], strict))

			prof := profiling.FromCommand(cmd)
			if err := prof.Time("replay", func() error { return eng.Run(cmd.Context()) }); err != nil {
				return err
			}

			st, err := filterItems(eng.Store().Get(), status)
			if err != nil {
				return err
			}
			return prof.Time("render", func() error { return printState(cmd, opts.JSONOutput, st) })
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on the first malformed event instead of skipping it")
	cmd.Flags().BoolVar(&persist, "persist", false, "Write settings and STASH fill states the session changes to the profile")
	cmd.Flags().StringVar(&status, "status", "", "Only list items with this status: owned, missing, unknown")
	return cmd
}
