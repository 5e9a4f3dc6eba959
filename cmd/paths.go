package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/pkg/paths"
)

// PathsOutput represents the paths used by clueitems.
type PathsOutput struct {
	ConfigDir     string `json:"config_dir"`
	StateDir      string `json:"state_dir"`
	RuntimeDir    string `json:"runtime_dir"`
	Profile       string `json:"profile"`
	Socket        string `json:"socket"`
	PidFile       string `json:"pid_file"`
	Log           string `json:"log"`
	RecordingsDir string `json:"recordings_dir"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by clueitems",
		Long: `Print the paths used by clueitems in JSON format.

CLUEITEMS_HOME relocates every directory. Otherwise the XDG base directory
variables apply:
- config_dir: settings document and profile
- state_dir: PID file, logs and recordings
- runtime_dir: daemon socket`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}

			output := PathsOutput{
				ConfigDir:     paths.ConfigDir(),
				StateDir:      paths.StateDir(),
				RuntimeDir:    paths.RuntimeDir(),
				Profile:       opts.Profile,
				Socket:        opts.Socket,
				PidFile:       paths.PidFilePath(),
				Log:           paths.LogPath(),
				RecordingsDir: paths.RecordingsDir(),
			}

			if err := writeJSON(cmd.OutOrStdout(), output); err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			return nil
		},
	}

	return cmd
}
