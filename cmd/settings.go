package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/catalogue"
	"github.com/grovetools/clueitems/cli"
	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/pkg/daemon"
	"github.com/grovetools/clueitems/tui/table"
	"github.com/grovetools/clueitems/tui/theme"
)

// NewSettingsCmd returns the settings command with subcommands.
func NewSettingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show the effective settings",
		Long: `Show the effective settings and STASH fill states. When the daemon is running
its view of the profile is shown.`,
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

			client := daemon.New(opts.Socket, func() daemon.Client {
				return daemon.NewLocalClient(catalogue.Default(), profile, "")
			})
			defer client.Close()

			effective, err := client.Settings(cmd.Context())
			if err != nil {
				return err
			}
			persisted := config.NewManager(profile).Values()

			if opts.JSONOutput {
				return writeJSON(cmd.OutOrStdout(), effective)
			}

			t := theme.DefaultTheme
			tbl := table.New("Setting", "Value", "Source")
			for _, key := range config.Keys() {
				source := t.Muted.Render("default")
				if _, ok := persisted[key]; ok {
					source = "profile"
				}
				tbl.Row(key, effective[key], source)
			}
			fmt.Fprintln(cmd.OutOrStdout(), tbl.Render())

			prefix := config.StashFilledKey("")
			var filled []string
			for key, value := range persisted {
				if strings.HasPrefix(key, prefix) {
					if ok, _ := strconv.ParseBool(value); ok {
						filled = append(filled, strings.TrimPrefix(key, prefix))
					}
				}
			}
			sort.Strings(filled)
			if len(filled) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Filled STASH units: %s\n", strings.Join(filled, ", "))
			}
			return nil
		},
	}

	cmd.AddCommand(newSettingsSetCmd())
	cmd.AddCommand(newSettingsUnsetCmd())
	cmd.AddCommand(newSettingsImportCmd())
	return cmd
}

// validateSetting checks that key names a setting or a catalogued STASH
// unit and that value is a boolean.
func validateSetting(key, value string) error {
	if unit, ok := strings.CutPrefix(key, config.StashFilledKey("")); ok {
		if _, found := catalogue.Default().StashUnit(unit); !found {
			return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown STASH unit %q", unit)).
				WithDetail("key", key)
		}
	} else if !config.IsKey(key) {
		return errors.New(errors.ErrCodeInvalidInput, fmt.Sprintf("unknown setting %q", key)).
			WithDetail("key", key)
	}
	if value == "" {
		return nil
	}
	if _, err := strconv.ParseBool(value); err != nil {
		return errors.Wrap(err, errors.ErrCodeInvalidInput, fmt.Sprintf("setting %s takes true or false", key))
	}
	return nil
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Persist a setting or STASH fill state",
		Example: `  clueitems settings set TrackGroupStorage true
  clueitems settings set StashUnitFilled.GYPSY_TENT_ENTRANCE true`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			if err := validateSetting(key, value); err != nil {
				return err
			}
			b, _ := strconv.ParseBool(value)

			return withSettings(cmd, func(settings *config.Manager) error {
				return settings.SetConfiguration(key, strconv.FormatBool(b))
			})
		},
	}
}

func newSettingsUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a persisted setting so its default applies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateSetting(args[0], ""); err != nil {
				return err
			}
			return withSettings(cmd, func(settings *config.Manager) error {
				return settings.UnsetConfiguration(args[0])
			})
		},
	}
}

func newSettingsImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Persist every setting of a settings document",
		Long: `Load a YAML or TOML settings document, merged with its override files, and
persist every setting it yields. Without an argument the --config flag or the
nearest clueitems.yml is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cli.GetOptions(cmd)
			if err != nil {
				return err
			}
			file := opts.ConfigFile
			if len(args) == 1 {
				file = args[0]
			}
			file, err = cli.InitConfig(file)
			if err != nil {
				return err
			}
			if file == "" {
				return errors.ConfigNotFound("clueitems.yml")
			}

			return withSettings(cmd, func(settings *config.Manager) error {
				if err := importSettings(file, settings); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Imported settings from %s\n", file)
				return nil
			})
		},
	}
}

// withSettings opens the profile for the duration of fn.
func withSettings(cmd *cobra.Command, fn func(settings *config.Manager) error) error {
	opts, err := cli.GetOptions(cmd)
	if err != nil {
		return err
	}
	profile, closeProfile, err := openProfile(opts)
	if err != nil {
		return err
	}
	defer func() { _ = closeProfile() }()
	return fn(config.NewManager(profile))
}

// importSettings persists the settings of a document. An empty path is a no-op.
func importSettings(path string, settings *config.Manager) error {
	if path == "" {
		return nil
	}
	cfg, err := config.LoadWithOverrides(path)
	if err != nil {
		return err
	}
	return settings.Save(cfg)
}
