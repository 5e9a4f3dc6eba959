package cli

import (
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/logging"
	"github.com/grovetools/clueitems/pkg/paths"
)

// CommandOptions holds common options for clueitems commands. Flags win over
// the environment.
type CommandOptions struct {
	ConfigFile string `env:"CLUEITEMS_CONFIG"`
	Profile    string `env:"CLUEITEMS_PROFILE"`
	Store      string `env:"CLUEITEMS_STORE" envDefault:"file"`
	Socket     string `env:"CLUEITEMS_SOCKET"`
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard flags.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to a settings document (YAML or TOML)")
	cmd.PersistentFlags().StringP("profile", "p", "", "Path to the profile holding settings and STASH fill states")
	cmd.PersistentFlags().String("store", "", "Profile storage: file, sqlite")
	cmd.PersistentFlags().String("socket", "", "Path to the daemon socket")

	SetStyledHelp(cmd)
	return cmd
}

// GetOptions extracts common options from the environment and command flags.
func GetOptions(cmd *cobra.Command) (CommandOptions, error) {
	opts, err := env.ParseAs[CommandOptions]()
	if err != nil {
		return CommandOptions{}, err
	}

	flags := cmd.Flags()
	if v, _ := flags.GetString("config"); v != "" {
		opts.ConfigFile = v
	}
	if v, _ := flags.GetString("profile"); v != "" {
		opts.Profile = v
	}
	if v, _ := flags.GetString("store"); v != "" {
		opts.Store = v
	}
	if v, _ := flags.GetString("socket"); v != "" {
		opts.Socket = v
	}
	opts.Verbose, _ = flags.GetBool("verbose")
	opts.JSONOutput, _ = flags.GetBool("json")

	if opts.Profile == "" {
		opts.Profile = paths.ProfilePath(opts.Store)
	}
	if opts.Socket == "" {
		opts.Socket = paths.SocketPath()
	}
	return opts, nil
}

// GetLogger returns a component logger after applying --verbose and --json
// on top of the logging environment.
func GetLogger(cmd *cobra.Command, component string) *logrus.Entry {
	cfg, err := logging.LoadConfig()
	if err != nil {
		cfg = logging.Config{Level: "info", Format: "text", Stderr: "auto"}
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		cfg.Level = "debug"
	}
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		cfg.Format = "json"
	}
	logging.Reconfigure(cfg)

	return logging.NewLogger(component)
}

// InitConfig resolves the settings document: the given path, or the nearest
// one found from the working directory. An empty result means none exists.
func InitConfig(configFile string) (string, error) {
	if configFile != "" {
		return configFile, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}

	found, err := config.FindConfigFile(cwd)
	if err != nil {
		// No settings document found, that's okay
		return "", nil
	}
	return found, nil
}
