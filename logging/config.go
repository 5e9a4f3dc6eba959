package logging

import (
	"github.com/caarlos0/env/v11"
)

// Config defines the logging options read from the environment.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	Level string `env:"CLUEITEMS_LOG_LEVEL" envDefault:"info"`

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	ReportCaller bool `env:"CLUEITEMS_LOG_CALLER"`

	// Format can be "text" (rich text), "simple" (minimal text), or "json".
	Format string `env:"CLUEITEMS_LOG_FORMAT" envDefault:"text"`

	// File, when set, receives a copy of every entry.
	File string `env:"CLUEITEMS_LOG_FILE"`

	// Stderr controls when logs are sent to stderr.
	// Can be "auto" (default), "always", or "never".
	Stderr string `env:"CLUEITEMS_LOG_STDERR" envDefault:"auto"`
}

// FormatConfig controls the text formatter output.
type FormatConfig struct {
	DisableTimestamp bool
	DisableComponent bool
	// Color styles the level and component with the theme. Only set when
	// every line goes to a terminal.
	Color bool
}

// LoadConfig reads the logging options from the environment.
func LoadConfig() (Config, error) {
	return env.ParseAs[Config]()
}
