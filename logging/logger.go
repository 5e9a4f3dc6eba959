// Package logging provides per-component logrus loggers configured from the environment.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	loggersMu sync.Mutex
	// override replaces the environment configuration once Reconfigure ran.
	override *Config
)

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	var cfg Config
	if override != nil {
		cfg = *override
	} else {
		var err error
		if cfg, err = LoadConfig(); err != nil {
			logrus.Warnf("Failed to parse logging environment: %v", err)
		}
	}

	logger := logrus.New()
	Configure(logger, cfg)

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// Reconfigure applies cfg to every component logger, including loggers
// created later.
func Reconfigure(cfg Config) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	override = &cfg
	for _, entry := range loggers {
		Configure(entry.Logger, cfg)
	}
}

// Configure applies cfg to logger: level, caller reporting, formatter and sinks.
func Configure(logger *logrus.Logger, cfg Config) {
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	logger.SetReportCaller(cfg.ReportCaller)

	var writers []io.Writer
	if cfg.File != "" {
		path := expandPath(cfg.File)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			logger.Warnf("Failed to create log directory %s: %v", filepath.Dir(path), err)
		} else if file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644); err != nil {
			logger.Warnf("Failed to open log file %s: %v", path, err)
		} else {
			writers = append(writers, file)
		}
	}

	toStderr := shouldLogToStderr(cfg.Stderr, level)
	if toStderr {
		writers = append(writers, os.Stderr)
	}

	switch cfg.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			Color: toStderr && len(writers) == 1 && isTerminal(),
		}})
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
}

// shouldLogToStderr keeps interactive terminals quiet unless debugging.
func shouldLogToStderr(mode string, level logrus.Level) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	}
	return level >= logrus.DebugLevel || !isTerminal()
}

func isTerminal() bool {
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
