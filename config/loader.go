package config

import (
	"os"
	"path/filepath"

	"github.com/grovetools/clueitems/errors"
)

// settingsFileNames are searched in order in every directory.
var settingsFileNames = []string{
	"clueitems.yml",
	"clueitems.yaml",
	"clueitems.toml",
	".clueitems.yml",
	".clueitems.yaml",
	".clueitems.toml",
}

// FindConfigFile searches for a settings document starting from startDir and
// walking up to the filesystem root. The user config directory
// (e.g. ~/.config/clueitems/) is checked last.
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		if path, ok := findInDir(dir); ok {
			return path, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	if userDir, err := os.UserConfigDir(); err == nil {
		if path, ok := findInDir(filepath.Join(userDir, "clueitems")); ok {
			return path, nil
		}
	}

	return "", errors.ConfigNotFound(startDir)
}

func findInDir(dir string) (string, bool) {
	for _, name := range settingsFileNames {
		path := filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && !info.IsDir() {
			return path, true
		}
	}
	return "", false
}

// LoadDefault finds the nearest settings document from the working directory
// and loads it with its overrides.
func LoadDefault() (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigNotFound, "failed to get working directory")
	}
	path, err := FindConfigFile(cwd)
	if err != nil {
		return Config{}, err
	}
	return LoadWithOverrides(path)
}
