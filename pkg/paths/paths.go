// Package paths provides XDG-compliant path resolution for clueitems.
//
// Resolution order:
// 1. CLUEITEMS_HOME (portable root) → $CLUEITEMS_HOME/{config,state,run}
// 2. XDG env vars → $XDG_*_HOME/clueitems
// 3. Platform defaults → ~/.config/clueitems, ~/.local/state/clueitems
package paths

import (
	"os"
	"path/filepath"
)

const appName = "clueitems"

func home(sub string) (string, bool) {
	if root := os.Getenv("CLUEITEMS_HOME"); root != "" {
		return filepath.Join(root, sub), true
	}
	return "", false
}

func xdg(envVar string, fallback ...string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return filepath.Join(dir, appName)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append(append([]string{homeDir}, fallback...), appName)...)
}

// ConfigDir holds the settings document and the profile.
func ConfigDir() string {
	if dir, ok := home("config"); ok {
		return dir
	}
	return xdg("XDG_CONFIG_HOME", ".config")
}

// StateDir holds logs, the PID file and recorded sessions.
func StateDir() string {
	if dir, ok := home("state"); ok {
		return dir
	}
	return xdg("XDG_STATE_HOME", ".local", "state")
}

// RuntimeDir returns the directory for the daemon socket.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if dir, ok := home("run"); ok {
		return dir
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// ProfilePath returns the default profile for a store kind: "sqlite" uses a
// database, anything else a YAML file.
func ProfilePath(storeKind string) string {
	if storeKind == "sqlite" {
		return filepath.Join(ConfigDir(), "profile.db")
	}
	return filepath.Join(ConfigDir(), "profile.yml")
}

// SocketPath returns the path to the daemon unix socket.
func SocketPath() string {
	return filepath.Join(RuntimeDir(), "clueitemsd.sock")
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "clueitemsd.pid")
}

// LogPath returns the default daemon log file.
func LogPath() string {
	return filepath.Join(StateDir(), "clueitemsd.log")
}

// RecordingsDir holds recorded sessions.
func RecordingsDir() string {
	return filepath.Join(StateDir(), "recordings")
}

// EnsureDirs creates all clueitems directories if they don't exist.
func EnsureDirs() error {
	for _, dir := range []string{ConfigDir(), StateDir(), RuntimeDir(), RecordingsDir()} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
