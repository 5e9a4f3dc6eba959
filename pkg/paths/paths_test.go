package paths

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortableHome(t *testing.T) {
	root := t.TempDir()
	t.Setenv("CLUEITEMS_HOME", root)
	t.Setenv("XDG_RUNTIME_DIR", "/ignored")

	assert.Equal(t, filepath.Join(root, "config"), ConfigDir())
	assert.Equal(t, filepath.Join(root, "state"), StateDir())
	assert.Equal(t, filepath.Join(root, "run"), RuntimeDir())
	assert.Equal(t, filepath.Join(root, "config", "profile.yml"), ProfilePath("file"))
	assert.Equal(t, filepath.Join(root, "config", "profile.db"), ProfilePath("sqlite"))
	assert.Equal(t, filepath.Join(root, "run", "clueitemsd.sock"), SocketPath())
	assert.Equal(t, filepath.Join(root, "state", "clueitemsd.pid"), PidFilePath())
	assert.Equal(t, filepath.Join(root, "state", "clueitemsd.log"), LogPath())

	require.NoError(t, EnsureDirs())
	for _, dir := range []string{ConfigDir(), StateDir(), RuntimeDir(), RecordingsDir()} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestXDGDirs(t *testing.T) {
	t.Setenv("CLUEITEMS_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "/xdg/config")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")

	assert.Equal(t, "/xdg/config/clueitems", ConfigDir())
	assert.Equal(t, "/xdg/state/clueitems", StateDir())
	assert.Equal(t, "/run/user/1000/clueitems", RuntimeDir())
}

func TestRuntimeDirFallsBackToState(t *testing.T) {
	t.Setenv("CLUEITEMS_HOME", "")
	t.Setenv("XDG_STATE_HOME", "/xdg/state")
	t.Setenv("XDG_RUNTIME_DIR", "")

	assert.Equal(t, StateDir(), RuntimeDir())
}

func TestPlatformDefaults(t *testing.T) {
	t.Setenv("CLUEITEMS_HOME", "")
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("XDG_STATE_HOME", "")
	homeDir, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	assert.Equal(t, filepath.Join(homeDir, ".config", "clueitems"), ConfigDir())
	assert.Equal(t, filepath.Join(homeDir, ".local", "state", "clueitems"), StateDir())
}
