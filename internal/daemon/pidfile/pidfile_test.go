package pidfile

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/testutil"
)

func TestAcquireAndRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "clueitems.pid")

	require.NoError(t, Acquire(path))
	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)

	running, got, err := IsRunning(path)
	require.NoError(t, err)
	assert.True(t, running)
	assert.Equal(t, os.Getpid(), got)

	// Re-acquiring from the same process is allowed.
	require.NoError(t, Acquire(path))

	require.NoError(t, Release(path))
	require.NoError(t, Release(path))

	running, _, err = IsRunning(path)
	require.NoError(t, err)
	assert.False(t, running)
}

func TestAcquireReplacesStaleFile(t *testing.T) {
	dir := t.TempDir()
	// PIDs are capped well below this on Linux and macOS.
	path := testutil.WriteFile(t, dir, "clueitems.pid", strconv.Itoa(1<<30))

	require.NoError(t, Acquire(path))
	pid, err := Read(path)
	require.NoError(t, err)
	assert.Equal(t, os.Getpid(), pid)
}

func TestAcquireFailsWhileOwnerAlive(t *testing.T) {
	// The parent of the test binary is alive for the duration of the test.
	path := testutil.WriteFile(t, t.TempDir(), "clueitems.pid", strconv.Itoa(os.Getppid()))

	err := Acquire(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestIsAlive(t *testing.T) {
	assert.True(t, IsAlive(os.Getpid()))
	assert.False(t, IsAlive(0))
	assert.False(t, IsAlive(-1))
}

func TestReadInvalid(t *testing.T) {
	path := testutil.WriteFile(t, t.TempDir(), "clueitems.pid", "not a pid")
	_, err := Read(path)
	assert.Error(t, err)

	_, _, err = IsRunning(path)
	assert.Error(t, err)
}
