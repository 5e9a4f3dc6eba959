package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/internal/daemon/store"
	"github.com/grovetools/clueitems/progress"
	"github.com/grovetools/clueitems/state"
)

const session = `{"type":"game_state","state":"LOGGED_IN"}
{"type":"container","container_id":93}
{"type":"container","container_id":94}
{"type":"container","container_id":95,"items":[{"id":1635,"quantity":1}]}
{"type":"config","group":"emote-clue-items","key":"HighlightShop","value":"true"}
`

func setupHome(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("CLUEITEMS_HOME", home)
	t.Setenv("CLUEITEMS_LOG_STDERR", "never")
	t.Setenv("CLUEITEMS_LOG_FILE", filepath.Join(home, "test.log"))
	for _, key := range []string{"CLUEITEMS_CONFIG", "CLUEITEMS_PROFILE", "CLUEITEMS_STORE", "CLUEITEMS_SOCKET"} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
	return home
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPaths(t *testing.T) {
	home := setupHome(t)

	out, err := run(t, "paths")
	require.NoError(t, err)

	var got PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, filepath.Join(home, "config"), got.ConfigDir)
	assert.Equal(t, filepath.Join(home, "config", "profile.yml"), got.Profile)
	assert.Equal(t, filepath.Join(home, "run", "clueitemsd.sock"), got.Socket)
}

func TestSchema(t *testing.T) {
	setupHome(t)

	out, err := run(t, "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "filter_in_stash")
	assert.Contains(t, out, "Emote Clue Items Settings")
}

func TestSettingsSetAndUnset(t *testing.T) {
	home := setupHome(t)
	profile := state.NewFile(filepath.Join(home, "config", "profile.yml"))

	_, err := run(t, "settings", "set", "TrackGroupStorage", "yes")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	_, err = run(t, "settings", "set", "TrackGroupStorage", "true")
	require.NoError(t, err)
	v, ok, err := profile.Get("emote-clue-items.TrackGroupStorage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	out, err := run(t, "settings", "--json")
	require.NoError(t, err)
	var effective map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &effective))
	assert.Equal(t, "true", effective["TrackGroupStorage"])
	assert.Equal(t, "false", effective["HighlightShop"])

	_, err = run(t, "settings", "unset", "TrackGroupStorage")
	require.NoError(t, err)
	_, ok, err = profile.Get("emote-clue-items.TrackGroupStorage")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsStashFilled(t *testing.T) {
	home := setupHome(t)

	_, err := run(t, "settings", "set", "StashUnitFilled.NOWHERE", "true")
	require.Error(t, err)

	_, err = run(t, "settings", "set", "StashUnitFilled.GYPSY_TENT_ENTRANCE", "true")
	require.NoError(t, err)

	v, ok, err := state.NewFile(filepath.Join(home, "config", "profile.yml")).
		Get("emote-clue-items.StashUnitFilled.GYPSY_TENT_ENTRANCE")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	out, err := run(t, "settings")
	require.NoError(t, err)
	assert.Contains(t, out, "Filled STASH units: GYPSY_TENT_ENTRANCE")
}

func TestSettingsImport(t *testing.T) {
	setupHome(t)
	doc := writeFile(t, "clueitems.yml", "track_group_storage: true\nhighlight_shop: true\n")

	_, err := run(t, "settings", "import", doc)
	require.NoError(t, err)

	out, err := run(t, "settings", "--json")
	require.NoError(t, err)
	var effective map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &effective))
	assert.Equal(t, "true", effective["TrackGroupStorage"])
	assert.Equal(t, "true", effective["HighlightShop"])

	_, err = run(t, "settings", "import", filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestReplay(t *testing.T) {
	home := setupHome(t)
	recording := writeFile(t, "session.jsonl", session)

	out, err := run(t, "replay", recording, "--json")
	require.NoError(t, err)

	var st store.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	statuses := map[int]progress.Status{}
	for _, row := range st.Items {
		statuses[row.ID] = row.Status
	}
	assert.Equal(t, progress.StatusOwned, statuses[1635])
	assert.Equal(t, progress.StatusMissing, statuses[1654])

	_, err = os.Stat(filepath.Join(home, "config", "profile.yml"))
	assert.True(t, os.IsNotExist(err), "replay without --persist leaves the profile alone")
}

func TestReplayStatusFilterAndPersist(t *testing.T) {
	home := setupHome(t)
	recording := writeFile(t, "session.jsonl", session)

	out, err := run(t, "replay", recording, "--json", "--status", "owned", "--persist")
	require.NoError(t, err)

	var st store.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.Len(t, st.Items, 1)
	assert.Equal(t, 1635, st.Items[0].ID)

	v, ok, err := state.NewFile(filepath.Join(home, "config", "profile.yml")).Get("emote-clue-items.HighlightShop")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, err = run(t, "replay", recording, "--status", "bogus")
	assert.Error(t, err)
}

func TestReplayStrict(t *testing.T) {
	setupHome(t)
	recording := writeFile(t, "session.jsonl", session+"not json\n")

	_, err := run(t, "replay", recording, "--json")
	require.NoError(t, err)

	_, err = run(t, "replay", recording, "--json", "--strict")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeEventDecode))
}

func TestStatusWithoutDaemon(t *testing.T) {
	setupHome(t)
	recording := writeFile(t, "session.jsonl", session)

	out, err := run(t, "status", "--events", recording, "--status", "missing", "--json")
	require.NoError(t, err)

	var st store.State
	require.NoError(t, json.Unmarshal([]byte(out), &st))
	require.NotEmpty(t, st.Items)
	for _, row := range st.Items {
		assert.Equal(t, progress.StatusMissing, row.Status)
	}

	out, err = run(t, "status", "--events", recording)
	require.NoError(t, err)
	assert.Contains(t, out, "Gold ring")
	assert.Contains(t, out, "STASH units")
}

func TestHighlightWithoutDaemon(t *testing.T) {
	setupHome(t)

	out, err := run(t, "highlight", "bank", "1635")
	require.NoError(t, err)
	assert.Equal(t, "true\n", out)

	out, err = run(t, "highlight", "shop", "1635")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = run(t, "highlight", "attic", "1635")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSendRequiresDaemon(t *testing.T) {
	setupHome(t)

	_, err := run(t, "send", `{"type":"tick"}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not running")
}

func TestUnknownStore(t *testing.T) {
	setupHome(t)

	_, err := run(t, "settings", "--store", "cloud")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestSQLiteProfile(t *testing.T) {
	home := setupHome(t)

	_, err := run(t, "settings", "set", "FilterInStash", "false", "--store", "sqlite")
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(home, "config", "profile.db"))
	require.NoError(t, err)

	out, err := run(t, "settings", "--store", "sqlite", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"FilterInStash": "false"`)
}

func TestDaemonStartRequiresFeed(t *testing.T) {
	setupHome(t)

	_, err := run(t, "daemon", "start", "--no-watch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

// startDaemon runs "daemon start" with args and fails the test if it does
// not return on its own.
func startDaemon(t *testing.T, args ...string) error {
	t.Helper()
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"daemon", "start"}, args...))

	done := make(chan error, 1)
	go func() { done <- root.Execute() }()
	select {
	case err := <-done:
		return err
	case <-time.After(10 * time.Second):
		t.Fatal("daemon kept running after its feeds ended")
		return nil
	}
}

func TestDaemonStartReturnsWhenFeedsEnd(t *testing.T) {
	home := setupHome(t)
	recording := writeFile(t, "session.jsonl", session)

	require.NoError(t, startDaemon(t, "--no-watch", "--recording", recording))

	v, ok, err := state.NewFile(filepath.Join(home, "config", "profile.yml")).Get("emote-clue-items.HighlightShop")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	_, err = os.Stat(filepath.Join(home, "state", "clueitemsd.pid"))
	assert.True(t, os.IsNotExist(err), "pidfile released")
}

func TestDaemonStartReturnsFeedError(t *testing.T) {
	setupHome(t)

	err := startDaemon(t, "--no-watch", "--recording", filepath.Join(t.TempDir(), "missing.jsonl"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeFeedFailed))
}
