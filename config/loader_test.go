package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/errors"
	"github.com/grovetools/clueitems/testutil"
)

func TestFindConfigFile(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "clueitems.yml", "track_bank: false\n")
	nested := filepath.Join(root, "a", "b")
	testutil.WriteFile(t, nested, "README.md", "nothing here")

	found, err := FindConfigFile(nested)
	require.NoError(t, err)
	assert.Equal(t, path, found)
}

func TestFindConfigFilePrefersNearest(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "clueitems.yml", "track_bank: false\n")
	nearest := testutil.WriteFile(t, filepath.Join(root, "child"), ".clueitems.toml", "track_bank = true\n")

	found, err := FindConfigFile(filepath.Join(root, "child"))
	require.NoError(t, err)
	assert.Equal(t, nearest, found)
}

func TestLoadWithOverrides(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteFile(t, dir, "clueitems.yml", "track_bank: false\ntrack_group_storage: true\n")
	testutil.WriteFile(t, dir, "clueitems.override.yml", "track_bank: true\nhighlight_shop: true\n")

	cfg, err := LoadWithOverrides(base)
	require.NoError(t, err)
	assert.True(t, cfg.TrackBank, "override wins")
	assert.True(t, cfg.TrackGroupStorage, "base key kept")
	assert.True(t, cfg.HighlightShop, "override adds keys")
}

func TestLoadWithOverridesValidatesMergedDocument(t *testing.T) {
	dir := t.TempDir()
	base := testutil.WriteFile(t, dir, "clueitems.toml", "track_bank = false\n")
	testutil.WriteFile(t, dir, "clueitems.override.toml", "track_bank = \"nope\"\n")

	_, err := LoadWithOverrides(base)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}

func TestLoadWithOverridesMissingFile(t *testing.T) {
	_, err := LoadWithOverrides(filepath.Join(t.TempDir(), "clueitems.yml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.WriteFile(t, dir, "settings.yaml", "notify_unopened_interfaces: false\n")

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.NotifyUnopenedInterfaces)

	_, err = LoadFile(filepath.Join(dir, "absent.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}
