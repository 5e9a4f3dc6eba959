package profiledb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/grovetools/clueitems/config"
	"github.com/grovetools/clueitems/errors"
)

func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles", "default.db")
	s, err := OpenSQLite(path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestStoreRoundTrip(t *testing.T) {
	s, _ := openTestStore(t)

	_, ok, err := s.Get("emote-clue-items.TrackBank")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set("emote-clue-items.TrackBank", "false"))
	require.NoError(t, s.Set("emote-clue-items.TrackBank", "true"))
	require.NoError(t, s.Set("emote-clue-items.StashUnitFilled.LIMESTONE_MINE", "true"))

	v, ok, err := s.Get("emote-clue-items.TrackBank")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "true", v)

	all, err := s.All()
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"emote-clue-items.TrackBank":                     "true",
		"emote-clue-items.StashUnitFilled.LIMESTONE_MINE": "true",
	}, all)

	require.NoError(t, s.Delete("emote-clue-items.TrackBank"))
	require.NoError(t, s.Delete("emote-clue-items.TrackBank"))
	_, ok, err = s.Get("emote-clue-items.TrackBank")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	s, path := openTestStore(t)
	m := config.NewManager(s)
	require.NoError(t, m.SaveStashFilled("SHANTAY_PASS", true))
	require.NoError(t, s.Close())

	reopened, err := OpenSQLite(path)
	require.NoError(t, err)
	defer reopened.Close()

	assert.True(t, config.NewManager(reopened).LoadStashFilled("SHANTAY_PASS"))
}

func TestOpenSQLiteRequiresPath(t *testing.T) {
	_, err := OpenSQLite("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestStoreImplementsConfigStore(t *testing.T) {
	var _ config.Store = (*Store)(nil)
}
