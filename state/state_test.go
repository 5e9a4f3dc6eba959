package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileOperations(t *testing.T) {
	for _, name := range []string{"profile.yml", "profile.toml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "nested", name)
			f := NewFile(path)

			t.Run("Load empty state", func(t *testing.T) {
				state, err := f.Load()
				require.NoError(t, err)
				assert.Empty(t, state)
			})

			t.Run("Set and Get", func(t *testing.T) {
				require.NoError(t, f.Set("emote-clue-items.TrackBank", "false"))

				got, ok, err := f.Get("emote-clue-items.TrackBank")
				require.NoError(t, err)
				assert.True(t, ok)
				assert.Equal(t, "false", got)

				_, err = os.Stat(path)
				assert.NoError(t, err, "profile file should be created")
			})

			t.Run("Get non-existent key", func(t *testing.T) {
				got, ok, err := f.Get("non.existent")
				require.NoError(t, err)
				assert.False(t, ok)
				assert.Empty(t, got)
			})

			t.Run("Delete key", func(t *testing.T) {
				require.NoError(t, f.Set("to.delete", "x"))
				require.NoError(t, f.Delete("to.delete"))
				_, ok, err := f.Get("to.delete")
				require.NoError(t, err)
				assert.False(t, ok)

				assert.NoError(t, f.Delete("never.set"))
			})

			t.Run("All", func(t *testing.T) {
				all, err := f.All()
				require.NoError(t, err)
				assert.Equal(t, map[string]string{"emote-clue-items.TrackBank": "false"}, all)
			})
		})
	}
}

func TestHandEditedValuesAreStringified(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yml")
	require.NoError(t, os.WriteFile(path, []byte("emote-clue-items.TrackBank: true\ncount: 3\n"), 0644))

	f := NewFile(path)
	all, err := f.All()
	require.NoError(t, err)
	assert.Equal(t, "true", all["emote-clue-items.TrackBank"])
	assert.Equal(t, "3", all["count"])
}

func TestMalformedProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yml")
	require.NoError(t, os.WriteFile(path, []byte("key: [unclosed"), 0644))

	_, err := NewFile(path).Load()
	assert.Error(t, err)
}
