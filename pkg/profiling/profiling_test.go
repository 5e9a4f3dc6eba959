package profiling

import (
	"bytes"
	"errors"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeRecordsPhases(t *testing.T) {
	p := New()
	require.NoError(t, p.Time("load", func() error { return nil }))
	boom := errors.New("boom")
	assert.Equal(t, boom, p.Time("replay", func() error { return boom }))

	phases := p.Phases()
	require.Len(t, phases, 2)
	assert.Equal(t, "load", phases[0].Name)
	assert.Equal(t, "replay", phases[1].Name)

	var buf bytes.Buffer
	p.Summarize(&buf)
	assert.Contains(t, buf.String(), "Timing Profile")
	assert.Contains(t, buf.String(), "- replay")
}

func TestAttach(t *testing.T) {
	root := &cobra.Command{Use: "root"}
	p := Attach(root)

	var child *Profiler
	sub := &cobra.Command{
		Use: "sub",
		RunE: func(cmd *cobra.Command, args []string) error {
			child = FromCommand(cmd)
			return child.Time("work", func() error { return nil })
		},
	}
	root.AddCommand(sub)

	dir := t.TempDir()
	var stderr bytes.Buffer
	root.SetErr(&stderr)
	root.SetArgs([]string{"sub", "--timing", "--mem-profile", filepath.Join(dir, "mem.out"), "--cpu-profile", filepath.Join(dir, "cpu.out")})
	require.NoError(t, root.Execute())

	assert.Same(t, p, child)
	assert.Contains(t, stderr.String(), "- work")
	assert.Contains(t, stderr.String(), "CPU profile written")
	assert.FileExists(t, filepath.Join(dir, "mem.out"))
}
