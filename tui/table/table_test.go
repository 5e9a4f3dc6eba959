package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewRendersRows(t *testing.T) {
	out := New("Item", "Status").
		Row("Bronze platelegs", "owned").
		Row("Iron chainbody", "missing").
		Render()

	assert.Contains(t, out, "Item")
	assert.Contains(t, out, "Bronze platelegs")
	assert.Contains(t, out, "missing")
}

func TestBorderless(t *testing.T) {
	opts := DefaultOptions()
	opts.Bordered = false
	out := NewWithOptions(opts, "A").Row("x").Render()

	assert.NotContains(t, out, "╭")
	assert.Contains(t, out, "x")
}
