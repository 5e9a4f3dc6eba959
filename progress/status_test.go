package progress

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusNames(t *testing.T) {
	for _, s := range []Status{StatusUnknown, StatusMissing, StatusOwned} {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	assert.Equal(t, "status(7)", Status(7).String())

	_, err := ParseStatus("collected")
	assert.Error(t, err)
}

func TestItemStateJSON(t *testing.T) {
	data, err := json.Marshal(ItemState{Quantity: 2, Status: StatusOwned})
	require.NoError(t, err)
	assert.JSONEq(t, `{"quantity":2,"status":"owned"}`, string(data))

	var state ItemState
	require.NoError(t, json.Unmarshal([]byte(`{"quantity":0,"status":"missing"}`), &state))
	assert.Equal(t, ItemState{Status: StatusMissing}, state)
}
