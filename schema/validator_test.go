package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "properties": {
    "track_bank": {"type": "boolean"}
  },
  "additionalProperties": false
}`

func TestValidator(t *testing.T) {
	v, err := NewValidator("test.json", []byte(testSchema))
	require.NoError(t, err)

	assert.NoError(t, v.Validate(map[string]interface{}{"track_bank": true}))
	assert.NoError(t, v.Validate(map[string]interface{}{}))

	err = v.Validate(map[string]interface{}{"track_bank": "yes"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "/track_bank")

	err = v.Validate(map[string]interface{}{"track_attic": true})
	assert.Error(t, err)
}

func TestNewValidatorRejectsInvalidSchema(t *testing.T) {
	_, err := NewValidator("broken.json", []byte(`{"type": 12}`))
	assert.Error(t, err)
}
