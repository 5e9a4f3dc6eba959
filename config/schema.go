package config

import (
	"encoding/json"
	"sync"

	"github.com/invopop/jsonschema"

	"github.com/grovetools/clueitems/schema"
)

var (
	validatorOnce sync.Once
	validator     *schema.Validator
	validatorErr  error
)

// GenerateSchema generates the JSON Schema of a settings document.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		FieldNameTag:               "yaml",
		RequiredFromJSONSchemaTags: true,
	}

	s := r.Reflect(&Config{})
	s.Title = "Emote Clue Items Settings"
	s.Description = "Settings for emote clue item tracking and highlighting."
	s.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(s, "", "  ")
}

// ValidateDocument validates a decoded settings document against the schema.
func ValidateDocument(doc map[string]interface{}) error {
	validatorOnce.Do(func() {
		data, err := GenerateSchema()
		if err != nil {
			validatorErr = err
			return
		}
		validator, validatorErr = schema.NewValidator("settings.json", data)
	})
	if validatorErr != nil {
		return validatorErr
	}
	return validator.Validate(doc)
}
