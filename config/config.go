package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/clueitems/errors"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// Keys returns every setting key in field order.
func Keys() []string {
	t := reflect.TypeOf(Config{})
	keys := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		if key := t.Field(i).Tag.Get("key"); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}

// IsKey reports whether key names a setting.
func IsKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Decode builds settings from raw persisted values over Defaults. Unknown
// keys are ignored; malformed values keep their default and are logged.
func Decode(values map[string]string, logger *logrus.Entry) Config {
	input := make(map[string]interface{}, len(values))
	for _, key := range Keys() {
		raw, ok := values[key]
		if !ok {
			continue
		}
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			if logger != nil {
				logger.WithField("key", key).Warnf("Ignoring malformed setting %q", raw)
			}
			continue
		}
		input[key] = b
	}

	cfg := Defaults()
	if err := decodeInto(&cfg, input, "key"); err != nil {
		if logger != nil {
			logger.WithError(err).Warn("Failed to decode settings, using defaults")
		}
		return Defaults()
	}
	return cfg
}

// Encode renders settings as raw persisted values.
func Encode(cfg Config) map[string]string {
	fields := make(map[string]interface{})
	if err := decodeInto(&fields, cfg, "key"); err != nil {
		// Config only holds bools, so this cannot fail.
		panic(err)
	}
	out := make(map[string]string, len(fields))
	for k, v := range fields {
		out[k] = fmt.Sprint(v)
	}
	return out
}

func decodeInto(target interface{}, input interface{}, tag string) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          tag,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}
	return decoder.Decode(input)
}

// Change is one setting whose effective value differs between two profiles.
type Change struct {
	Key   string
	Value string
}

// Diff compares the effective settings of two raw profiles and returns the
// changed keys in field order.
func Diff(before, after map[string]string) []Change {
	prev := Encode(Decode(before, nil))
	next := Encode(Decode(after, nil))
	var changes []Change
	for _, key := range Keys() {
		if prev[key] != next[key] {
			changes = append(changes, Change{Key: key, Value: next[key]})
		}
	}
	return changes
}

// LoadFile reads a settings document (YAML or TOML by extension), expands
// ${VAR} references, validates it against the settings schema and returns it
// merged over Defaults.
func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.ConfigNotFound(path)
		}
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	return LoadFromBytes(data, formatFor(path))
}

// LoadFromBytes parses a settings document in the given format ("yaml" or "toml").
func LoadFromBytes(data []byte, format string) (Config, error) {
	doc, err := parseDocument(data, format)
	if err != nil {
		return Config{}, err
	}
	return decodeDocument(doc)
}

func parseDocument(data []byte, format string) (map[string]interface{}, error) {
	expanded := expandEnvVars(string(data))

	doc := make(map[string]interface{})
	switch format {
	case "toml":
		if err := toml.Unmarshal([]byte(expanded), &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &doc); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return doc, nil
}

func decodeDocument(doc map[string]interface{}) (Config, error) {
	if err := ValidateDocument(doc); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	cfg := Defaults()
	if err := decodeInto(&cfg, doc, "yaml"); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}
	return cfg, nil
}

func formatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return "toml"
	default:
		return "yaml"
	}
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value, ok := os.LookupEnv(varName); ok && value != "" {
			return value
		}
		return defaultValue
	})
}
