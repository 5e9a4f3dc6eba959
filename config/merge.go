package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/grovetools/clueitems/errors"
)

// overrideFiles lists the override documents applied on top of baseFile.
func overrideFiles(baseFile string) []string {
	dir := filepath.Dir(baseFile)
	base := strings.TrimPrefix(filepath.Base(baseFile), ".")
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	ext := filepath.Ext(base)
	return []string{
		filepath.Join(dir, stem+".override"+ext),
		filepath.Join(dir, "."+stem+".override"+ext),
	}
}

// LoadWithOverrides loads a settings document and merges any override
// documents next to it (clueitems.override.yml for clueitems.yml). Overrides
// replace individual keys and the merged document is validated as a whole.
func LoadWithOverrides(baseFile string) (Config, error) {
	data, err := os.ReadFile(baseFile)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.ConfigNotFound(baseFile)
		}
		return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", baseFile)
	}
	doc, err := parseDocument(data, formatFor(baseFile))
	if err != nil {
		return Config{}, err
	}

	for _, overrideFile := range overrideFiles(baseFile) {
		data, err := os.ReadFile(overrideFile)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return Config{}, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read override file").
				WithDetail("path", overrideFile)
		}
		override, err := parseDocument(data, formatFor(overrideFile))
		if err != nil {
			return Config{}, err
		}
		doc = mergeDocuments(doc, override)
	}

	return decodeDocument(doc)
}

// mergeDocuments returns base with every key of override applied.
func mergeDocuments(base, override map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range override {
		result[k] = v
	}
	return result
}
