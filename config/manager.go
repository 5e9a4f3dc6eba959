package config

import (
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/grovetools/clueitems/logging"
)

// Store is a flat string key/value store that outlives a session.
type Store interface {
	// Get returns the value and true if found, empty and false otherwise.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Delete(key string) error
	// All returns every stored key/value pair.
	All() (map[string]string, error)
}

// Manager reads and writes plugin settings in a Store under Group. Read
// failures never surface: they degrade to defaults and are logged.
type Manager struct {
	store  Store
	logger *logrus.Entry
}

// NewManager wraps a store.
func NewManager(store Store) *Manager {
	return &Manager{
		store:  store,
		logger: logging.NewLogger("config"),
	}
}

func groupKey(key string) string {
	return Group + "." + key
}

// GetConfiguration returns a raw setting value.
func (m *Manager) GetConfiguration(key string) (string, bool) {
	v, ok, err := m.store.Get(groupKey(key))
	if err != nil {
		m.logger.WithError(err).WithField("key", key).Warn("Failed to read setting, using default")
		return "", false
	}
	return v, ok
}

// SetConfiguration persists a raw setting value.
func (m *Manager) SetConfiguration(key, value string) error {
	return m.store.Set(groupKey(key), value)
}

// UnsetConfiguration removes a setting so its default applies again.
func (m *Manager) UnsetConfiguration(key string) error {
	return m.store.Delete(groupKey(key))
}

// Values returns every raw value stored under Group, keyed without the group prefix.
func (m *Manager) Values() map[string]string {
	all, err := m.store.All()
	if err != nil {
		m.logger.WithError(err).Warn("Failed to read settings, using defaults")
		return map[string]string{}
	}
	prefix := Group + "."
	out := make(map[string]string)
	for k, v := range all {
		if strings.HasPrefix(k, prefix) {
			out[strings.TrimPrefix(k, prefix)] = v
		}
	}
	return out
}

// Load returns the effective settings: persisted values over Defaults.
func (m *Manager) Load() Config {
	return Decode(m.Values(), m.logger)
}

// Save persists every setting of cfg.
func (m *Manager) Save(cfg Config) error {
	for key, value := range Encode(cfg) {
		if err := m.SetConfiguration(key, value); err != nil {
			return err
		}
	}
	return nil
}

// LoadStashFilled returns the persisted filled flag of a unit. Absent or
// malformed values read as not filled.
func (m *Manager) LoadStashFilled(unitID string) bool {
	raw, ok := m.GetConfiguration(StashFilledKey(unitID))
	if !ok {
		return false
	}
	filled, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		m.logger.WithField("unit", unitID).Warnf("Ignoring malformed STASH fill state %q", raw)
		return false
	}
	return filled
}

// SaveStashFilled persists the filled flag of a unit.
func (m *Manager) SaveStashFilled(unitID string, filled bool) error {
	return m.SetConfiguration(StashFilledKey(unitID), strconv.FormatBool(filled))
}
