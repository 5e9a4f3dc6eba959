// Package state persists the plugin profile as a flat key/value file.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/grovetools/clueitems/errors"
)

// State represents the profile as a generic map of key-value pairs.
type State map[string]interface{}

// File is a profile stored at Path. The extension selects the encoding:
// .toml uses TOML, anything else YAML. File satisfies config.Store.
type File struct {
	Path string

	mu sync.Mutex
}

// NewFile returns a profile backed by path.
func NewFile(path string) *File {
	return &File{Path: path}
}

func (f *File) isTOML() bool {
	return strings.EqualFold(filepath.Ext(f.Path), ".toml")
}

// Load loads the state from the profile file.
// Returns an empty state if the file doesn't exist.
func (f *File) Load() (State, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.load()
}

func (f *File) load() (State, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(State), nil
		}
		return nil, errors.ProfileRead(f.Path, fmt.Errorf("read state file: %w", err))
	}

	var state State
	if f.isTOML() {
		err = toml.Unmarshal(data, &state)
	} else {
		err = yaml.Unmarshal(data, &state)
	}
	if err != nil {
		return nil, errors.ProfileRead(f.Path, fmt.Errorf("parse state file: %w", err))
	}

	if state == nil {
		state = make(State)
	}
	return state, nil
}

// Save saves the state to the profile file.
func (f *File) Save(state State) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.save(state)
}

func (f *File) save(state State) error {
	dir := filepath.Dir(f.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.ProfileWrite(f.Path, fmt.Errorf("create state directory: %w", err))
	}

	var (
		data []byte
		err  error
	)
	if f.isTOML() {
		data, err = toml.Marshal(map[string]interface{}(state))
	} else {
		data, err = yaml.Marshal(state)
	}
	if err != nil {
		return errors.ProfileWrite(f.Path, fmt.Errorf("marshal state: %w", err))
	}

	// Write-then-rename so watchers never observe a truncated file.
	tmp := f.Path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return errors.ProfileWrite(f.Path, fmt.Errorf("write state file: %w", err))
	}
	if err := os.Rename(tmp, f.Path); err != nil {
		return errors.ProfileWrite(f.Path, fmt.Errorf("replace state file: %w", err))
	}
	return nil
}

// Get retrieves a value by key, rendered as a string.
func (f *File) Get(key string) (string, bool, error) {
	state, err := f.Load()
	if err != nil {
		return "", false, err
	}
	val, ok := state[key]
	if !ok {
		return "", false, nil
	}
	return stringify(val), true, nil
}

// Set stores a value.
func (f *File) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	state[key] = value
	return f.save(state)
}

// Delete removes a key.
func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	state, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := state[key]; !ok {
		return nil
	}
	delete(state, key)
	return f.save(state)
}

// All returns every key/value pair rendered as strings.
func (f *File) All() (map[string]string, error) {
	state, err := f.Load()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(state))
	for k, v := range state {
		out[k] = stringify(v)
	}
	return out, nil
}

// Keys returns the stored keys in sorted order.
func (s State) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// stringify renders hand-edited values (e.g. unquoted YAML booleans) the way
// they would have been written by Set.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	default:
		return fmt.Sprint(val)
	}
}
