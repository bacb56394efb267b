// Package settings provides a YAML-backed reactive key-value store.
//
// A Store is a property-change source: every key is a property, and
// Set, Delete, and file reloads raise binding.PropertyChange
// notifications for the keys whose values changed. Register listeners
// directly with AddPropertyListener, or route changes through a
// binding.Manager.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/go-drift/bind/pkg/binding"
)

// Store is a reactive settings store persisted as a YAML file.
// It is thread-safe.
type Store struct {
	binding.ObservableObject

	path string

	mu     sync.RWMutex
	values map[string]any
}

// NewStore creates a store backed by the given file path.
// The file is not read until Load is called.
func NewStore(path string) *Store {
	return &Store{
		path:   path,
		values: make(map[string]any),
	}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Source returns the store's property-change source, for registration
// with a binding.Manager.
func (s *Store) Source() *binding.ObservableObject {
	return &s.ObservableObject
}

// Load reads the backing file and replaces the store's contents.
// A missing file is not an error; it loads as empty. One change is
// raised per key whose value differs from the previous contents,
// including keys that disappeared (with a nil value).
func (s *Store) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.applySnapshot(make(map[string]any))
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", s.path, err)
	}

	values := make(map[string]any)
	if err := yaml.Unmarshal(data, &values); err != nil {
		return fmt.Errorf("failed to parse %s: %w", s.path, err)
	}

	s.applySnapshot(values)
	return nil
}

// Save writes the store's contents to the backing file atomically
// (temp file, then rename).
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := yaml.Marshal(s.values)
	s.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".settings-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace %s: %w", s.path, err)
	}
	return nil
}

// Get returns the raw value for a key.
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.values[key]
	return value, ok
}

// GetString returns the value for a key if it is a string.
func (s *Store) GetString(key string) (string, bool) {
	value, ok := s.Get(key)
	if !ok {
		return "", false
	}
	str, ok := value.(string)
	return str, ok
}

// GetInt returns the value for a key coerced to int.
// YAML decodes numbers as int, int64, or float64 depending on content.
func (s *Store) GetInt(key string) (int, bool) {
	value, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := value.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// GetFloat returns the value for a key coerced to float64.
func (s *Store) GetFloat(key string) (float64, bool) {
	value, ok := s.Get(key)
	if !ok {
		return 0, false
	}
	switch n := value.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// GetBool returns the value for a key if it is a bool.
func (s *Store) GetBool(key string) (bool, bool) {
	value, ok := s.Get(key)
	if !ok {
		return false, false
	}
	b, ok := value.(bool)
	return b, ok
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.RLock()
	keys := make([]string, 0, len(s.values))
	for key := range s.values {
		keys = append(keys, key)
	}
	s.mu.RUnlock()
	sort.Strings(keys)
	return keys
}

// Len returns the number of stored keys.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.values)
}

// Set stores a value and raises a change for the key.
// Storing a value equal to the current one raises nothing.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	old, had := s.values[key]
	if had && reflect.DeepEqual(old, value) {
		s.mu.Unlock()
		return
	}
	s.values[key] = value
	s.mu.Unlock()

	s.NotifyChange(binding.PropertyChange{Name: key, Value: value})
}

// Delete removes a key and raises a change with a nil value.
// Deleting an absent key is a no-op.
func (s *Store) Delete(key string) {
	s.mu.Lock()
	if _, ok := s.values[key]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.values, key)
	s.mu.Unlock()

	s.NotifyChange(binding.PropertyChange{Name: key})
}

// applySnapshot replaces the store's contents and raises one change per
// key whose value differs, in sorted key order for determinism.
func (s *Store) applySnapshot(next map[string]any) {
	s.mu.Lock()
	changed := make([]binding.PropertyChange, 0)
	for key, value := range next {
		if old, ok := s.values[key]; !ok || !reflect.DeepEqual(old, value) {
			changed = append(changed, binding.PropertyChange{Name: key, Value: value})
		}
	}
	for key := range s.values {
		if _, ok := next[key]; !ok {
			changed = append(changed, binding.PropertyChange{Name: key})
		}
	}
	s.values = next
	s.mu.Unlock()

	sort.Slice(changed, func(i, j int) bool { return changed[i].Name < changed[j].Name })
	for _, change := range changed {
		s.NotifyChange(change)
	}
}
