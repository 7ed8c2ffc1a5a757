// Package state persists small JSON-backed preference blobs under the
// .tally data directory. It keeps a typed value in memory and mirrors
// every change to disk, so preferences survive restarts without a schema.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store keeps one typed value in memory and on disk.
type Store[T any] struct {
	mu       sync.RWMutex
	data     T
	path     string
	defaults T
}

// NewStore creates a store backed by path, loading the file if it exists.
// A missing or corrupt file silently yields the defaults; preferences are
// never worth failing startup over.
func NewStore[T any](path string, defaults T) *Store[T] {
	s := &Store[T]{
		path:     path,
		defaults: defaults,
		data:     defaults,
	}
	s.load()
	return s
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Set replaces the value and persists it.
func (s *Store[T]) Set(data T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	return s.save()
}

// Update applies fn to the value and persists the result.
func (s *Store[T]) Update(fn func(T) T) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = fn(s.data)
	return s.save()
}

// Clear resets to defaults and removes the file.
func (s *Store[T]) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = s.defaults
	err := os.Remove(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *Store[T]) load() {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		s.data = s.defaults
	}
}

// save writes to a temp file and renames it over the target, so a crash
// mid-write never leaves a truncated file.
func (s *Store[T]) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	raw, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
