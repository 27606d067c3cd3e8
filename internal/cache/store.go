// Package cache persists the tracking state between watcher runs.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ctfwatch/ctfwatch/internal/model"
)

// Store reads and writes the tracking cache at a fixed path. The file is
// a single JSON object mapping event identifier to tracking record,
// rewritten in full on every save. It holds no business logic.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the cache from disk. It never fails the caller: a missing
// file means a first run, and an unreadable or malformed file is treated
// as no prior state after logging a warning.
func (s *Store) Load() model.Cache {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("cache unreadable, starting empty", "path", s.path, "error", err)
		}
		return model.Cache{}
	}

	var c model.Cache
	if err := json.Unmarshal(data, &c); err != nil {
		slog.Warn("cache malformed, starting empty", "path", s.path, "error", err)
		return model.Cache{}
	}
	if c == nil {
		c = model.Cache{}
	}
	return c
}

// Save rewrites the cache file in full. The content goes to a temporary
// file in the same directory first and is renamed over the target, so a
// writer that dies mid-save never corrupts previously committed state.
func (s *Store) Save(c model.Cache) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp cache file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to write temp cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to close temp cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("failed to replace cache file: %w", err)
	}
	return nil
}
