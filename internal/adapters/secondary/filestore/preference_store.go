// Package filestore keeps viewer preferences in a single YAML document on
// local disk, for deployments without a database.
package filestore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/lorrc/kanban-board/internal/core/ports"
)

// document is the on-disk layout: scope -> key -> value.
type document struct {
	Scopes map[string]map[string]string `yaml:"scopes"`
}

// PreferenceStore persists preferences to a YAML file. Every write
// replaces the file atomically so a crash never leaves it half written.
type PreferenceStore struct {
	path string

	mu     sync.RWMutex
	scopes map[string]map[string]string
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)

// Open loads the store at path. A missing file is an empty store.
func Open(path string) (*PreferenceStore, error) {
	s := &PreferenceStore{
		path:   path,
		scopes: make(map[string]map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences %s: %w", path, err)
	}

	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse preferences %s: %w", path, err)
	}
	for scope, values := range doc.Scopes {
		if values != nil {
			s.scopes[scope] = values
		}
	}

	return s, nil
}

// Get returns the value stored under scope and key.
func (s *PreferenceStore) Get(_ context.Context, scope, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.scopes[scope][key]
	return value, ok, nil
}

// SetAll merges values into scope and rewrites the file. On a failed
// write the in-memory state is left unchanged.
func (s *PreferenceStore) SetAll(ctx context.Context, scope string, values map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make(map[string]map[string]string, len(s.scopes)+1)
	for sc, vals := range s.scopes {
		next[sc] = vals
	}
	merged := make(map[string]string, len(next[scope])+len(values))
	for k, v := range next[scope] {
		merged[k] = v
	}
	for k, v := range values {
		merged[k] = v
	}
	next[scope] = merged

	if err := s.write(next); err != nil {
		return err
	}
	s.scopes = next
	return nil
}

func (s *PreferenceStore) write(scopes map[string]map[string]string) error {
	data, err := yaml.Marshal(document{Scopes: scopes})
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create preferences dir: %w", err)
		}
	}

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write preferences %s: %w", s.path, err)
	}
	return nil
}

// Ping reports whether the file's directory is usable.
func (s *PreferenceStore) Ping(_ context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("preferences dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("preferences dir %s is not a directory", filepath.Dir(s.path))
	}
	return nil
}
