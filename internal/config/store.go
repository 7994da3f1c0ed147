// Copyright Ricardo Oliveira 2025.
// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/gcevm/vmctl/internal/errors"
)

// Store holds the flat configuration document for one instance and keeps it
// in sync with its file through explicit Save calls
type Store struct {
	path    string
	created bool
	mu      sync.RWMutex
	doc     map[string]any
}

// Load reads the configuration at path, filling missing keys from Defaults.
// It always returns a usable store. A missing file is created with the
// defaults; an unreadable or malformed file yields the defaults together
// with a config error describing the problem.
func Load(path string) (*Store, error) {
	s := &Store{path: path, doc: Defaults()}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.created = true
		if err := s.Save(); err != nil {
			return s, errors.Config(fmt.Sprintf("error creating config file %s", path), err)
		}
		log.Debug().Str("path", path).Msg("Created default config file")
		return s, nil
	}
	if err != nil {
		return s, errors.Config(fmt.Sprintf("error loading config %s", path), err)
	}

	doc, err := decode(data)
	if err != nil {
		return s, errors.Config(fmt.Sprintf("error loading config %s", path), err)
	}
	s.doc = doc
	return s, nil
}

// decode parses a configuration document and backfills defaults
func decode(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("configuration must be a JSON object")
	}
	for key, value := range Defaults() {
		if _, ok := doc[key]; !ok {
			doc[key] = value
		}
	}
	return doc, nil
}

// Path returns the file backing the store
func (s *Store) Path() string {
	return s.path
}

// Created reports whether Load created the file from defaults
func (s *Store) Created() bool {
	return s.created
}

// Save writes the in-memory document to the file, overwriting it
func (s *Store) Save() error {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.doc, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return errors.OperationFailed("marshal configuration", err)
	}
	if err := writeFileAtomic(s.path, append(data, '\n')); err != nil {
		return errors.OperationFailed("write configuration", err)
	}
	return nil
}

// writeFileAtomic replaces path through a temp file in the same directory,
// so a concurrent reader sees either the old or the new document
func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	name := tmp.Name()
	defer func() { _ = os.Remove(name) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Chmod(0644); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(name, path)
}

// Reload re-reads the file. On failure the current document is kept.
func (s *Store) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return errors.Config(fmt.Sprintf("error reloading config %s", s.path), err)
	}
	doc, err := decode(data)
	if err != nil {
		return errors.Config(fmt.Sprintf("error reloading config %s", s.path), err)
	}
	s.mu.Lock()
	s.doc = doc
	s.mu.Unlock()
	return nil
}

// Get returns the raw value for key
func (s *Store) Get(key string) (any, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.doc[key]
	return v, ok
}

// Set replaces the value for key in memory; call Save to persist it
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc[key] = value
}

// Document returns a copy of the top-level document
func (s *Store) Document() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.doc)
}
