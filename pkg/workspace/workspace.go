// Package workspace tracks the documents a user has recently worked on.
//
// The recent list backs the `panelize recent` command and the document
// picker of the preview server. It is stored as a single JSON file in the
// user config directory, so it survives across CLI invocations without any
// daemon or database.
package workspace

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"
)

// MaxEntries caps the recent list. The oldest entries are dropped first.
const MaxEntries = 20

// Entry records one recently opened document.
type Entry struct {
	Path       string    `json:"path"`
	Name       string    `json:"name"`
	LastOpened time.Time `json:"last_opened"`
}

// Store is a file-backed recent-documents list.
// Safe for concurrent use within a process; the file itself is rewritten
// atomically enough for a single-user CLI.
type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore creates a recent-documents store.
// If baseDir is empty, defaults to ~/.config/panelize/
func NewStore(baseDir string) (*Store, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		baseDir = filepath.Join(home, ".config", "panelize")
	}
	if err := os.MkdirAll(baseDir, 0700); err != nil {
		return nil, fmt.Errorf("create config dir: %w", err)
	}
	return &Store{path: filepath.Join(baseDir, "recent.json")}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

// Touch records that the document at path was opened now.
// The path is stored absolute so the list works from any directory.
func (s *Store) Touch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	name := filepath.Base(abs)
	if ext := filepath.Ext(name); ext != "" {
		name = name[:len(name)-len(ext)]
	}

	updated := []Entry{{Path: abs, Name: name, LastOpened: time.Now()}}
	for _, e := range entries {
		if e.Path == abs {
			continue
		}
		updated = append(updated, e)
	}
	if len(updated) > MaxEntries {
		updated = updated[:MaxEntries]
	}
	return s.save(updated)
}

// List returns the recent entries, most recently opened first.
func (s *Store) List() ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, err
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].LastOpened.After(entries[j].LastOpened)
	})
	return entries, nil
}

// Remove drops the entry for path, if present.
func (s *Store) Remove(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %w", path, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}
	kept := entries[:0]
	for _, e := range entries {
		if e.Path != abs {
			kept = append(kept, e)
		}
	}
	return s.save(kept)
}

// Prune drops entries whose documents no longer exist on disk and
// returns how many were removed.
func (s *Store) Prune() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return 0, err
	}
	kept := entries[:0]
	for _, e := range entries {
		if _, statErr := os.Stat(e.Path); statErr == nil {
			kept = append(kept, e)
		}
	}
	removed := len(entries) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	return removed, s.save(kept)
}

func (s *Store) load() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read recent list: %w", err)
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt list is not worth failing a command over.
		return nil, nil
	}
	return entries, nil
}

func (s *Store) save(entries []Entry) error {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal recent list: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write recent list: %w", err)
	}
	return nil
}
