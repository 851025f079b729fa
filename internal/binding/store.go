package binding

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Store persists the binding snapshot as a single JSON document,
// rewritten wholesale on every mutation. A single mutex serializes all
// access: the load-modify-save cycle inside BindUser is one critical
// section covering both indices, so concurrent binds can never lose a
// mutation or leave a stale reverse entry.
type Store struct {
	path string
	mu   sync.RWMutex
}

// NewStore creates a file-backed Store at the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the file path used by this store.
func (s *Store) Path() string {
	return s.path
}

// Load returns the current snapshot. A missing or unreadable file
// yields an empty snapshot rather than an error.
func (s *Store) Load() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.load()
}

// Save persists the full snapshot, overwriting the previous content.
func (s *Store) Save(snap Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snap)
}

// BindUser runs one load-bind-save transaction under the store lock and
// returns the bind outcome. On a write failure the on-disk snapshot is
// left untouched and the in-memory result is discarded.
func (s *Store) BindUser(userID, newName string) (Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, outcome := Bind(s.load(), userID, newName)
	if err := s.save(next); err != nil {
		return outcome, err
	}
	return outcome, nil
}

func (s *Store) load() Snapshot {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return NewSnapshot()
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return NewSnapshot()
	}
	if snap.ByUserID == nil {
		snap.ByUserID = make(map[string]Record)
	}
	if snap.ByName == nil {
		snap.ByName = make(map[string]string)
	}
	return snap
}

// save writes the snapshot to disk using atomic write (temp file + rename).
func (s *Store) save(snap Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bindings: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create bindings dir: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp bindings file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("rename temp bindings file: %w", err)
	}
	return nil
}
