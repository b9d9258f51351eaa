package kvstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/appetiteclub/apt"
)

// FileStore persists the key-value map as a single JSON snapshot on disk,
// fully rewritten on every mutation. An unreadable or corrupt snapshot is
// treated as empty rather than surfaced as an error, matching the
// degrade-to-defaults contract of the persistence boundary.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
	logger apt.Logger
}

func NewFileStore(path string, logger apt.Logger) *FileStore {
	if logger == nil {
		logger = apt.NewNoopLogger()
	}
	store := &FileStore{
		path:   path,
		values: make(map[string]string),
		logger: logger,
	}
	store.load()
	return store
}

func (s *FileStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Infof("Cannot read %s, starting empty: %v", s.path, err)
		}
		return
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		s.logger.Infof("Corrupt snapshot at %s, starting empty", s.path)
		return
	}
	s.values = values
}

func (s *FileStore) Get(key string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	return value, ok
}

func (s *FileStore) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return s.flush()
}

func (s *FileStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return s.flush()
}

func (s *FileStore) flush() error {
	data, err := json.MarshalIndent(s.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create snapshot dir: %w", err)
		}
	}

	// Write-then-rename so an interrupted write never truncates the
	// previous snapshot.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
