package tracker

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Store persists the serialized usage window under one well-known key.
// Load returns (nil, nil) when no state exists.
type Store interface {
	Load() ([]byte, error)
	Save(data []byte) error
	Clear() error
}

// FileStore keeps the usage blob in a single JSON file.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to the given path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultFileStore places the blob in the user config directory
// (e.g. ~/.config/tripweave/usage.json).
func DefaultFileStore() (*FileStore, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return nil, fmt.Errorf("resolving user config dir: %w", err)
	}
	return NewFileStore(filepath.Join(dir, "tripweave", "usage.json")), nil
}

func (s *FileStore) Load() ([]byte, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading usage file: %w", err)
	}
	return data, nil
}

func (s *FileStore) Save(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating usage dir: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("writing usage file: %w", err)
	}
	return nil
}

func (s *FileStore) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing usage file: %w", err)
	}
	return nil
}

// MemStore is an in-memory Store for tests.
type MemStore struct {
	data []byte
}

func NewMemStore() *MemStore { return &MemStore{} }

func (s *MemStore) Load() ([]byte, error) {
	if s.data == nil {
		return nil, nil
	}
	out := make([]byte, len(s.data))
	copy(out, s.data)
	return out, nil
}

func (s *MemStore) Save(data []byte) error {
	s.data = make([]byte, len(data))
	copy(s.data, data)
	return nil
}

func (s *MemStore) Clear() error {
	s.data = nil
	return nil
}
