// Package session owns the persisted admin session and the auth gate.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/blrlabs/blr-admin/pkg/domain"
)

// Store persists the session between runs.
type Store interface {
	Get() (domain.Session, error)
	Set(domain.Session) error
	Clear() error
}

// FileStore keeps the session as a single 0600 JSON file, the same way
// earlier CLI builds kept a bare token file.
type FileStore struct {
	path string
}

// NewFileStore creates a store backed by the given file path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get reads the persisted session. A missing file is not an error; it
// yields the zero (unauthenticated) session.
func (s *FileStore) Get() (domain.Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Session{}, nil
		}
		return domain.Session{}, fmt.Errorf("read session: %w", err)
	}
	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		// A corrupt session file should not brick the console; treat it
		// as logged out.
		return domain.Session{}, nil
	}
	return sess, nil
}

// Set writes the session, creating the state dir on first use.
func (s *FileStore) Set(sess domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	return nil
}

// Clear removes the session file. Missing files are fine.
func (s *FileStore) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}
