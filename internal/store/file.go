package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

// FileStore persists the token record as a JSON file. The file holds exactly
// one record; every save replaces it. Written with 0600 permissions since it
// contains live credentials.
type FileStore struct {
	path string
}

// NewFileStore creates a FileStore at the given path. Parent directories are
// created on the first save, not here.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the location of the token file.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the token record. A missing file means no record (nil, nil);
// malformed JSON is an error so a corrupted credential is never silently
// treated as absent.
func (s *FileStore) Load(_ context.Context) (*domain.TokenRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	rec := &domain.TokenRecord{}
	if err := json.Unmarshal(data, rec); err != nil {
		return nil, fmt.Errorf("parsing token file %s: %w", s.path, err)
	}
	return rec, nil
}

// Save writes the record, replacing any previous one. There is no lock or
// atomic rename; a concurrent writer can corrupt the file.
func (s *FileStore) Save(_ context.Context, rec *domain.TokenRecord) error {
	if rec == nil {
		return fmt.Errorf("saving token: record is nil")
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating token directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding token record: %w", err)
	}

	if err := os.WriteFile(s.path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// Delete removes the token file. A file that is already gone is fine.
func (s *FileStore) Delete(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}
