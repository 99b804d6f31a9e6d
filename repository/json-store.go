package repository

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

var _ Store = (*JSONStore)(nil)

// JSONStore persists the data as a human-readable JSON file per repository in dir.
// It is not schema aware and uses the standard go marshalling.
// CAUTION: if a struct changes, data written by an older version can get lost.
type JSONStore struct {
	dir string

	mu sync.Mutex
}

func NewJSONStore(dir string) (*JSONStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: could not create dir %s: %w", ErrStore, dir, err)
	}

	return &JSONStore{dir: dir, mu: sync.Mutex{}}, nil
}

// Store replaces the file atomically, so a crash never leaves a half written file behind.
func (s *JSONStore) Store(fileName string, data any) error {
	if data == nil {
		return nil
	}

	b, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err) //nolint:errorlint // prevent err in api
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(s.dir, fileName+".*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err) //nolint:errorlint // prevent err in api
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // file is gone after a successful rename

	if _, err = tmp.Write(b); err != nil {
		_ = tmp.Close()

		return fmt.Errorf("%w: %v", ErrStore, err) //nolint:errorlint // prevent err in api
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err) //nolint:errorlint // prevent err in api
	}

	if err = os.Rename(tmp.Name(), filepath.Join(s.dir, fileName)); err != nil {
		return fmt.Errorf("%w: %v", ErrStore, err) //nolint:errorlint // prevent err in api
	}

	return nil
}

// Load returns an error wrapping os.ErrNotExist, if nothing was stored under fileName yet.
func (s *JSONStore) Load(fileName string, data any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(filepath.Join(s.dir, fileName))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLoad, err)
	}
	defer f.Close()

	if err = json.NewDecoder(f).Decode(data); err != nil {
		return fmt.Errorf("%w: %v", ErrLoad, err) //nolint:errorlint // prevent err in api
	}

	return nil
}
