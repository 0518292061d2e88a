package credstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// FileStore persists the credential pair as a single JSON file. The file is
// written atomically (temp file + rename) with 0600 permissions; the parent
// directory is created on first save.
//
// FileStore is the default backend: it survives process restarts the way
// browser storage survives a page reload.
type FileStore struct {
	path string
}

// NewFileStore describes the newfilestore operation and its observable behavior.
//
// NewFileStore does not touch the filesystem; all I/O happens in Save/Load/Clear.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("credstore: file path required")
	}
	return &FileStore{path: path}, nil
}

// Save writes the pair to disk, replacing any previous pair.
func (s *FileStore) Save(ctx context.Context, pair Pair) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(pair)
	if err != nil {
		return fmt.Errorf("credstore: encode pair: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("credstore: create directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".credentials-*")
	if err != nil {
		return fmt.Errorf("credstore: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("credstore: replace credentials file: %w", err)
	}
	return nil
}

// Load reads the stored pair. A missing, unreadable, or corrupted file is
// reported as (nil, nil): the caller treats it as no session.
func (s *FileStore) Load(ctx context.Context) (*Pair, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		// Any read failure means the session is unrecoverable from disk;
		// re-authentication is cheaper than surfacing fs errors upward.
		return nil, nil
	}
	var pair Pair
	if err := json.Unmarshal(data, &pair); err != nil {
		return nil, nil
	}
	if !pair.Valid() {
		return nil, nil
	}
	return &pair, nil
}

// Clear removes the credentials file. Clearing an absent file is not an error.
func (s *FileStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("credstore: remove credentials file: %w", err)
	}
	return nil
}
