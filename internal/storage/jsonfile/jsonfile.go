// Package jsonfile stores the dataset as a single JSON document on the local
// filesystem.
//
// Writes go to a temporary file in the same directory which is synced and
// then renamed over the target. A crash mid-write leaves either the old
// document or the new one.
package jsonfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

var _ storage.Storage = (*Store)(nil)

// Store is a file-backed storage.Storage.
type Store struct {
	path string
}

// New returns a Store for the document at path, creating its directory if needed.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("jsonfile.New: empty path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return nil, fmt.Errorf("jsonfile.New: create dirs: %w", err)
	}
	return &Store{path: path}, nil
}

// Path returns the document location.
func (s *Store) Path() string { return s.path }

// Read loads and decodes the whole document.
func (s *Store) Read(ctx context.Context) (types.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return types.Dataset{}, err
	}
	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return types.Dataset{}, fmt.Errorf("jsonfile.Read: %s: %w", s.path, storage.ErrEmpty)
	}
	if err != nil {
		return types.Dataset{}, fmt.Errorf("jsonfile.Read: %w", err)
	}

	ds, err := storage.Decode(bytes.NewReader(b))
	if err != nil {
		return types.Dataset{}, fmt.Errorf("jsonfile.Read: %s: %w", s.path, err)
	}
	return ds, nil
}

// Write encodes ds and atomically replaces the document.
func (s *Store) Write(ctx context.Context, ds types.Dataset) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	b, err := storage.Encode(ds)
	if err != nil {
		return fmt.Errorf("jsonfile.Write: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tmp-*")
	if err != nil {
		return fmt.Errorf("jsonfile.Write: create temp: %w", err)
	}
	// Removing after a successful rename is a harmless no-op.
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(b); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile.Write: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("jsonfile.Write: sync temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("jsonfile.Write: close temp: %w", err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("jsonfile.Write: chmod temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("jsonfile.Write: rename: %w", err)
	}
	return nil
}

// Close is a no-op; the file is not held open between calls.
func (s *Store) Close() error { return nil }
