// Package memory is a storage.Storage that keeps the document in process.
// Nothing survives a restart; it backs the "memory" driver and tests.
package memory

import (
	"bytes"
	"context"
	"fmt"
	"sync"

	"github.com/aanand-mishra/safety-alerts/internal/storage"
	"github.com/aanand-mishra/safety-alerts/internal/types"
)

var _ storage.Storage = (*Store)(nil)

type Store struct {
	mu  sync.Mutex
	doc []byte
}

// New returns an empty store. Pass a dataset to start pre-populated.
func New(initial ...types.Dataset) (*Store, error) {
	s := &Store{}
	if len(initial) > 0 {
		if err := s.Write(context.Background(), initial[0]); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Read decodes the last written document. Storing encoded bytes keeps
// callers from sharing slices with the store.
func (s *Store) Read(ctx context.Context) (types.Dataset, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.doc == nil {
		return types.Dataset{}, fmt.Errorf("memory.Read: %w", storage.ErrEmpty)
	}
	return storage.Decode(bytes.NewReader(s.doc))
}

func (s *Store) Write(ctx context.Context, ds types.Dataset) error {
	b, err := storage.Encode(ds)
	if err != nil {
		return fmt.Errorf("memory.Write: %w", err)
	}

	s.mu.Lock()
	s.doc = b
	s.mu.Unlock()
	return nil
}

func (s *Store) Close() error { return nil }
