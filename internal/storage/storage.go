// Package storage defines the Storage interface, the contract any document
// backend must satisfy to hold the persisted dataset.
//
// Backends: jsonfile (local file), sqlite, s3 and memory. The store only
// sees this interface; storage.driver in the config picks one.
//
// Every backend moves the WHOLE document: there are no partial reads or
// incremental writes.
package storage

import (
	"context"
	"errors"

	"github.com/aanand-mishra/safety-alerts/internal/types"
)

// ErrEmpty is returned by Read when the backend holds no document yet
// (missing file, empty table, missing object). Callers may seed on it.
var ErrEmpty = errors.New("no document stored")

// Storage is the document transport contract.
type Storage interface {
	// Read returns the full dataset currently stored. A backend with no
	// document returns an error wrapping ErrEmpty.
	Read(ctx context.Context) (types.Dataset, error)

	// Write replaces the stored document with ds. Implementations must
	// not leave a half-written document behind on failure.
	Write(ctx context.Context, ds types.Dataset) error

	// Close releases any connection held by the backend.
	Close() error
}
