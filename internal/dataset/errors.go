package dataset

import "errors"

// Sentinel errors returned by the store. Callers match them with errors.Is;
// the wrapped message carries the offending key.
var (
	// ErrValidation means a required field was blank or zero. When it comes
	// from struct validation the chain also holds validator.ValidationErrors.
	ErrValidation = errors.New("validation failed")

	// ErrConflict means the entry already exists (create) or already holds
	// the incoming values (update).
	ErrConflict = errors.New("conflict")

	// ErrNotFound means no entry matches the natural key.
	ErrNotFound = errors.New("not found")

	// ErrPersist means the backend write failed; in-memory state was not changed.
	ErrPersist = errors.New("persist dataset")
)
