package store

import (
	"errors"
	"fmt"
)

// StorageError is any persistence-layer failure, tagged with the name of
// the operation that failed. Store operations never partially apply: a
// StorageError means prior state is unchanged from the caller's
// perspective.
type StorageError struct {
	Op  string // failing operation, e.g. "upsert", "delete-group-except"
	Err error
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageError reports whether err is (or wraps) a StorageError.
func IsStorageError(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
