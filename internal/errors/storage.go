package errors

import (
	"errors"
	"fmt"
)

// StorageUnavailableError is returned when the backing database cannot be opened or reached.
type StorageUnavailableError struct {
	Path string
	Err  error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable (%s): %v", e.Path, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// NewStorageUnavailableError wraps err as a StorageUnavailableError for the database at path.
func NewStorageUnavailableError(path string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Path: path, Err: err}
}

// IsStorageUnavailableError reports whether err is a StorageUnavailableError (even when wrapped).
func IsStorageUnavailableError(err error) bool {
	var storageErr *StorageUnavailableError
	return errors.As(err, &storageErr)
}
