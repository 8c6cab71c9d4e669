package storage

import (
	"errors"
	"fmt"
)

var (
	ErrFileNotFound       = errors.New("export file not found")
	ErrInvalidKey         = errors.New("invalid export key")
	ErrStorageUnavailable = errors.New("export source unavailable")
	ErrTimeout            = errors.New("export source timeout")
)

// StorageError records which source operation failed on which export file
type StorageError struct {
	Op        string
	Key       string
	Err       error
	Retryable bool
}

func (e *StorageError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err for operation op on key
func NewStorageError(op, key string, err error, retryable bool) *StorageError {
	return &StorageError{Op: op, Key: key, Err: err, Retryable: retryable}
}

// IsNotFound reports whether err means the export file does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, ErrFileNotFound)
}

// IsRetryable reports whether another attempt may succeed. A *StorageError decides for itself;
// bare errors are retryable when they are unavailability or timeouts.
func IsRetryable(err error) bool {
	var storageErr *StorageError
	if errors.As(err, &storageErr) {
		return storageErr.Retryable
	}
	return errors.Is(err, ErrStorageUnavailable) || errors.Is(err, ErrTimeout)
}
