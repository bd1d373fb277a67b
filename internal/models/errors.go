package models

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already exists")
	// ErrAuthFailure never says whether the username or the password was wrong.
	ErrAuthFailure = errors.New("invalid credentials")
)

// StorageError reports a failed interaction with the underlying store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// NewStorageError wraps err with the operation that produced it.
func NewStorageError(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}
