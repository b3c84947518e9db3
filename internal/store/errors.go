package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a comment does not exist. Callers match it
// with errors.Is; implementations wrap it with the entity and key.
var ErrNotFound = errors.New("not found")

// WriteError reports a failed write to the underlying storage.
type WriteError struct {
	Op  string // logical operation, e.g. "comment.put"
	Key string // record key: a comment ID, target, or file path
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// ReadError reports a failed or corrupt read from the underlying storage.
// A missing record is ErrNotFound, not a ReadError.
type ReadError struct {
	Op  string
	Key string
	Err error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store: %s %q: %v", e.Op, e.Key, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }
