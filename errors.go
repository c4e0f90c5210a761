package store

import (
	"errors"
	"fmt"
)

// Sentinel errors for common failure modes. Absence of a record is not one
// of them: lookups signal a miss with a nil record, never an error.
var (
	// ErrConnection indicates the backend could not be reached.
	ErrConnection = errors.New("store: connection failed")
	// ErrQuery indicates a query could not be executed.
	ErrQuery = errors.New("store: query failed")
	// ErrValidation indicates the caller supplied an invalid descriptor
	// or record.
	ErrValidation = errors.New("store: validation failed")
	// ErrPersist indicates an applied mutation could not be written to
	// durable storage.
	ErrPersist = errors.New("store: persist failed")
	// ErrSerialization indicates a stored value could not be decoded.
	ErrSerialization = errors.New("store: serialization failed")
	// ErrClosed indicates the store has been closed.
	ErrClosed = errors.New("store: closed")
)

// ConnectionError wraps a failure to reach or authenticate with a backend.
type ConnectionError struct {
	Backend string
	Err     error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("store: %s connection failed: %v", e.Backend, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// Is reports ErrConnection so callers can match with errors.Is.
func (e *ConnectionError) Is(target error) bool { return target == ErrConnection }

// NewConnectionError wraps err as a backend connection failure.
func NewConnectionError(backend string, err error) error {
	return &ConnectionError{Backend: backend, Err: err}
}

// QueryError wraps a failed operation against a collection.
type QueryError struct {
	Collection string
	Op         string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("store: %s on %s failed: %v", e.Op, e.Collection, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

func (e *QueryError) Is(target error) bool { return target == ErrQuery }

// NewQueryError wraps err as a failed op against collection.
func NewQueryError(collection, op string, err error) error {
	return &QueryError{Collection: collection, Op: op, Err: err}
}

// ValidationError reports invalid caller input, naming the offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("store: invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// NewValidationError reports an invalid field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// PersistError reports that a mutation was applied in memory but could not
// be written out. The mutation result is still valid; the caller decides
// whether to retry the write.
type PersistError struct {
	Path string
	Err  error
}

func (e *PersistError) Error() string {
	return fmt.Sprintf("store: persisting %s failed: %v", e.Path, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

func (e *PersistError) Is(target error) bool { return target == ErrPersist }

// NewPersistError wraps err as a durable-write failure for path.
func NewPersistError(path string, err error) error {
	return &PersistError{Path: path, Err: err}
}

// SerializationError reports a stored value that could not be decoded.
type SerializationError struct {
	Collection string
	Field      string
	Err        error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("store: decoding %s.%s failed: %v", e.Collection, e.Field, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// NewSerializationError wraps err as a decode failure for a stored field.
func NewSerializationError(collection, field string, err error) error {
	return &SerializationError{Collection: collection, Field: field, Err: err}
}
