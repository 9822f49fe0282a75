package brp

import (
	"errors"
	"fmt"
)

// Sentinel errors identifying each failure kind this package surfaces.
// Callers should compare against these with errors.Is rather than
// type-asserting on StoreError, since every store method wraps its
// errors through wrapError.
var (
	// ErrNotFound indicates a lookup by identifier had no matching row.
	// Store fetch methods report this as a nil result rather than an
	// error; callers that need a failure for a missing lookup (e.g. a CLI
	// command operating on a single named record) wrap this sentinel
	// themselves.
	ErrNotFound = errors.New("brp: not found")

	// ErrUnattachedEntity is returned when an operation requires an
	// entity that has already been persisted (id set) but was given one
	// that has not.
	ErrUnattachedEntity = errors.New("brp: entity has no id")

	// ErrUpdateNotSupported is returned when Update is called on an
	// entity kind that is immutable once created (Hyperplane).
	ErrUpdateNotSupported = errors.New("brp: update not supported for this entity kind")

	// ErrDimensionMismatch is returned when a vector's dimension disagrees
	// with the index's fixed dimension D.
	ErrDimensionMismatch = errors.New("brp: vector dimension mismatch")

	// ErrDegenerateVector is returned when normalizing the zero vector.
	ErrDegenerateVector = errors.New("brp: cannot normalize the zero vector")

	// ErrStoreClosed is returned when a store operation is attempted
	// after Close.
	ErrStoreClosed = errors.New("brp: store is closed")

	// ErrEmptyDataset is returned when a build is attempted with no data,
	// and by KNN when no hyperplanes have been built or loaded.
	ErrEmptyDataset = errors.New("brp: dataset is empty")
)

// StoreError wraps an underlying error with the operation that produced
// it, so error messages stay legible without losing errors.Is/As
// compatibility with the sentinels above.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("brp: %v", e.Err)
	}
	return fmt.Sprintf("brp: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

func (e *StoreError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// wrapError attaches operation context to err. It returns nil unchanged so
// it can be used directly in a return statement.
func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}
