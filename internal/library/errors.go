package library

import "errors"

// Common errors returned by the library stores.
var (
	// ErrNotFound indicates an operation named a nonexistent reference,
	// collection or blob id.
	ErrNotFound = errors.New("not found")

	// ErrInvalid indicates a validation failure (empty collection name,
	// unknown publication type).
	ErrInvalid = errors.New("invalid input")

	// ErrNoPDF indicates an operation that needs an attachment was called
	// on a reference without one.
	ErrNoPDF = errors.New("no PDF attached")
)

// IsNotFound reports whether the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}
