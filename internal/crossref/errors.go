package crossref

import (
	"errors"
	"fmt"
)

// Common errors returned by the CrossRef adapter.
var (
	// ErrInvalidDOI indicates the input does not match the DOI grammar.
	// Returned before any network call is made.
	ErrInvalidDOI = errors.New("invalid DOI")

	// ErrLookup indicates the registry was unreachable, returned a
	// non-success status, or had no work record for the DOI.
	ErrLookup = errors.New("DOI lookup failed")
)

// APIError carries the HTTP status of a failed registry request.
type APIError struct {
	StatusCode int
	DOI        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("CrossRef returned status %d for %s", e.StatusCode, e.DOI)
}

func (e *APIError) Unwrap() error {
	return ErrLookup
}

// IsNotFound reports whether the error indicates the registry has no record
// for the DOI (as opposed to being unreachable).
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == 404
}
