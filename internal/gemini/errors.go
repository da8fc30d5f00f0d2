package gemini

import (
	"errors"
	"fmt"
)

// Common errors returned by the Gemini adapter.
var (
	// ErrInvalidCredential indicates the API key was rejected. The model
	// chain is aborted immediately; retrying other models with a bad key
	// would only mask the real problem.
	ErrInvalidCredential = errors.New("Gemini API key rejected")

	// ErrParse indicates no usable JSON object was found in the model
	// response.
	ErrParse = errors.New("could not parse Gemini response")

	// ErrModelNotFound indicates the requested model does not exist; the
	// chain falls through to the next candidate.
	ErrModelNotFound = errors.New("Gemini model not found")
)

// APIError carries the HTTP status and message of a failed API call.
type APIError struct {
	StatusCode int
	Model      string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("Gemini API error (status %d, model %s): %s", e.StatusCode, e.Model, e.Message)
	}
	return fmt.Sprintf("Gemini API error (status %d, model %s)", e.StatusCode, e.Model)
}

// IsAuthError reports whether the error indicates a credential problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrInvalidCredential) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 400 || apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}
