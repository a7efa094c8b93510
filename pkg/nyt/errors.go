package nyt

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a response body lacks the
// {"response": {"docs": [...]}} envelope.
var ErrMalformedResponse = errors.New("response missing docs envelope")

// APIError represents a non-200 response from the Article Search API.
type APIError struct {
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("article search error (status %d): %s: %v",
			e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("article search error (status %d): %s",
		e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *APIError) Unwrap() error {
	return e.Err
}
