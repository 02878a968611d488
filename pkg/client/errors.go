package client

import (
	"errors"
	"fmt"
)

// HTTPError represents a non-2xx HTTP response from the backend. Message
// holds the backend-supplied text when the body was parseable; otherwise
// it is empty and the status code alone describes the failure.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}

// ErrorMessage extracts a human-readable message from err. For HTTP
// failures with a backend-supplied message, that message is returned
// verbatim; everything else falls back to err.Error().
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}
	var httpErr *HTTPError
	if errors.As(err, &httpErr) && httpErr.Message != "" {
		return httpErr.Message
	}
	return err.Error()
}
