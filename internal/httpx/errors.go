package httpx

import (
	"errors"
	"fmt"
)

// NetworkError represents a failed request/response cycle: a transport
// failure, or a response body that could not be parsed. Status-code
// failures use StatusError instead.
//
// RequestID carries the server-echoed request id when one was received
// before the failure, for support diagnostics.
type NetworkError struct {
	Message   string
	RequestID string
	Err       error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	msg := e.Message
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request id %s)", msg, e.RequestID)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusError represents an HTTP response with status >= 400.
type StatusError struct {
	StatusCode int
	URL        string
	RequestID  string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	msg := fmt.Sprintf("HTTP error code: %d", e.StatusCode)
	if e.URL != "" {
		msg += " for " + e.URL
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("%s (request id %s)", msg, e.RequestID)
	}
	return msg
}

// BadRequest reports whether the status falls in the range indicating
// bad requests (400-499).
func (e *StatusError) BadRequest() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// Unauthorized reports whether the server responded with 401.
func (e *StatusError) Unauthorized() bool {
	return e.StatusCode == 401
}

// ServerError reports whether the status falls in the range indicating
// server errors (500-599).
func (e *StatusError) ServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsNetwork reports whether err is any transport-level failure:
// a NetworkError or a StatusError, wrapped or not.
func IsNetwork(err error) bool {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se)
}

// RequestID extracts the server request id from a transport error,
// or "" when the error carries none.
func RequestID(err error) string {
	var ne *NetworkError
	if errors.As(err, &ne) {
		return ne.RequestID
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.RequestID
	}
	return ""
}
