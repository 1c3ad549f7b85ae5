package apiclient

import (
	"errors"
	"fmt"
)

var (
	// ErrNotAuthenticated is returned when an operation needs a signed-in user and there is none
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidInput is returned for malformed ids and other input that cannot be coerced
	ErrInvalidInput = errors.New("invalid input")
)

// NetworkError reports a request that did not complete: transport failure, timeout
// or an unreadable response body.
type NetworkError struct {
	Op  string // Client operation, e.g. "toggle wishlist"
	Err error  // Underlying cause
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network failure: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// RejectedError reports a completed request answered with a non-2xx status
type RejectedError struct {
	Op     string // Client operation
	Status int    // HTTP status code
	Reason string // Server supplied reason, or the status text
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("%s: rejected (%d): %s", e.Op, e.Status, e.Reason)
}

// IsNetworkFailure reports whether err is or wraps a *NetworkError
func IsNetworkFailure(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}

// IsRejected reports whether err is or wraps a *RejectedError
func IsRejected(err error) bool {
	var re *RejectedError
	return errors.As(err, &re)
}

// StatusOf returns the HTTP status of a rejection, or 0 for any other error
func StatusOf(err error) int {
	var re *RejectedError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}
