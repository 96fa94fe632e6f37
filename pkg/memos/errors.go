package memos

import "fmt"

// Error is the single error kind returned by Client operations.
// It does not distinguish transport failures, HTTP status errors or
// malformed responses; the message names the operation that failed.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(message string) *Error {
	return &Error{Message: message}
}

// wrapError prefixes cause with the purpose of the failed operation,
// e.g. "Error creating memo: <cause>".
func wrapError(purpose string, cause error) *Error {
	return &Error{
		Message: fmt.Sprintf("Error %s: %v", purpose, cause),
		Err:     cause,
	}
}

// StatusError describes a non-2xx response from the service.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return fmt.Sprintf("request failed with status code %d: %s", e.StatusCode, e.Body)
}
