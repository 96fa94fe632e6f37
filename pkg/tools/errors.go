package tools

import "fmt"

// UserError is the caller-facing failure of a tool invocation. Its message is
// safe to show to the MCP client as-is.
type UserError struct {
	Message string
	Err     error
}

func (e *UserError) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *UserError) Unwrap() error {
	return e.Err
}

// ValidationError reports arguments that do not satisfy a tool's schema.
// The tool is never executed when validation fails.
type ValidationError struct {
	Tool string
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid arguments for %s: %v", e.Tool, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}
