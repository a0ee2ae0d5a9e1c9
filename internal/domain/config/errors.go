package config

import "fmt"

// UserError is an error with a user-facing message and a suggestion for
// fixing it. The CLI shows the message; --verbose adds the underlying error.
type UserError struct {
	Message    string
	Context    string
	Suggestion string
	Underlying error
}

// Error implements the error interface.
func (e *UserError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("%s (at %s)", e.Message, e.Context)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *UserError) Unwrap() error {
	return e.Underlying
}

// NewConfigNotFoundError creates an error for a missing pipeline file.
func NewConfigNotFoundError(path string) *UserError {
	return &UserError{
		Message:    "pipeline file not found",
		Context:    path,
		Suggestion: "run 'depstrap init' to create a starter pipeline",
	}
}

// NewParseError creates an error for an unreadable pipeline file.
func NewParseError(path string, err error) *UserError {
	return &UserError{
		Message:    "pipeline file could not be parsed",
		Context:    path,
		Suggestion: "check the file for syntax errors",
		Underlying: err,
	}
}

// NewUnsupportedFormatError creates an error for an unknown file extension.
func NewUnsupportedFormatError(path string) *UserError {
	return &UserError{
		Message:    "unsupported pipeline file format",
		Context:    path,
		Suggestion: "use a .yaml, .yml, or .toml file",
	}
}

// NewValidationError creates an error for an invalid pipeline.
func NewValidationError(message, suggestion string) *UserError {
	return &UserError{
		Message:    message,
		Suggestion: suggestion,
	}
}
