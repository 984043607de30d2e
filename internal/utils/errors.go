package utils

import (
	"fmt"
	"strings"
)

// ErrorWithSuggestion wraps an error with a user-friendly suggestion.
type ErrorWithSuggestion struct {
	Err        error
	Suggestion string
}

// Error implements the error interface.
func (e *ErrorWithSuggestion) Error() string {
	return fmt.Sprintf("%s\n\nSuggestion: %s", e.Err.Error(), e.Suggestion)
}

// GetSuggestion returns the suggestion text.
func (e *ErrorWithSuggestion) GetSuggestion() string {
	return e.Suggestion
}

// Unwrap returns the underlying error for error chain support.
func (e *ErrorWithSuggestion) Unwrap() error {
	return e.Err
}

// WrapWithSuggestion wraps an existing error with a suggestion.
func WrapWithSuggestion(err error, suggestion string) error {
	return &ErrorWithSuggestion{
		Err:        err,
		Suggestion: suggestion,
	}
}

// ErrInvalidTaskID returns an error for an id argument that is not an integer.
func ErrInvalidTaskID(arg string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("invalid task id: %q", arg),
		Suggestion: "Task ids are integers; use 'todoapp list' to see them",
	}
}

// ErrUnknownBackend returns an error for a backend name that is not registered.
func ErrUnknownBackend(name string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown backend: %s", name),
		Suggestion: fmt.Sprintf("Valid backends: %s", strings.Join(valid, ", ")),
	}
}

// ErrUnknownExportFormat returns an error for an unsupported export format.
func ErrUnknownExportFormat(format string, valid []string) error {
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("unknown export format: %s", format),
		Suggestion: fmt.Sprintf("Valid formats: %s", strings.Join(valid, ", ")),
	}
}

// ErrBackendUnavailable returns an error when the persistence slot cannot be opened.
func ErrBackendUnavailable(name string, err error) error {
	suggestion := "Check the backend settings in your config file"
	if name == "keyring" {
		suggestion = "Make sure an OS keyring (Secret Service, Keychain, Credential Manager) is running, or pick another backend with --backend"
	}
	return &ErrorWithSuggestion{
		Err:        fmt.Errorf("backend %s is unavailable: %w", name, err),
		Suggestion: suggestion,
	}
}
