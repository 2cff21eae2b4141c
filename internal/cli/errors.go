package cli

import (
	"fmt"
)

// NotFoundError indicates a project, todo, or KPI was not found.
type NotFoundError struct {
	Kind string // "project", "todo", or "kpi"
	Key  string // the name or id that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.Key)
}

// DuplicateError indicates a unique key is already in use.
type DuplicateError struct {
	Kind string
	Key  string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

// ValidationError indicates a validation failure. The triggering operation
// is aborted with no partial state change.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}

// RangeError indicates an inverted date range was requested.
type RangeError struct {
	Start string
	End   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("invalid range: start %s is after end %s", e.Start, e.End)
}

// FormatError returns a user-friendly error message.
// It prefixes the error with "error: " for consistent CLI output.
func FormatError(err error) string {
	if err == nil {
		return ""
	}
	return "error: " + err.Error()
}
