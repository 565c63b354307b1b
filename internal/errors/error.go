package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryConfig   Category = "config"
	CategoryProtocol Category = "protocol"
	CategoryServer   Category = "server"
	CategoryCLI      Category = "cli"
)

// AlertsError is a structured error with a code, a fix suggestion and
// documentation.
type AlertsError struct {
	// Code is a unique error identifier (e.g., "E101").
	Code string

	// Category is the error type (config, protocol, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Field names the config key, frame field or request field at fault.
	Field string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *AlertsError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *AlertsError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is an AlertsError with the same code.
func (e *AlertsError) Is(target error) bool {
	t, ok := target.(*AlertsError)
	return ok && t.Code != "" && t.Code == e.Code
}

// WithField records which field the error is about.
func (e *AlertsError) WithField(field string) *AlertsError {
	e.Field = field
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *AlertsError) WithSuggestion(s string) *AlertsError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *AlertsError) WithDetail(d string) *AlertsError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *AlertsError) Wrap(err error) *AlertsError {
	e.Wrapped = err
	return e
}

// New creates an AlertsError from a registered error code.
func New(code string) *AlertsError {
	template, ok := registry[code]
	if !ok {
		return &AlertsError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &AlertsError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new AlertsError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *AlertsError {
	return &AlertsError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an AlertsError.
func FromError(err error, code string) *AlertsError {
	if err == nil {
		return nil
	}
	var ae *AlertsError
	if stderrors.As(err, &ae) {
		return ae
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, an AlertsError with code.
func HasCode(err error, code string) bool {
	var ae *AlertsError
	for err != nil {
		if !stderrors.As(err, &ae) {
			return false
		}
		if ae.Code == code {
			return true
		}
		err = ae.Wrapped
	}
	return false
}
