package model

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies export failures
type ErrorKind string

const (
	KindAuthenticationFailed ErrorKind = "authentication_failed"
	KindNotFound             ErrorKind = "not_found"
	KindConflict             ErrorKind = "conflict"
	KindUpstreamHTTP         ErrorKind = "upstream_http_error"
	KindTransport            ErrorKind = "transport_error"
	KindInternal             ErrorKind = "internal_error"
	KindUnexpected           ErrorKind = "unexpected"
)

// ExportError is a failure of one export step.
// Status mirrors the upstream status code when there is one.
type ExportError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Body    string
	Cause   error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewAuthError creates an error for a rejected upstream login
func NewAuthError(status int, message string) *ExportError {
	return &ExportError{Kind: KindAuthenticationFailed, Status: status, Message: message}
}

// NewNotFoundError creates an error for an unknown queue or annotation
func NewNotFoundError(message string) *ExportError {
	return &ExportError{Kind: KindNotFound, Status: http.StatusNotFound, Message: message}
}

// NewConflictError creates an error for ambiguous annotation matches
func NewConflictError(message string) *ExportError {
	return &ExportError{Kind: KindConflict, Status: http.StatusBadRequest, Message: message}
}

// NewUpstreamError creates an error for a non-2xx upstream response
func NewUpstreamError(status int, message, body string) *ExportError {
	return &ExportError{Kind: KindUpstreamHTTP, Status: status, Message: message, Body: body}
}

// NewTransportError creates an error for a connection-level failure
func NewTransportError(url string, cause error) *ExportError {
	return &ExportError{
		Kind:    KindTransport,
		Status:  http.StatusInternalServerError,
		Message: fmt.Sprintf("An error occurred while requesting '%s'.", url),
		Cause:   cause,
	}
}

// NewInternalError creates an error for malformed upstream data
func NewInternalError(message string, cause error) *ExportError {
	return &ExportError{Kind: KindInternal, Status: http.StatusInternalServerError, Message: message, Cause: cause}
}

// NewUnexpectedError creates an error for any other upstream status
func NewUnexpectedError(status int, message, body string) *ExportError {
	return &ExportError{Kind: KindUnexpected, Status: status, Message: message, Body: body}
}

// KindOf classifies err. Errors outside the taxonomy are internal.
func KindOf(err error) ErrorKind {
	var exportErr *ExportError
	if errors.As(err, &exportErr) {
		return exportErr.Kind
	}
	return KindInternal
}

// ParseError represents a malformed source document
type ParseError struct {
	Field   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Field, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// NewParseError creates a new parse error
func NewParseError(field, message string, cause error) *ParseError {
	return &ParseError{
		Field:   field,
		Message: message,
		Cause:   cause,
	}
}
