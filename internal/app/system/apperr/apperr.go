// Package apperr defines the domain errors that handlers serialize into the
// API error envelope.
//
// Services construct these explicitly. Anything that is not an *Error reaching
// the top-level writer is treated as an internal failure.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes carried in error.code of the envelope.
const (
	CodeValidation                 = "VALIDATION_ERROR"
	CodeUnauthorized               = "UNAUTHORIZED"
	CodeForbidden                  = "FORBIDDEN"
	CodeNotFound                   = "NOT_FOUND"
	CodeUserNotRegistered          = "USER_NOT_REGISTERED"
	CodeAlreadyMember              = "ALREADY_MEMBER"
	CodePendingInvitation          = "PENDING_INVITATION"
	CodeInvitationAlreadyResponded = "INVITATION_ALREADY_RESPONDED"
	CodeServiceUnavailable         = "SERVICE_UNAVAILABLE"
	CodeTooManyRequests            = "TOO_MANY_REQUESTS"
)

// Error is a client-facing failure with an HTTP status and a stable code.
// Fields is set only for validation errors (field name -> message).
type Error struct {
	Status  int
	Code    string
	Message string
	Fields  map[string]string
}

func (e *Error) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

// New returns a domain error for conflicts and other specific conditions.
func New(status int, code, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

// Validation returns a 400 with per-field messages.
func Validation(message string, fields map[string]string) *Error {
	if message == "" {
		message = "Validation failed"
	}
	return &Error{Status: http.StatusBadRequest, Code: CodeValidation, Message: message, Fields: fields}
}

// FieldError is a validation error for a single field.
func FieldError(field, message string) *Error {
	return Validation("Validation failed", map[string]string{field: message})
}

func Unauthorized(message string) *Error {
	if message == "" {
		message = "Unauthorized"
	}
	return &Error{Status: http.StatusUnauthorized, Code: CodeUnauthorized, Message: message}
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Forbidden"
	}
	return &Error{Status: http.StatusForbidden, Code: CodeForbidden, Message: message}
}

// NotFound returns "<resource> not found".
func NotFound(resource string) *Error {
	return &Error{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// Unavailable reports a backend that is not configured for this deployment.
func Unavailable(message string) *Error {
	return &Error{Status: http.StatusServiceUnavailable, Code: CodeServiceUnavailable, Message: message}
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// HasCode reports whether err is a domain error with the given code.
func HasCode(err error, code string) bool {
	ae, ok := As(err)
	return ok && ae.Code == code
}

// HasStatus reports whether err is a domain error with the given HTTP status.
func HasStatus(err error, status int) bool {
	ae, ok := As(err)
	return ok && ae.Status == status
}
