package shared

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Every client-facing error unwraps to exactly one of them.
var (
	// ErrFormat indicates a malformed or incomplete request.
	ErrFormat = errors.New("format error")
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrBusinessRule indicates a well-formed request that breaks a domain rule.
	ErrBusinessRule = errors.New("business rule violated")
	// ErrUnauthorized indicates missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrConflict indicates a duplicate or replayed request.
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = &Error{Kind: ErrUnauthorized, Message: "Invalid credentials"}
	// ErrInvalidPayload is returned for bodies that are not a JSON object.
	ErrInvalidPayload = &Error{Kind: ErrFormat, Message: "Invalid JSON data"}
)

// Error carries a client-safe message together with its kind.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

// Unwrap exposes the kind so errors.Is matches both the error and its kind.
func (e *Error) Unwrap() error { return e.Kind }

// FormatError builds a format error.
func FormatError(format string, args ...any) error {
	return &Error{Kind: ErrFormat, Message: fmt.Sprintf(format, args...)}
}

// NotFoundError builds a not-found error.
func NotFoundError(message string) error {
	return &Error{Kind: ErrNotFound, Message: message}
}

// BusinessRuleError builds a business rule error.
func BusinessRuleError(message string) error {
	return &Error{Kind: ErrBusinessRule, Message: message}
}

// ConflictError builds a conflict error.
func ConflictError(message string) error {
	return &Error{Kind: ErrConflict, Message: message}
}

// MissingFieldsError reports the absent fields in input order.
func MissingFieldsError(fields []string) error {
	return FormatError("Missing required fields: %s", strings.Join(fields, ", "))
}

// Outcome classes reported by Classify.
const (
	ClassSuccess     = "success"
	ClassClientError = "client-error"
	ClassNotFound    = "not-found"
	ClassServerError = "server-error"
)

// Classify reports the outcome class of err.
func Classify(err error) string {
	switch {
	case err == nil:
		return ClassSuccess
	case errors.Is(err, ErrNotFound):
		return ClassNotFound
	case errors.Is(err, ErrFormat), errors.Is(err, ErrBusinessRule),
		errors.Is(err, ErrUnauthorized), errors.Is(err, ErrConflict):
		return ClassClientError
	default:
		return ClassServerError
	}
}

// UserSafeMessage returns the client message for domain errors and a generic
// text for anything else.
func UserSafeMessage(err error) string {
	var domainErr *Error
	if errors.As(err, &domainErr) {
		return domainErr.Message
	}
	return "Internal server error"
}
