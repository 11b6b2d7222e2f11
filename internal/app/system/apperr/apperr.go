// Package apperr defines the error taxonomy shared by policies, stores,
// and feature handlers.
//
// Every failure a caller can see carries a stable Kind, a human-readable
// message, and an optional list of field-level details. Handlers map the
// Kind to an HTTP status with WriteJSON; policies and stores construct
// errors with the per-kind helpers and never write partial mutations
// once an error is raised.
package apperr

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for callers and for HTTP status mapping.
type Kind int

const (
	// Internal is the default for unclassified failures (store errors,
	// encoding problems). Details are logged, not exposed.
	Internal Kind = iota

	// NotFound: the target or a parent entity is absent.
	NotFound

	// Forbidden: the principal lacks the required relationship
	// (not owner, not in share/member list, policy denies).
	Forbidden

	// Validation: malformed input shape, e.g. ending time before
	// starting time, or an unknown model type.
	Validation

	// Conflict: uniqueness violation on a supposedly-absent entity,
	// e.g. a duplicate username.
	Conflict
)

// FieldError points a validation failure at a specific input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is the concrete error type used across the application.
type Error struct {
	Kind    Kind
	Message string
	Fields  []FieldError
	Err     error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New constructs an Error with an explicit kind.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// NotFoundf constructs a NotFound error.
func NotFoundf(format string, args ...any) *Error {
	return &Error{Kind: NotFound, Message: fmt.Sprintf(format, args...)}
}

// Forbiddenf constructs a Forbidden error.
func Forbiddenf(format string, args ...any) *Error {
	return &Error{Kind: Forbidden, Message: fmt.Sprintf(format, args...)}
}

// Validationf constructs a Validation error with optional field details.
func Validationf(fields []FieldError, format string, args ...any) *Error {
	return &Error{Kind: Validation, Message: fmt.Sprintf(format, args...), Fields: fields}
}

// Conflictf constructs a Conflict error.
func Conflictf(format string, args ...any) *Error {
	return &Error{Kind: Conflict, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to an Internal error.
func Wrap(err error, msg string) *Error {
	return &Error{Kind: Internal, Message: msg, Err: err}
}

// KindOf extracts the Kind from err, unwrapping as needed.
// Non-apperr errors report Internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// IsNotFound reports whether err carries the NotFound kind.
func IsNotFound(err error) bool { return KindOf(err) == NotFound }

// IsForbidden reports whether err carries the Forbidden kind.
func IsForbidden(err error) bool { return KindOf(err) == Forbidden }

// HTTPStatus maps a Kind to its HTTP status code.
func HTTPStatus(kind Kind) int {
	switch kind {
	case NotFound:
		return http.StatusNotFound
	case Forbidden:
		return http.StatusForbidden
	case Validation:
		return http.StatusBadRequest
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON envelope written for failed requests.
type errorBody struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// WriteJSON writes err as a JSON error response with the status derived
// from its kind. Internal errors are masked with a generic message so
// store details never leak to callers.
func WriteJSON(w http.ResponseWriter, err error) {
	kind := KindOf(err)
	body := errorBody{Message: "internal server error"}

	var e *Error
	if errors.As(err, &e) && kind != Internal {
		body.Message = e.Message
		body.Errors = e.Fields
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(HTTPStatus(kind))
	_ = json.NewEncoder(w).Encode(body)
}
