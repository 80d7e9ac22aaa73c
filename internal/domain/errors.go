package domain

import (
	"errors"
	"net/http"
	"strings"
)

// Error codes for business logic errors.
const (
	CodeNotFound            = 1
	CodeAlreadyExists       = 2
	CodeValidation          = 3
	CodeInternal            = 4
	CodeUnauthorized        = 5
	CodeForbidden           = 6
	CodeAddressUnresolvable = 7
	CodeUploadFailed        = 8
)

// AppError represents a business logic error with a code, message, and optional wrapped error.
type AppError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the wrapped error for use with errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Err
}

// Predefined business errors.
//
// To check whether an error matches one of these categories, use the
// corresponding helper function (IsNotFound, IsForbidden, etc.) instead of
// errors.Is. The helpers use errors.As with error-code comparison, so they
// correctly match any *AppError carrying the same code, including wrapped
// errors and fresh instances from NewAppError.
var (
	ErrNotFound            = &AppError{Code: CodeNotFound, Message: "not found"}
	ErrAlreadyExists       = &AppError{Code: CodeAlreadyExists, Message: "already exists"}
	ErrValidation          = &AppError{Code: CodeValidation, Message: "validation error"}
	ErrInternal            = &AppError{Code: CodeInternal, Message: "internal error"}
	ErrUnauthorized        = &AppError{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrForbidden           = &AppError{Code: CodeForbidden, Message: "forbidden"}
	ErrAddressUnresolvable = &AppError{Code: CodeAddressUnresolvable, Message: "address could not be resolved"}
	ErrUploadFailed        = &AppError{Code: CodeUploadFailed, Message: "image upload failed"}
)

// NewAppError creates a new AppError with the given code, message, and wrapped error.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsNotFound reports whether err is or wraps an AppError with CodeNotFound.
func IsNotFound(err error) bool {
	return hasCode(err, CodeNotFound)
}

// IsAlreadyExists reports whether err is or wraps an AppError with CodeAlreadyExists.
func IsAlreadyExists(err error) bool {
	return hasCode(err, CodeAlreadyExists)
}

// IsValidation reports whether err carries CodeValidation or is a *ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return true
	}
	return hasCode(err, CodeValidation)
}

// IsInternal reports whether err is or wraps an AppError with CodeInternal.
func IsInternal(err error) bool {
	return hasCode(err, CodeInternal)
}

// IsUnauthorized reports whether err is or wraps an AppError with CodeUnauthorized.
func IsUnauthorized(err error) bool {
	return hasCode(err, CodeUnauthorized)
}

// IsForbidden reports whether err is or wraps an AppError with CodeForbidden.
func IsForbidden(err error) bool {
	return hasCode(err, CodeForbidden)
}

// IsAddressUnresolvable reports whether err is or wraps an AppError with CodeAddressUnresolvable.
func IsAddressUnresolvable(err error) bool {
	return hasCode(err, CodeAddressUnresolvable)
}

// IsUploadFailed reports whether err is or wraps an AppError with CodeUploadFailed.
func IsUploadFailed(err error) bool {
	return hasCode(err, CodeUploadFailed)
}

// hasCode checks whether err is or wraps an *AppError with the given code.
func hasCode(err error, code int) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// FieldViolation describes a single constraint failure on a form field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violation found in a submitted form so a
// client can highlight all invalid fields at once, not just the first.
type ValidationError struct {
	Violations []FieldViolation
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation error"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.Field + ": " + v.Message
	}
	return "validation error: " + strings.Join(parts, "; ")
}

// Fields returns the violations as a field → message map for JSON responses.
// Later violations on the same field overwrite earlier ones.
func (e *ValidationError) Fields() map[string]string {
	m := make(map[string]string, len(e.Violations))
	for _, v := range e.Violations {
		m[v.Field] = v.Message
	}
	return m
}

// HTTPStatusCode maps an error to an HTTP status code.
// ValidationError and CodeValidation map to 400; unrecognized errors map to 500.
func HTTPStatusCode(err error) int {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest
	}

	var appErr *AppError
	if err != nil && errors.As(err, &appErr) {
		switch appErr.Code {
		case CodeNotFound:
			return http.StatusNotFound
		case CodeAlreadyExists:
			return http.StatusConflict
		case CodeValidation:
			return http.StatusBadRequest
		case CodeUnauthorized:
			return http.StatusUnauthorized
		case CodeForbidden:
			return http.StatusForbidden
		case CodeAddressUnresolvable:
			return http.StatusUnprocessableEntity
		case CodeUploadFailed:
			return http.StatusBadGateway
		case CodeInternal:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
