package utils

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError is one entry of a validation failure.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AppError carries the HTTP status and client-facing message for a failure.
// Anything that is not an AppError is reported as a 500.
type AppError struct {
	Status  int
	Message string
	Details []FieldError
	// PlainText writes Message as a text body instead of {"error": ...}.
	PlainText bool
	Err       error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%d %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

const (
	MsgValidationFailed = "Validation failed"
	MsgAPIKeyRequired   = "API key required"
	MsgInvalidAPIKey    = "Invalid API key"
	MsgNoMealsFound     = "No meals found"
	MsgInternal         = "Internal server error"
)

func ValidationFailed(details []FieldError) *AppError {
	return &AppError{Status: http.StatusBadRequest, Message: MsgValidationFailed, Details: details}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Status: http.StatusUnauthorized, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Status: http.StatusForbidden, Message: msg}
}

func NotFound(msg string) *AppError {
	return &AppError{Status: http.StatusNotFound, Message: msg}
}

func RateLimited(msg string) *AppError {
	return &AppError{Status: http.StatusTooManyRequests, Message: msg, PlainText: true}
}

// AsAppError reports whether err wraps an AppError.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}
