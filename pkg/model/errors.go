package model

import (
	"fmt"

	"github.com/me/wfstage/pkg/stage"
)

// ErrorCode represents a structured API error code.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrBadRequest ErrorCode = "BAD_REQUEST"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is a structured error returned by the wfstage API. For
// validation failures, Details carries the full path-qualified
// diagnostic list from a single validation pass.
type APIError struct {
	Code    ErrorCode         `json:"code"`
	Message string            `json:"message"`
	Details stage.Diagnostics `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError creates an APIError carrying diagnostics.
func NewValidationError(msg string, diags stage.Diagnostics) *APIError {
	return &APIError{Code: ErrValidation, Message: msg, Details: diags}
}

// NewBadRequestError creates a BAD_REQUEST APIError.
func NewBadRequestError(msg string) *APIError {
	return &APIError{Code: ErrBadRequest, Message: msg}
}

// NewNotFoundError creates a NOT_FOUND APIError.
func NewNotFoundError(resource, id string) *APIError {
	return &APIError{
		Code:    ErrNotFound,
		Message: fmt.Sprintf("%s '%s' not found", resource, id),
	}
}
