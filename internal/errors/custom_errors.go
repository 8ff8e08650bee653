package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.OriginalError != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
	}
	return e.UserMessage
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodePropertyNotFound    = "PROPERTY_NOT_FOUND"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDuplicateExternalID = "DUPLICATE_EXTERNAL_ID"
	ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	ErrCodeStoreFailure        = "STORE_FAILURE"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeInternal            = "INTERNAL_ERROR"
)

// NewNotFound reports that a lookup by id or external id found nothing.
func NewNotFound(what string) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("%s not found", what),
		UserMessage:      MsgPropertyNotFound,
		Code:             ErrCodePropertyNotFound,
		HTTPStatus:       http.StatusNotFound,
	}
}

// NewValidation reports malformed or out-of-range input rejected before the store.
func NewValidation(err error) *AppError {
	return &AppError{
		TechnicalMessage: err.Error(),
		UserMessage:      MsgInvalidParameters,
		Code:             ErrCodeValidation,
		HTTPStatus:       http.StatusBadRequest,
		OriginalError:    err,
	}
}

// NewDuplicateExternalID reports a write that collided with an existing
// external id. At the ingestion layer this is counted as a skip, not an error.
func NewDuplicateExternalID(externalID string) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("external id %q already exists", externalID),
		UserMessage:      MsgDuplicateProperty,
		Code:             ErrCodeDuplicateExternalID,
		HTTPStatus:       http.StatusConflict,
	}
}

// NewUpstreamUnavailable reports a failed fetch from an external listing source.
func NewUpstreamUnavailable(source string, err error) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("upstream %s unavailable: %v", source, err),
		UserMessage:      MsgServiceUnavailable,
		Code:             ErrCodeUpstreamUnavailable,
		HTTPStatus:       http.StatusServiceUnavailable,
		OriginalError:    err,
	}
}

// NewStoreFailure reports a durable store read or write error.
func NewStoreFailure(op string, err error) *AppError {
	return &AppError{
		TechnicalMessage: fmt.Sprintf("store %s failed: %v", op, err),
		UserMessage:      MsgServiceUnavailable,
		Code:             ErrCodeStoreFailure,
		HTTPStatus:       http.StatusServiceUnavailable,
		OriginalError:    err,
	}
}

// HasCode reports whether err is an AppError carrying the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// IsNotFound reports whether err represents a not-found lookup.
func IsNotFound(err error) bool {
	return HasCode(err, ErrCodePropertyNotFound)
}

// IsDuplicateExternalID reports whether err represents an external-id collision.
func IsDuplicateExternalID(err error) bool {
	return HasCode(err, ErrCodeDuplicateExternalID)
}
