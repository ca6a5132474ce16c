package errors

import (
	"fmt"
	"net/http"
	"strings"
	"time"
)

// AppError là custom error type cho application
type AppError struct {
	Raw       error
	HTTPCode  int
	Code      ErrorCode
	Message   string
	Details   map[string]string
	Timestamp time.Time
}

// Error implements error interface
func (e AppError) Error() string {
	if e.Raw != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code.String(), e.Message, e.Raw)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap exposes the underlying error to errors.Is / errors.As
func (e AppError) Unwrap() error {
	return e.Raw
}

// WithDetail adds a detail to the error
func (e AppError) WithDetail(key, value string) AppError {
	if e.Details == nil {
		e.Details = make(map[string]string)
	}
	e.Details[key] = value
	return e
}

// General Errors
func ErrInternal(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_INTERNAL,
		Message:  "Internal server error",
	}
}

func ErrInvalidArgument(message string) AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_ARGUMENT,
		Message:  message,
	}
}

func ErrNotFound(resource string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_NOT_FOUND,
		Message:  fmt.Sprintf("%s not found", resource),
	}
}

func ErrUnauthenticated() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_UNAUTHENTICATED,
		Message:  "Authentication required",
	}
}

// ErrForbidden represents a forbidden error.
func ErrForbidden(message string) AppError {
	return AppError{
		HTTPCode: http.StatusForbidden,
		Code:     ErrorCode_FORBIDDEN,
		Message:  message,
	}
}

func ErrInvalidPayload() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_INVALID_PAYLOAD,
		Message:  "Invalid payload",
	}
}

// ErrValidation reports field level problems, one detail per field
func ErrValidation(fields, messages []string) AppError {
	e := AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_VALIDATION_FAILED,
		Message:  strings.Join(messages, "; "),
	}
	for i, f := range fields {
		if i < len(messages) {
			e = e.WithDetail(f, messages[i])
		}
	}
	return e
}

func ErrRateLimited(retryAfter time.Duration) AppError {
	return AppError{
		HTTPCode: http.StatusTooManyRequests,
		Code:     ErrorCode_RATE_LIMITED,
		Message:  "Please wait before generating again",
	}.WithDetail("retry_after", retryAfter.String())
}

// Authentication Errors
func ErrInvalidToken() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_INVALID_TOKEN,
		Message:  "Invalid authentication token",
	}
}

func ErrTokenExpired() AppError {
	return AppError{
		HTTPCode: http.StatusUnauthorized,
		Code:     ErrorCode_AUTH_TOKEN_EXPIRED,
		Message:  "Authentication token has expired",
	}
}

// Minutes Errors
func ErrMomNotFound(momID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MOM_NOT_FOUND,
		Message:  "Minutes not found",
	}.WithDetail("mom_no", momID)
}

func ErrSessionNotFound(sessionID string) AppError {
	return AppError{
		HTTPCode: http.StatusNotFound,
		Code:     ErrorCode_MOM_SESSION_NOT_FOUND,
		Message:  "Minutes session not found or expired",
	}.WithDetail("session_id", sessionID)
}

func ErrInvalidState(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_MOM_INVALID_STATE,
		Message:  "Operation not allowed in the current state",
	}
}

func ErrNothingToSave() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_MOM_NOTHING_TO_SAVE,
		Message:  "No unsaved changes",
	}
}

func ErrNotSaved() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_MOM_NOT_SAVED,
		Message:  "Save the minutes before converting action items",
	}
}

func ErrSaveFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_MOM_SAVE_FAILED,
		Message:  "Failed to save minutes",
	}
}

func ErrExportFailed(format string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_MOM_EXPORT_FAILED,
		Message:  fmt.Sprintf("Failed to export minutes as %s", format),
	}
}

// Conversion Errors
func ErrConversionNotStarted() AppError {
	return AppError{
		HTTPCode: http.StatusConflict,
		Code:     ErrorCode_CONVERSION_NOT_STARTED,
		Message:  "No action item conversion in progress",
	}
}

func ErrEmptySelection() AppError {
	return AppError{
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_CONVERSION_EMPTY,
		Message:  "Select at least one action item",
	}
}

func ErrIndexOutOfRange(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadRequest,
		Code:     ErrorCode_CONVERSION_INDEX_INVALID,
		Message:  "Item index out of range",
	}
}

// External Service Errors
func ErrTranscriptionFailed(err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusBadGateway,
		Code:     ErrorCode_TRANSCRIPTION_FAILED,
		Message:  "Failed to transcribe voice note",
	}
}

func ErrTranscriptionDisabled() AppError {
	return AppError{
		HTTPCode: http.StatusServiceUnavailable,
		Code:     ErrorCode_TRANSCRIPTION_DISABLED,
		Message:  "Transcription is not configured",
	}
}

func ErrStorageFailed(operation string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_STORAGE_FAILED,
		Message:  "Storage operation failed",
	}.WithDetail("operation", operation)
}

// Database Errors
func ErrDBQueryFailed(query string, err error) AppError {
	return AppError{
		Raw:      err,
		HTTPCode: http.StatusInternalServerError,
		Code:     ErrorCode_DB_QUERY_FAILED,
		Message:  "Database query failed",
	}.WithDetail("query", query)
}
