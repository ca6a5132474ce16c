package errors

import "errors"

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden access")
	ErrNotFound      = errors.New("resource not found")
	ErrConflict      = errors.New("resource conflict")
	ErrInternalError = errors.New("internal server error")
)

// Auth errors
var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("token invalid")
)

// Minutes session errors
var (
	ErrSessionNotFound = errors.New("minutes session not found")
	ErrNotEditable     = errors.New("minutes are not in the editing state")
	ErrNotGenerated    = errors.New("minutes have not been generated yet")
	ErrNothingToSave   = errors.New("no unsaved changes")
	ErrRateLimited     = errors.New("generation requested too soon")
	ErrSaveFailed      = errors.New("failed to save minutes")

	ErrTranscriptionDisabled = errors.New("transcription is not configured")
)

// Conversion errors
var (
	ErrNoConversion    = errors.New("no conversion in progress")
	ErrEmptySelection  = errors.New("no action items selected")
	ErrNotSaved        = errors.New("minutes must be saved before converting action items")
	ErrInvalidPriority = errors.New("priority must be Low, Medium or High")
)
