package entities

import "errors"

// Domain errors
var (
	// Directory errors
	ErrUserNotFound    = errors.New("user not found")
	ErrProjectNotFound = errors.New("project not found")
	ErrInvalidRole     = errors.New("invalid role")

	// Minutes errors
	ErrDocumentNotFound    = errors.New("document not found")
	ErrIdentifierConflict  = errors.New("identifier or version already taken")
	ErrIdentifierImmutable = errors.New("identifier cannot change once persisted")
	ErrInvalidState        = errors.New("operation not allowed in current state")
	ErrIndexOutOfRange     = errors.New("index out of range")

	// Generic errors
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrInvalidRequest = errors.New("invalid request")
)
