package legacy_errors

import (
	"errors"
)

// Common errors
var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrAlreadyExists = errors.New("already exists")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrUploadFailed  = errors.New("upload failed")
	ErrConsentMissing = errors.New("consent not given")
	ErrRateLimited   = errors.New("rate limited")
	ErrTooLarge      = errors.New("file too large")
	ErrInvalidBucket = errors.New("invalid media path prefix")
)
