package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUserInactive        = errors.New("user is inactive")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDuplicateEmail      = errors.New("email already exists")
	ErrUploadFailed        = errors.New("file upload to storage failed")
	ErrEmptyTextLayer      = errors.New("document has no extractable text layer")
	ErrAIUnavailable       = errors.New("ai extraction service unavailable")
	ErrDraftImmutable      = errors.New("drafts are immutable once created")
	ErrValidation          = errors.New("validation failed")
)
