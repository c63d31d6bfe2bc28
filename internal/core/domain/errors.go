package domain

import "errors"

// Common domain errors.
//
// Services and adapters return these sentinels (usually wrapped with
// fmt.Errorf and %w) so that driving adapters can map them onto their own
// surface, for example HTTP status codes, with errors.Is.
var (
	// ErrNotFound indicates the requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates a uniqueness conflict, for example a
	// document name or username that is already taken.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates the caller supplied malformed or
	// out-of-range input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrDocumentBusy indicates the document is currently being processed
	// and cannot be mutated or claimed until processing finishes.
	ErrDocumentBusy = errors.New("document is busy")

	// ErrNoEmbedding indicates the embedding provider returned a response
	// without a usable vector.
	ErrNoEmbedding = errors.New("no embedding found in the API response")

	// ErrFileTooLarge indicates an uploaded file exceeds the configured
	// size limit.
	ErrFileTooLarge = errors.New("file too large")

	// ErrUnsupportedFileType indicates the uploaded file is not a type the
	// extraction pipeline understands.
	ErrUnsupportedFileType = errors.New("unsupported file type")

	// ErrInvalidCredentials indicates a failed login or an invalid or
	// expired token.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUserDisabled indicates the account exists but has been disabled.
	ErrUserDisabled = errors.New("user is disabled")

	// ErrForbidden indicates the authenticated user lacks the tier
	// required for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrNotImplemented indicates functionality compiled out of this
	// build, for example OCR without cgo support.
	ErrNotImplemented = errors.New("not implemented")
)
