// Package common defines sentinel errors shared across the letter service
// layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound = errors.New("not found")

	// ErrForbidden signals a tenant-isolation violation: the entity exists
	// but belongs to a different firm.
	ErrForbidden = errors.New("forbidden")

	// Service-level errors.
	ErrInternal     = errors.New("internal error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation error")

	// ErrConversionFailed wraps any failure of the HTML-to-DOCX pipeline.
	// Conversion is deterministic, so the operation is never retried.
	ErrConversionFailed = errors.New("conversion failed")

	// ErrArtifactStore wraps upload, delete and presign failures of the
	// artifact store.
	ErrArtifactStore = errors.New("artifact store error")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")
)
