// Package common defines sentinel errors shared across the upload pipeline,
// repositories and services. Callers match them with errors.Is.
package common

import "errors"

var (
	// Repository-level errors.
	ErrNotFound         = errors.New("not found")
	ErrStoreUnavailable = errors.New("store unavailable")
	ErrConstraint       = errors.New("constraint violation")

	// Validation errors. Wrapped messages are user-facing and rendered
	// verbatim by the UI.
	ErrInvalidFileType = errors.New("invalid file type")
	ErrFileTooLarge    = errors.New("file too large")

	// Transport errors (blob storage / presign issuance).
	ErrUploadFailed = errors.New("upload failed")
)
