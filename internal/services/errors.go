package services

import (
	"errors"

	"complaintreport/internal/dataprocessing"
)

// Report service errors
var (
	// ErrMissingUpload means a required workbook was neither uploaded nor
	// available from the configured reference location.
	ErrMissingUpload = errors.New("missing upload")

	// ErrReferenceFileMissing means the configured MOP list path does not exist.
	ErrReferenceFileMissing = errors.New("reference file missing")

	// ErrNoData is the informational empty-result outcome.
	ErrNoData = dataprocessing.ErrNoData

	// ErrUnsupportedFormat is returned for an unknown export format.
	ErrUnsupportedFormat = errors.New("unsupported export format")
)

// MissingUploadError names the form field of the missing workbook.
type MissingUploadError struct {
	Field string
}

func (e *MissingUploadError) Error() string {
	return "missing upload: " + e.Field
}

// Unwrap lets errors.Is match ErrMissingUpload.
func (e *MissingUploadError) Unwrap() error {
	return ErrMissingUpload
}

// ReferenceFileError carries the configured path that could not be found.
type ReferenceFileError struct {
	Path string
	Err  error
}

func (e *ReferenceFileError) Error() string {
	return "reference file missing: " + e.Path
}

// Unwrap lets errors.Is match ErrReferenceFileMissing and the cause.
func (e *ReferenceFileError) Unwrap() []error {
	return []error{ErrReferenceFileMissing, e.Err}
}
