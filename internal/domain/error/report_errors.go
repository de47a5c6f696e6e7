// Package error defines domain-specific errors for the slicing-pie service.
package error

import "errors"

// Report domain errors.
var (
	// ErrInvalidYear is returned when the report year is not a plausible year.
	ErrInvalidYear = errors.New("year must be a four-digit year")

	// ErrNoData is returned when no synced records exist for the report year.
	ErrNoData = errors.New("no synced records for this year")

	// ErrInvalidOverlay is returned when simulation parameters are malformed.
	ErrInvalidOverlay = errors.New("invalid simulation parameters")

	// ErrUnknownPerson is returned when a request names a person outside the
	// fixed partner set.
	ErrUnknownPerson = errors.New("unknown person")
)

// ReportErrorCode defines error codes for report errors.
// Format: RPT-XXYYYY where XX is category and YYYY is specific error.
type ReportErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeInvalidYear    ReportErrorCode = "RPT-010001"
	ErrCodeInvalidOverlay ReportErrorCode = "RPT-010002"
	ErrCodeUnknownPerson  ReportErrorCode = "RPT-010003"

	// Data errors (02XXXX)
	ErrCodeNoData ReportErrorCode = "RPT-020001"

	// Internal errors (99XXXX)
	ErrCodeReportInternalError ReportErrorCode = "RPT-990001"
)

// ReportError represents a report error with code and message.
type ReportError struct {
	Code    ReportErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ReportError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *ReportError) Unwrap() error {
	return e.Err
}

// NewReportError creates a new ReportError with the given code and message.
func NewReportError(code ReportErrorCode, message string, err error) *ReportError {
	return &ReportError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
