package error

import "errors"

// Sync domain errors.
var (
	// ErrUnknownResource is returned when a sync is requested for a resource
	// the service does not mirror.
	ErrUnknownResource = errors.New("unknown resource")

	// ErrTaskNotFound is returned when a task id does not exist in the queue.
	ErrTaskNotFound = errors.New("sync task not found")

	// ErrNoPendingTasks is returned by the claim operation when the queue has
	// nothing to do.
	ErrNoPendingTasks = errors.New("no pending sync tasks")
)

// SyncErrorCode defines error codes for synchronization errors.
// Format: SYN-XXYYYY where XX is category and YYYY is specific error.
type SyncErrorCode string

const (
	// Validation errors (01XXXX)
	ErrCodeUnknownResource SyncErrorCode = "SYN-010001"

	// Queue errors (02XXXX)
	ErrCodeTaskNotFound   SyncErrorCode = "SYN-020001"
	ErrCodeNoPendingTasks SyncErrorCode = "SYN-020002"

	// Upstream errors (03XXXX)
	ErrCodeUpstreamFailure SyncErrorCode = "SYN-030001"

	// Internal errors (99XXXX)
	ErrCodeSyncInternalError SyncErrorCode = "SYN-990001"
)

// SyncError represents a synchronization error with code and message.
type SyncError struct {
	Code    SyncErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *SyncError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *SyncError) Unwrap() error {
	return e.Err
}

// NewSyncError creates a new SyncError with the given code and message.
func NewSyncError(code SyncErrorCode, message string, err error) *SyncError {
	return &SyncError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}
