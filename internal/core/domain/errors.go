package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ============================================================================
// Configuration Errors
// ============================================================================

var (
	ErrStructuralConstraint = errors.New("structural constraint violated")
	ErrParentNotUploaded    = fmt.Errorf("%w: parent artifact has no remote file id", ErrStructuralConstraint)
	ErrInvalidEnum          = errors.New("invalid enum value")
)

// ============================================================================
// Validation Errors
// ============================================================================

var (
	ErrMissingField    = errors.New("missing required field")
	ErrFileNotFound    = errors.New("upload file not found")
	ErrInvalidVersion  = errors.New("invalid game version")
	ErrAlreadyUploaded = errors.New("artifact already uploaded")
)

// ============================================================================
// Upload Errors
// ============================================================================

var (
	ErrUploadFailed   = errors.New("upload failed")
	ErrRemoteRejected = errors.New("upload rejected by remote")
)

// InvalidVersionError names a version label that has no match in the catalog,
// together with every label the catalog currently knows.
type InvalidVersionError struct {
	Label string
	Known []string
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%s is not a valid game version. Valid versions are: [%s]",
		e.Label, strings.Join(e.Known, ", "))
}

func (e *InvalidVersionError) Unwrap() error { return ErrInvalidVersion }

// RemoteRejectedError carries the structured error body returned by the
// upload endpoint on a non-200 status.
type RemoteRejectedError struct {
	StatusCode int
	Code       int
	Message    string
}

func (e *RemoteRejectedError) Error() string {
	return fmt.Sprintf("upload rejected (status %d): code %d: %s", e.StatusCode, e.Code, e.Message)
}

func (e *RemoteRejectedError) Unwrap() error { return ErrRemoteRejected }

// UploadFailedError covers transport faults and non-200 responses without a
// structured body. StatusCode is zero when no response was received.
type UploadFailedError struct {
	StatusCode int
	Status     string
	Err        error
}

func (e *UploadFailedError) Error() string {
	switch {
	case e.Err != nil && e.StatusCode != 0:
		return fmt.Sprintf("upload failed (status %d): %v", e.StatusCode, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("upload failed: %v", e.Err)
	default:
		return fmt.Sprintf("upload failed: %s", e.Status)
	}
}

func (e *UploadFailedError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrUploadFailed, e.Err}
	}
	return []error{ErrUploadFailed}
}
