package app

import "fmt"

// AppErrorType represents the type of application error.
type AppErrorType int

const (
	// ValidationFailed indicates the workflow options are invalid.
	ValidationFailed AppErrorType = iota
	// ListFailed indicates the remote tree could not be listed.
	ListFailed
	// HeadFailed indicates the HEAD commit could not be resolved.
	HeadFailed
	// DownloadFailed indicates fetching or writing files failed.
	DownloadFailed
	// ManifestFailed indicates hashing or writing the manifest failed.
	ManifestFailed
	// VerifyFailed indicates a destination could not be checked.
	VerifyFailed
)

// String returns the string representation of the error type.
func (t AppErrorType) String() string {
	switch t {
	case ValidationFailed:
		return "ValidationFailed"
	case ListFailed:
		return "ListFailed"
	case HeadFailed:
		return "HeadFailed"
	case DownloadFailed:
		return "DownloadFailed"
	case ManifestFailed:
		return "ManifestFailed"
	case VerifyFailed:
		return "VerifyFailed"
	default:
		return "Unknown"
	}
}

// AppError represents an application-layer error.
type AppError struct {
	// Type is the error type.
	Type AppErrorType
	// Message is the error message.
	Message string
	// Cause is the underlying error.
	Cause error
}

// Error returns the error message.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewAppError creates a new AppError.
func NewAppError(errType AppErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// NewValidationError creates a validation error.
func NewValidationError(message string, cause error) *AppError {
	return NewAppError(ValidationFailed, message, cause)
}

// NewListError creates a listing error.
func NewListError(message string, cause error) *AppError {
	return NewAppError(ListFailed, message, cause)
}

// NewHeadError creates a HEAD resolution error.
func NewHeadError(message string, cause error) *AppError {
	return NewAppError(HeadFailed, message, cause)
}

// NewDownloadError creates a download error.
func NewDownloadError(message string, cause error) *AppError {
	return NewAppError(DownloadFailed, message, cause)
}

// NewManifestError creates a manifest error.
func NewManifestError(message string, cause error) *AppError {
	return NewAppError(ManifestFailed, message, cause)
}

// NewVerifyError creates a verification error.
func NewVerifyError(message string, cause error) *AppError {
	return NewAppError(VerifyFailed, message, cause)
}
