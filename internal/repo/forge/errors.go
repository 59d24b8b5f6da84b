package forge

import (
	"errors"
	"fmt"
)

// ForgeErrorType represents the type of forge error.
type ForgeErrorType int

const (
	// ForgeFetchFailed indicates the request could not be completed.
	ForgeFetchFailed ForgeErrorType = iota
	// ForgeNotFound indicates the server answered 404.
	ForgeNotFound
	// ForgeAuthFailed indicates authentication failed (e.g., private repo).
	ForgeAuthFailed
	// ForgeDecodeFailed indicates the response body did not have the expected shape.
	ForgeDecodeFailed
	// ForgeInvalidRepository indicates the repository reference could not be parsed.
	ForgeInvalidRepository
	// ForgeUnsupported indicates the forge name is unknown.
	ForgeUnsupported
)

// String returns the string representation of the error type.
func (t ForgeErrorType) String() string {
	switch t {
	case ForgeFetchFailed:
		return "FetchFailed"
	case ForgeNotFound:
		return "NotFound"
	case ForgeAuthFailed:
		return "AuthFailed"
	case ForgeDecodeFailed:
		return "DecodeFailed"
	case ForgeInvalidRepository:
		return "InvalidRepository"
	case ForgeUnsupported:
		return "Unsupported"
	default:
		return "Unknown"
	}
}

// ForgeError represents a hosting API error.
type ForgeError struct {
	// Type is the error type classification.
	Type ForgeErrorType
	// Message is the human-readable error message.
	Message string
	// Forge is the forge name (e.g., "gitea", "github").
	Forge string
	// URL is the request URL or repository that caused the error.
	URL string
	// Cause is the underlying error, if any.
	Cause error
}

// Error implements the error interface.
func (e *ForgeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s error [%s] for '%s': %s (caused by: %v)",
			e.Forge, e.Type.String(), e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s error [%s] for '%s': %s",
		e.Forge, e.Type.String(), e.URL, e.Message)
}

// Unwrap returns the underlying cause for error wrapping.
func (e *ForgeError) Unwrap() error {
	return e.Cause
}

// NewForgeError creates a new ForgeError.
func NewForgeError(typ ForgeErrorType, forge, url, message string, cause error) *ForgeError {
	return &ForgeError{
		Type:    typ,
		Message: message,
		Forge:   forge,
		URL:     url,
		Cause:   cause,
	}
}

// NewFetchError creates a fetch failed error.
func NewFetchError(forge, url string, cause error) *ForgeError {
	return NewForgeError(ForgeFetchFailed, forge, url, "request failed", cause)
}

// NewNotFoundError creates a not found error.
func NewNotFoundError(forge, url string) *ForgeError {
	return NewForgeError(ForgeNotFound, forge, url, "not found", nil)
}

// NewAuthError creates an authentication failed error.
func NewAuthError(forge, url string) *ForgeError {
	return NewForgeError(ForgeAuthFailed, forge, url, "authentication failed (private repository?)", nil)
}

// NewDecodeError creates a decode failed error.
func NewDecodeError(forge, url, message string, cause error) *ForgeError {
	return NewForgeError(ForgeDecodeFailed, forge, url, message, cause)
}

// NewInvalidRepositoryError creates an invalid repository reference error.
func NewInvalidRepositoryError(input string, cause error) *ForgeError {
	return NewForgeError(ForgeInvalidRepository, "", input, "invalid repository reference", cause)
}

// IsType reports whether err is a ForgeError of the given type.
func IsType(err error, typ ForgeErrorType) bool {
	var fe *ForgeError
	if errors.As(err, &fe) {
		return fe.Type == typ
	}
	return false
}
