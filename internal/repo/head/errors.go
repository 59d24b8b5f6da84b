package head

import (
	"errors"
	"fmt"
)

// ErrHeadNotFound is matched by every HeadError of type HeadNotFound.
var ErrHeadNotFound = errors.New("HEAD not found")

// HeadErrorType represents the type of resolution error.
type HeadErrorType int

const (
	// HeadCommandFailed indicates the git invocation failed.
	HeadCommandFailed HeadErrorType = iota
	// HeadNotFound indicates the output had no HEAD line.
	HeadNotFound
)

// String returns the string representation of the error type.
func (t HeadErrorType) String() string {
	switch t {
	case HeadCommandFailed:
		return "CommandFailed"
	case HeadNotFound:
		return "NotFound"
	default:
		return "Unknown"
	}
}

// HeadError reports a failed HEAD resolution.
type HeadError struct {
	// Type is the error type.
	Type HeadErrorType
	// Remote is the URL passed to git ls-remote.
	Remote string
	// Stderr is the trimmed stderr of the git process, if any.
	Stderr string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *HeadError) Error() string {
	msg := fmt.Sprintf("failed to resolve HEAD of %s [%s]", e.Remote, e.Type)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	if e.Cause != nil {
		msg += fmt.Sprintf(" (caused by: %v)", e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *HeadError) Unwrap() error {
	return e.Cause
}

// Is lets errors.Is match ErrHeadNotFound.
func (e *HeadError) Is(target error) bool {
	return target == ErrHeadNotFound && e.Type == HeadNotFound
}
