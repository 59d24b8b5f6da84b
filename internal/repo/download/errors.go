package download

import "fmt"

// PathError reports a failure while fetching or writing a single file.
type PathError struct {
	// Op is the failed operation: "resolve", "fetch", "mkdir" or "write".
	Op string
	// Path is the repository-relative path.
	Path string
	// Cause is the underlying error.
	Cause error
}

// Error implements the error interface.
func (e *PathError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *PathError) Unwrap() error {
	return e.Cause
}
