package storage

import "errors"

// Workflow error taxonomy. Callers wrap these with detail using
// fmt.Errorf("%w: ...") and test with errors.Is.
var (
	ErrInvalidFormat      = errors.New("invalid format")
	ErrInvalidAddress     = errors.New("invalid address")
	ErrInvalidPort        = errors.New("invalid port")
	ErrTooLong            = errors.New("value too long")
	ErrNoResourcesFound   = errors.New("no resources found")
	ErrUnsupportedBackend = errors.New("unsupported backend")
	ErrExecutorFailure    = errors.New("executor failure")
	ErrIncompleteResult   = errors.New("incomplete result")
	ErrNotActive          = errors.New("storage domain not active")
)
