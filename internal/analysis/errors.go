package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySubject is returned before any fetch when the brand or query is blank
	ErrEmptySubject = errors.New("subject must not be empty")

	// ErrNotConfigured is returned when a requested platform has no credentials
	ErrNotConfigured = errors.New("platform not configured")
)

// FetchError wraps a failed call to an injected platform capability
// (network error, timeout, rate limit).
type FetchError struct {
	Platform string
	Op       string
	Err      error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Platform, e.Op, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
