package handler

import (
	"fmt"
)

// MethodNotAllowedError is returned when the inbound request is not a POST.
type MethodNotAllowedError struct {
	Method string
}

func (m *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method not allowed: %s", m.Method)
}

// DownstreamRejectedError is returned when GitHub answered the dispatch with a non-2xx status.
type DownstreamRejectedError struct {
	StatusCode int
	Cause      error
}

func (m *DownstreamRejectedError) Error() string {
	return fmt.Sprintf("repository dispatch rejected with HTTP %d: %v", m.StatusCode, m.Cause)
}

func (m *DownstreamRejectedError) Unwrap() error {
	return m.Cause
}

// DownstreamUnreachableError is returned when no response was received from GitHub.
type DownstreamUnreachableError struct {
	TimedOut bool
	Cause    error
}

func (m *DownstreamUnreachableError) Error() string {
	if m.TimedOut {
		return fmt.Sprintf("repository dispatch timed out: %v", m.Cause)
	}
	return fmt.Sprintf("repository dispatch unreachable: %v", m.Cause)
}

func (m *DownstreamUnreachableError) Unwrap() error {
	return m.Cause
}
