// Package models provides the core data structures exchanged between the slash-command caller, the bridge and GitHub.
package models

// Request represents an incoming client request containing a method, a body and associated headers.
// Header keys are lower-cased.
type Request struct {
	// ID correlates log records of a single request.
	ID      string
	Method  string
	Body    string
	Headers map[string]string
}

// Response defines the structure for an HTTP response containing a body, headers, and a status code.
type Response struct {
	Body       string
	Headers    map[string]string
	StatusCode int
}
