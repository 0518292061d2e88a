package vone

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotAuthenticated is an exported constant or variable used by the V-One client.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrAuthRejected is an exported constant or variable used by the V-One client.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrSessionExpired is returned when a refresh failed or no credential
	// exists where one is required. It is terminal: the session has been torn
	// down and re-authentication is required.
	ErrSessionExpired = errors.New("session expired")
	// ErrClientClosed is an exported constant or variable used by the V-One client.
	ErrClientClosed = errors.New("client closed")
)

// ValidationError carries the server's field-keyed validation messages from a
// rejected signup or profile update.
type ValidationError struct {
	Fields map[string][]string
}

// Error describes the error operation and its observable behavior.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// APIError is a non-auth server failure surfaced verbatim to the calling
// feature. The session manager does not interpret business errors.
type APIError struct {
	StatusCode int
	Detail     string
	Body       []byte
}

// Error describes the error operation and its observable behavior.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error: status %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error: status %d", e.StatusCode)
}
