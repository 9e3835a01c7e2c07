package search

import (
	"fmt"
	"strings"
)

// ServiceError reports a lookup the service did not answer successfully.
type ServiceError struct {
	Status  int
	Message string
}

func (e *ServiceError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		return fmt.Sprintf("search service status: %d", e.Status)
	}
	return fmt.Sprintf("search service status: %d: %s", e.Status, msg)
}

// MalformedResponseError reports a successful lookup whose body lacks a field
// the collector depends on, or is not JSON at all.
type MalformedResponseError struct {
	Field string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed search response (%s): %v", e.Field, e.Err)
	}
	return fmt.Sprintf("malformed search response: missing %s", e.Field)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func missing(field string) error { return &MalformedResponseError{Field: field} }
