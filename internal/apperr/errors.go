// Package apperr defines the typed error taxonomy surfaced by the gateway.
package apperr

import (
	"errors"
	"fmt"
)

// Kind is a machine-checkable error classification.
type Kind string

const (
	// KindNetwork covers unreachable hosts and timeouts.
	KindNetwork Kind = "NETWORK_ERROR"
	// KindServer covers non-2xx responses with backend-provided detail.
	KindServer Kind = "SERVER_ERROR"
	// KindParse covers malformed or unexpected response shapes.
	KindParse Kind = "PARSE_ERROR"
	// KindValidation covers client-side input rejected before any network call.
	KindValidation Kind = "VALIDATION_ERROR"
)

// Error carries a kind tag, a short reason token for logs and events, a
// user-displayable message, and the wrapped cause.
type Error struct {
	Kind    Kind
	Reason  string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("gateway: %s (%s)", e.Kind, e.Reason)
	}
	return fmt.Sprintf("gateway: %s (%s): %v", e.Kind, e.Reason, e.Err)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a typed error.
func New(kind Kind, reason, message string, err error) *Error {
	return &Error{Kind: kind, Reason: reason, Message: message, Err: err}
}

// Network creates a NETWORK_ERROR.
func Network(reason, message string, err error) *Error {
	return New(KindNetwork, reason, message, err)
}

// Server creates a SERVER_ERROR.
func Server(reason, message string, err error) *Error {
	return New(KindServer, reason, message, err)
}

// Parse creates a PARSE_ERROR.
func Parse(reason, message string, err error) *Error {
	return New(KindParse, reason, message, err)
}

// Validation creates a VALIDATION_ERROR.
func Validation(reason, message string) *Error {
	return New(KindValidation, reason, message, nil)
}

// KindOf extracts the kind from an error chain. Unclassified errors
// report KindNetwork, the most conservative assumption for transport code.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindNetwork
}

// UserMessage extracts the user-displayable message from an error chain.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return "Something went wrong. Please try again."
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}

// HTTPStatusError captures a non-2xx upstream response with its detail.
type HTTPStatusError struct {
	StatusCode int
	URL        string
	Detail     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s: %s", e.StatusCode, e.URL, e.Detail)
}
