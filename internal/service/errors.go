package service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies a failed backend call.
type ErrorKind int

const (
	// KindRejected means the server answered with an error status.
	KindRejected ErrorKind = iota + 1

	// KindNoResponse means the request was sent but no response arrived.
	KindNoResponse

	// KindRequest means the request could not be constructed or sent.
	KindRequest
)

// Fixed messages for failures that carry no server text.
const (
	MsgNoResponse = "No response from server. Please check if the server is running."
	MsgRequest    = "Failed to send request. Please try again."
)

// Error is a backend call failure with a user-facing message.
type Error struct {
	Kind ErrorKind

	// Status is the HTTP status for KindRejected, 0 otherwise.
	Status int

	// Message is the server's message field for KindRejected (may be empty)
	// or one of the fixed messages.
	Message string

	// Err is the underlying transport or encoding error, if any.
	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindRejected:
		if e.Message != "" {
			return e.Message
		}
		return fmt.Sprintf("server returned %d %s", e.Status, http.StatusText(e.Status))
	case KindNoResponse:
		return MsgNoResponse
	default:
		return MsgRequest
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Rejected returns a KindRejected error.
func Rejected(status int, message string) *Error {
	return &Error{Kind: KindRejected, Status: status, Message: message}
}

// NoResponse returns a KindNoResponse error wrapping err.
func NoResponse(err error) *Error {
	return &Error{Kind: KindNoResponse, Message: MsgNoResponse, Err: err}
}

// RequestFailed returns a KindRequest error wrapping err.
func RequestFailed(err error) *Error {
	return &Error{Kind: KindRequest, Message: MsgRequest, Err: err}
}

// Message returns the user-facing message for err.
// Rejections without a server message fall back to fallback, matching how
// each operation names its own failure ("Failed to fetch boards", ...).
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Message != "" {
			return e.Message
		}
		return fallback
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}

// IsAuthError reports whether err is a 401 or 403 rejection.
func IsAuthError(err error) bool {
	var e *Error
	if !errors.As(err, &e) || e.Kind != KindRejected {
		return false
	}
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsNotFound reports whether err is a 404 rejection.
func IsNotFound(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindRejected && e.Status == http.StatusNotFound
}
