package chatbot

import (
	"errors"
	"fmt"
)

// Kind tags an error with how the caller should react. Step-level validation
// never produces an Error: it is resolved inside the state machine by
// re-prompting.
type Kind string

const (
	// KindSessionNotFound: the session is unknown, expired, or finished;
	// the caller should start a new one.
	KindSessionNotFound Kind = "SESSION_NOT_FOUND"
	// KindValidation: the request itself was malformed (e.g. empty text).
	KindValidation Kind = "VALIDATION_ERROR"
	// KindUpstream: the remote store failed after exhausting retries. The
	// session step was not advanced; the same turn can be retried safely.
	KindUpstream Kind = "DATABASE_ERROR"
	// KindInternal: anything unanticipated.
	KindInternal Kind = "INTERNAL_ERROR"
)

// Error is a tagged failure surfaced to the endpoint layer. Message is safe
// to show users; the wrapped error carries internal detail for logs only.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ErrSessionNotFound builds a session-not-found error.
func ErrSessionNotFound(sessionID string) *Error {
	return &Error{
		Kind:    KindSessionNotFound,
		Message: "Session not found or expired. Please start a new conversation.",
		Err:     fmt.Errorf("session %q not found", sessionID),
	}
}

// ErrUpstream wraps a remote store failure with a user-safe message.
func ErrUpstream(err error) *Error {
	return &Error{
		Kind:    KindUpstream,
		Message: "We're experiencing technical difficulties. Please try again in a few minutes.",
		Err:     err,
	}
}

// ErrValidation builds a request validation error.
func ErrValidation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// KindOf extracts the kind from an error chain, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// SafeMessage extracts the user-safe message, defaulting to a generic one.
func SafeMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return "An unexpected error occurred."
}
