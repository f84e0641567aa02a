package engine

import (
	"errors"
	"fmt"
)

// RuntimeError represents an error that aborted a run.
//
// A run stops at the first RuntimeError; the state and log up to the failing
// event are left as they were.
type RuntimeError struct {
	// Code identifies the error category.
	Code RuntimeErrorCode

	// Message is a human-readable description.
	Message string

	// EventType is the type of the event being dispatched.
	EventType EventType

	// Time is the simulation time of that event.
	Time float64

	// Err is the handler error, if any.
	Err error
}

// RuntimeErrorCode categorizes runtime errors.
type RuntimeErrorCode string

const (
	// ErrCodeNoHandler indicates an event type with no registered handler.
	ErrCodeNoHandler RuntimeErrorCode = "NO_HANDLER"

	// ErrCodeInvariant indicates state the simulation rules cannot handle,
	// such as two elemental afflictions on one target.
	ErrCodeInvariant RuntimeErrorCode = "INVARIANT_VIOLATION"

	// ErrCodeHandlerFailed indicates any other handler error.
	ErrCodeHandlerFailed RuntimeErrorCode = "HANDLER_FAILED"
)

// Error implements the error interface.
func (e *RuntimeError) Error() string {
	msg := fmt.Sprintf("%s: %s (event=%s, time=%.3f)", e.Code, e.Message, e.EventType, e.Time)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying handler error.
func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// IsNoHandlerError returns true if err is a missing handler error.
// Uses errors.As to handle wrapped errors.
func IsNoHandlerError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeNoHandler
	}
	return false
}

// IsInvariantError returns true if err is an invariant violation.
// Uses errors.As to handle wrapped errors.
func IsInvariantError(err error) bool {
	var re *RuntimeError
	if errors.As(err, &re) {
		return re.Code == ErrCodeInvariant
	}
	return false
}

// NewNoHandlerError creates a RuntimeError for an unregistered event type.
func NewNoHandlerError(ev Event) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeNoHandler,
		Message:   "no handler for event type",
		EventType: ev.Type(),
		Time:      ev.At(),
	}
}

// NewInvariantError creates a RuntimeError wrapping an invariant violation
// detected while handling ev.
func NewInvariantError(ev Event, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeInvariant,
		Message:   "simulation invariant violated",
		EventType: ev.Type(),
		Time:      ev.At(),
		Err:       err,
	}
}

// NewHandlerError creates a RuntimeError wrapping a handler failure.
func NewHandlerError(ev Event, err error) *RuntimeError {
	return &RuntimeError{
		Code:      ErrCodeHandlerFailed,
		Message:   "handler failed",
		EventType: ev.Type(),
		Time:      ev.At(),
		Err:       err,
	}
}
