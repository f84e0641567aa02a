package engine

import (
	"errors"
	"fmt"
)

// DefaultMaxEvents bounds a single run. Authored timelines dispatch a few
// hundred events; anything near this limit is a handler enqueueing itself.
const DefaultMaxEvents = 100000

// EventBudget counts dispatched events and enforces a maximum per run.
//
// Time only moves forward, so a handler that re-enqueues at ctx.Now() can
// keep the queue non-empty forever. The budget turns that into an error.
type EventBudget struct {
	max     int
	current int
}

// NewEventBudget creates a budget allowing max events. A max of zero or less
// disables the check.
func NewEventBudget(max int) *EventBudget {
	return &EventBudget{max: max}
}

// Check counts one event and reports BudgetExceededError once the count
// passes the limit.
func (b *EventBudget) Check(ev Event) error {
	b.current++
	if b.max > 0 && b.current > b.max {
		return &BudgetExceededError{
			EventType: ev.Type(),
			Time:      ev.At(),
			Events:    b.current,
			Limit:     b.max,
		}
	}
	return nil
}

// BudgetExceededError is returned when a run dispatches more events than
// its budget allows. The run stops at the offending event.
type BudgetExceededError struct {
	EventType EventType
	Time      float64
	Events    int
	Limit     int
}

// Error implements the error interface.
func (e *BudgetExceededError) Error() string {
	return fmt.Sprintf("event budget exceeded at %s (time=%.3f): %d events > %d limit",
		e.EventType, e.Time, e.Events, e.Limit)
}

// IsBudgetExceededError returns true if err is a BudgetExceededError.
// Uses errors.As to handle wrapped errors.
func IsBudgetExceededError(err error) bool {
	var be *BudgetExceededError
	return errors.As(err, &be)
}
