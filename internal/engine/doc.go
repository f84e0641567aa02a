// Package engine implements the discrete-event simulation loop.
//
// ARCHITECTURE:
//
// Single-Writer Event Loop:
// One Run call drains a time-ordered queue of events in a single goroutine.
// For each event the engine advances the game clock to the event's time,
// then dispatches the event to the handler registered for its type. Handlers
// are the only code that mutates the game state or schedules follow-up
// events; they must not call Run.
//
// Ordering:
// Events are ordered by time (millisecond resolution) and then by the
// sequence number the engine's Clock stamped on them at enqueue time. Events
// at the same instant are therefore dispatched in the order they were
// enqueued. The log uses the same rule, so it is time-ordered regardless of
// the order handlers emit entries in.
//
// Failure:
// A missing handler is a programming error and aborts the run with a
// NO_HANDLER RuntimeError. A handler error aborts the run as well. Anything
// a handler can recover from it handles silently. A run that dispatches more
// events than its budget (WithMaxEvents) stops with a BudgetExceededError.
package engine
