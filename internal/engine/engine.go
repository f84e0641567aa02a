package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

// ActionLookup resolves action ids to timeline actions.
type ActionLookup interface {
	Action(id string) (*ir.ResolvedAction, bool)
}

// Listener observes each dispatched event with the state before and after.
type Listener func(ev Event, before, after state.Snapshot)

// Engine owns the game state, the event queue and the run log for one
// simulation run.
//
// INVARIANTS:
//   - the game clock only moves forward, and only in Run
//   - events and log entries at equal times keep enqueue order
//   - handlers are never re-entered
type Engine struct {
	game     *state.Game
	queue    *Queue[Event]
	log      *Queue[LogEntry]
	handlers map[EventType]Handler

	actions   ActionLookup
	shift     state.Shifter
	logger    *slog.Logger
	listeners []Listener

	maxEvents  int
	running    bool
	dispatched int
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithLogger sets the logger for run diagnostics.
//
// Default: slog.Default()
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithShifter sets how the enemy's break and node windows are extended by
// freezes.
//
// Default: state.Unshifted (no freezes)
func WithShifter(s state.Shifter) EngineOption {
	return func(e *Engine) {
		e.shift = s
	}
}

// WithActions sets the timeline handlers look actions up in.
func WithActions(a ActionLookup) EngineOption {
	return func(e *Engine) {
		e.actions = a
	}
}

// WithListener adds a listener called after each event is handled.
func WithListener(l Listener) EngineOption {
	return func(e *Engine) {
		if l != nil {
			e.listeners = append(e.listeners, l)
		}
	}
}

// WithMaxEvents bounds the number of events one Run may dispatch. Zero
// disables the bound.
//
// Default: DefaultMaxEvents
func WithMaxEvents(n int) EngineOption {
	return func(e *Engine) {
		e.maxEvents = n
	}
}

// New creates an Engine with a fresh game state built from the team and enemy
// configuration and the given actors. No handlers are registered.
func New(team ir.TeamConfig, enemy ir.EnemyConfig, actors []ir.ActorSnapshot, opts ...EngineOption) *Engine {
	e := &Engine{
		handlers:  make(map[EventType]Handler),
		shift:     state.Unshifted,
		logger:    slog.Default(),
		maxEvents: DefaultMaxEvents,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.shift == nil {
		e.shift = state.Unshifted
	}
	if e.logger == nil {
		e.logger = slog.Default()
	}

	// Both queues draw from one clock so entries share a single order.
	clock := NewClock()
	e.queue = NewQueue[Event](clock)
	e.log = NewQueue[LogEntry](clock)

	e.game = state.NewGame(team, enemy, e.shift)
	for _, a := range actors {
		e.game.SetActor(a)
	}
	return e
}

// Register sets the handler for an event type, replacing any previous one.
func (e *Engine) Register(t EventType, h Handler) {
	e.handlers[t] = h
}

// Enqueue schedules an event.
func (e *Engine) Enqueue(ev Event) {
	e.queue.Push(ev)
}

// QueueLen returns the number of pending events.
func (e *Engine) QueueLen() int {
	return e.queue.Len()
}

// State returns the game state.
func (e *Engine) State() *state.Game {
	return e.game
}

// Log returns the run log in time order.
func (e *Engine) Log() []LogEntry {
	return e.log.Items()
}

// Dispatched returns how many events Run has handled.
func (e *Engine) Dispatched() int {
	return e.dispatched
}

// Run drains the event queue.
//
// It returns the first error a handler reports, or a RuntimeError when an
// event has no handler, and stops draining at that point. Exceeding the event
// budget returns a BudgetExceededError. Cancelling ctx stops the run between
// events.
func (e *Engine) Run(ctx context.Context) (*state.Game, error) {
	if e.running {
		panic("engine: Run called re-entrantly")
	}
	e.running = true
	defer func() { e.running = false }()

	e.logger.Info("simulation starting", "events", e.queue.Len())

	hctx := &Context{engine: e}
	budget := NewEventBudget(e.maxEvents)
	for {
		if err := ctx.Err(); err != nil {
			return e.game, err
		}

		ev, ok := e.queue.Pop()
		if !ok {
			break
		}

		if err := budget.Check(ev); err != nil {
			e.logger.Error("simulation aborted", "error", err)
			return e.game, err
		}

		if dt := ir.Round3(ev.At() - e.game.CurrentTime()); dt > 0 {
			e.game.AdvanceTime(dt)
		}

		if err := e.dispatch(ev, hctx); err != nil {
			e.logger.Error("simulation aborted",
				"event_type", ev.Type(),
				"time", ev.At(),
				"error", err,
			)
			return e.game, err
		}
	}

	e.logger.Info("simulation finished",
		"events", e.dispatched,
		"log_entries", e.log.Len(),
		"final_time", e.game.CurrentTime(),
	)
	return e.game, nil
}

func (e *Engine) dispatch(ev Event, hctx *Context) error {
	h, ok := e.handlers[ev.Type()]
	if !ok {
		return NewNoHandlerError(ev)
	}

	e.logger.Debug("dispatching event",
		"event_type", ev.Type(),
		"time", ev.At(),
		"seq", e.dispatched,
	)

	var before state.Snapshot
	if len(e.listeners) > 0 {
		before = e.game.Snapshot()
	}

	if err := h.Handle(ev, hctx); err != nil {
		var re *RuntimeError
		if errors.As(err, &re) {
			return err
		}
		return NewHandlerError(ev, err)
	}
	e.dispatched++

	if len(e.listeners) > 0 {
		after := e.game.Snapshot()
		for _, l := range e.listeners {
			l(ev, before, after)
		}
	}
	return nil
}
