package engine

import (
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

// Context is what a handler may touch while handling an event.
type Context struct {
	engine *Engine
}

// State returns the game state.
func (c *Context) State() *state.Game {
	return c.engine.game
}

// Now returns the simulation clock.
func (c *Context) Now() float64 {
	return c.engine.game.CurrentTime()
}

// Enqueue schedules a follow-up event.
func (c *Context) Enqueue(ev Event) {
	c.engine.Enqueue(ev)
}

// Log appends an entry to the run log.
func (c *Context) Log(entry LogEntry) {
	c.engine.log.Push(entry)
}

// Action looks up a resolved action by id.
func (c *Context) Action(id string) (*ir.ResolvedAction, bool) {
	if c.engine.actions == nil {
		return nil, false
	}
	return c.engine.actions.Action(id)
}

// ShiftedTime returns the real end of an interval starting at start, extended
// by every freeze it overlaps.
func (c *Context) ShiftedTime(start, duration float64) float64 {
	return c.engine.shift(start, duration)
}
