package handlers

import (
	"github.com/roach88/rotasim/internal/calc"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// StaggerChange runs stagger through the stagger pipeline and applies the
// result to the enemy.
type StaggerChange struct {
	pipeline *calc.Pipeline[calc.StaggerContext]
}

// NewStaggerChange returns the handler with the standard stagger pipeline.
func NewStaggerChange() *StaggerChange {
	return &StaggerChange{pipeline: calc.StaggerPipeline()}
}

// Handle implements engine.Handler.
func (h *StaggerChange) Handle(event engine.Event, ctx *engine.Context) error {
	return engine.Typed(h.handle).Handle(event, ctx)
}

func (h *StaggerChange) handle(ev engine.StaggerChangeEvent, ctx *engine.Context) error {
	enemy := ctx.State().Enemy

	// An unknown source contributes no stats rather than failing the run.
	var stats ir.ActorStats
	if actor, ok := ctx.State().Actor(ev.ActorID); ok {
		stats = actor.Stats()
	}

	result := h.pipeline.Execute(calc.StaggerContext{
		SourceStats: stats,
		Target:      enemy.Effects,
	}, ev.Amount)
	if result.FinalValue <= 0 {
		return nil
	}

	res := enemy.AddStagger(result.FinalValue, ctx.Now())
	ctx.Log(engine.StaggerEntry{
		Time:             ev.Time,
		ActorID:          ev.ActorID,
		ActionID:         ev.ActionID,
		Amount:           result.FinalValue,
		Stagger:          enemy.Stagger(),
		IsBroken:         res.Broken,
		BreakEndTime:     res.BreakEndTime,
		NodeReachedIndex: res.NodeReachedIndex,
		NodeEndTime:      res.NodeEndTime,
	})
	return nil
}
