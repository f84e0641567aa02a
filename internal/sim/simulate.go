// Package sim runs a compiled scenario through the engine and renders its
// log for humans.
package sim

import (
	"context"

	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/handlers"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

// Result is the outcome of a simulation run.
type Result struct {
	State *state.Game
	Log   []engine.LogEntry

	// Events is the number of events dispatched.
	Events int
	// Pending is the number of events left queued when the run stopped early.
	Pending int
}

// Simulate seeds an engine with every action, damage tick and effect of the
// compiled timeline and drains it. The returned Result is non-nil whenever
// the engine ran, so callers can inspect the partial log of a failed run.
func Simulate(ctx context.Context, c *compiler.CompiledScenario, opts ...engine.EngineOption) (*Result, error) {
	return SimulateTimeline(ctx, c.Timeline, c.TeamConfig, c.EnemyConfig, c.Actors, opts...)
}

// SimulateTimeline is Simulate for callers that assembled the pieces of a
// compiled scenario themselves.
func SimulateTimeline(
	ctx context.Context,
	timeline *compiler.ResolvedTimeline,
	team ir.TeamConfig,
	enemy ir.EnemyConfig,
	actors []ir.ActorSnapshot,
	opts ...engine.EngineOption,
) (*Result, error) {
	base := []engine.EngineOption{engine.WithActions(timeline)}
	if timeline.TimeContext != nil {
		base = append(base, engine.WithShifter(timeline.TimeContext.ShiftedTime))
	}
	e := engine.New(team, enemy, actors, append(base, opts...)...)
	handlers.Register(e)

	for _, action := range timeline.Actions {
		Seed(e, action)
	}

	game, err := e.Run(ctx)
	return &Result{
		State:   game,
		Log:     e.Log(),
		Events:  e.Dispatched(),
		Pending: e.QueueLen(),
	}, err
}

// Seed enqueues the events one resolved action contributes to a run.
// Expirations are not seeded; the EffectStart handler schedules them.
func Seed(e *engine.Engine, action *ir.ResolvedAction) {
	node := action.Action
	e.Enqueue(engine.ActionStartEvent{
		Time:           action.RealStartTime,
		SkillID:        node.ID,
		ActionID:       action.ID,
		ActorID:        action.TrackID,
		ActionType:     node.Type,
		SpCost:         node.SpCost,
		FreezeDuration: action.FreezeDuration,
	})
	e.Enqueue(engine.ActionEndEvent{
		Time:       action.RealEndTime(),
		SkillID:    node.ID,
		ActionID:   action.ID,
		ActorID:    action.TrackID,
		ActionType: node.Type,
		SpGain:     node.SpGain,
	})

	for _, tick := range action.ResolvedDamageTicks {
		e.Enqueue(engine.DamageTickEvent{
			Time:     tick.RealTime,
			SourceID: action.TrackID,
			TargetID: handlers.TargetEnemy,
			ActionID: action.ID,
			Tick:     tick,
		})
	}

	for _, eff := range action.Effects {
		var reason engine.EndReason
		if eff.IsConsumed {
			reason = engine.EndConsumption
		}
		e.Enqueue(engine.EffectStartEvent{
			Time:      eff.RealStartTime,
			TargetID:  handlers.TargetEnemy,
			SourceID:  action.TrackID,
			ActionID:  action.ID,
			Effect:    effects.FromAnomaly(eff, eff.DisplayDuration),
			EndReason: reason,
		})
	}
}
