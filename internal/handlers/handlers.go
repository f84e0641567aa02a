// Package handlers implements the simulation's event handlers. They are the
// only code that mutates game state during a run.
package handlers

import (
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// skillRegenPause is how long a skill suspends SP regeneration.
const skillRegenPause = 0.5

// Register installs a handler for every event type on e.
func Register(e *engine.Engine) {
	e.Register(engine.EventActionStart, engine.Typed(ActionStart))
	e.Register(engine.EventActionEnd, engine.Typed(ActionEnd))
	e.Register(engine.EventDamageTick, engine.Typed(DamageTick))
	e.Register(engine.EventSpChange, engine.Typed(SpChange))
	e.Register(engine.EventSpRegenPause, engine.Typed(SpRegenPause))
	e.Register(engine.EventEffectStart, engine.Typed(EffectStart))
	e.Register(engine.EventEffectEnd, engine.Typed(EffectEnd))
	e.Register(engine.EventStaggerChange, NewStaggerChange())
}

// ActionStart logs the action, pauses SP regeneration for skills and freeze
// sources, and charges the action's SP cost.
func ActionStart(ev engine.ActionStartEvent, ctx *engine.Context) error {
	ctx.Log(engine.ActionStartEntry{
		Time:       ev.Time,
		SkillID:    ev.SkillID,
		ActionID:   ev.ActionID,
		ActionType: ev.ActionType,
		SpCost:     ev.SpCost,
	})

	if pause := regenPause(ev); pause > 0 {
		ctx.Enqueue(engine.SpRegenPauseEvent{
			Time:     ctx.Now(),
			Duration: pause,
			SourceID: ev.ActorID,
		})
	}

	if ev.SpCost > 0 {
		ctx.Enqueue(engine.SpChangeEvent{
			Time:     ctx.Now(),
			Amount:   -ev.SpCost,
			Reason:   engine.SpReasonSkill,
			SourceID: ev.ActionID,
		})
	}
	return nil
}

func regenPause(ev engine.ActionStartEvent) float64 {
	switch ev.ActionType {
	case ir.ActionSkill:
		return skillRegenPause
	case ir.ActionLink, ir.ActionUltimate:
		if ev.FreezeDuration != nil {
			return *ev.FreezeDuration
		}
		return ir.DefaultUltimateAnimation
	default:
		return 0
	}
}

// ActionEnd logs the action and grants its SP gain, or the enemy's execution
// recovery for executions that grant nothing themselves.
func ActionEnd(ev engine.ActionEndEvent, ctx *engine.Context) error {
	ctx.Log(engine.ActionEndEntry{
		Time:       ev.Time,
		SkillID:    ev.SkillID,
		ActionID:   ev.ActionID,
		ActionType: ev.ActionType,
		SpGain:     ev.SpGain,
	})

	switch {
	case ev.SpGain > 0:
		ctx.Enqueue(engine.SpChangeEvent{
			Time:     ctx.Now(),
			Amount:   ev.SpGain,
			Reason:   engine.SpReasonSkill,
			SourceID: ev.ActionID,
		})
	case ev.ActionType == ir.ActionExecution:
		ctx.Enqueue(engine.SpChangeEvent{
			Time:     ctx.Now(),
			Amount:   ctx.State().Enemy.Config().ExecutionRecovery,
			Reason:   engine.SpReasonExecution,
			SourceID: ev.ActionID,
		})
	}
	return nil
}

// DamageTick logs the hit and forwards its stagger and SP.
func DamageTick(ev engine.DamageTickEvent, ctx *engine.Context) error {
	ctx.Log(engine.DamageTickEntry{
		Time:     ev.Time,
		TargetID: ev.TargetID,
		SourceID: ev.SourceID,
		ActionID: ev.ActionID,
		Damage:   ev.Damage,
		Stagger:  ev.Tick.Stagger,
		Tick:     ev.Tick,
	})

	if ev.Tick.Stagger > 0 {
		ctx.Enqueue(engine.StaggerChangeEvent{
			Time:     ctx.Now(),
			Amount:   ev.Tick.Stagger,
			ActorID:  ev.SourceID,
			ActionID: ev.ActionID,
			TargetID: ev.TargetID,
		})
	}

	if ev.Tick.SP > 0 {
		ctx.Enqueue(engine.SpChangeEvent{
			Time:     ctx.Now(),
			Amount:   ev.Tick.SP,
			Reason:   engine.SpReasonDamage,
			SourceID: ev.ActionID,
		})
	}
	return nil
}

// SpChange applies the delta to the team pool without clamping.
func SpChange(ev engine.SpChangeEvent, ctx *engine.Context) error {
	sp := ctx.State().Team.ModifySp(ev.Amount)
	ctx.Log(engine.SpChangeEntry{
		Time:     ev.Time,
		Sp:       sp,
		Change:   ev.Amount,
		SourceID: ev.SourceID,
		Reason:   ev.Reason,
	})
	return nil
}

// SpRegenPause logs and then extends the regeneration pause.
func SpRegenPause(ev engine.SpRegenPauseEvent, ctx *engine.Context) error {
	team := ctx.State().Team
	ctx.Log(engine.SpRegenPauseEntry{
		Time:     ev.Time,
		SourceID: ev.SourceID,
		Duration: ev.Duration,
		Sp:       team.Sp(),
	})
	team.PauseSpRegen(ev.Duration)
	return nil
}
