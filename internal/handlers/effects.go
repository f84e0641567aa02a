package handlers

import (
	"errors"
	"fmt"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/reaction"
	"github.com/roach88/rotasim/internal/state"
)

// Target ids that address the enemy rather than an actor.
const (
	TargetEnemy = "enemy"
	TargetBoss  = "boss"
)

func targetEffects(ctx *engine.Context, targetID string) (*state.EffectManager, bool) {
	if targetID == TargetEnemy || targetID == TargetBoss || targetID == "" {
		return ctx.State().Enemy.Effects, true
	}
	if actor, ok := ctx.State().Actor(targetID); ok {
		return actor.Effects, true
	}
	return nil, false
}

// EffectStart resolves reactions against the target's current effects, then
// applies the incoming effect unless a reaction cancelled it. Finite effects
// get an expiration scheduled at their end.
func EffectStart(ev engine.EffectStartEvent, ctx *engine.Context) error {
	if ev.Effect == nil {
		return fmt.Errorf("effect start at %.3f has no effect", ev.Time)
	}
	target, ok := targetEffects(ctx, ev.TargetID)
	if !ok {
		return nil
	}

	incoming := ev.Effect.Clone()
	incoming.StartTime = ev.Time

	ctx.Log(engine.EffectStartEntry{
		Time:     ev.Time,
		TargetID: ev.TargetID,
		Effect:   incoming.Snapshot(),
	})

	res, err := reaction.Check(target, incoming)
	if err != nil {
		if errors.Is(err, reaction.ErrInvariant) {
			return engine.NewInvariantError(ev, err)
		}
		return err
	}

	if res != nil {
		ctx.Log(engine.ReactionEntry{
			Time:         ev.Time,
			TargetID:     ev.TargetID,
			ReactionName: res.Name,
		})
		for _, id := range res.RemoveIDs {
			ctx.Enqueue(engine.EffectEndEvent{
				Time:       ctx.Now(),
				TargetID:   ev.TargetID,
				InstanceID: id,
				Reason:     engine.EndConsumption,
			})
		}
		for _, spawned := range res.SpawnEffects {
			ctx.Enqueue(engine.EffectStartEvent{
				Time:     ctx.Now(),
				TargetID: ev.TargetID,
				SourceID: ev.SourceID,
				ActionID: ev.ActionID,
				Effect:   spawned,
			})
		}
		if res.CancelIncoming {
			return nil
		}
	}

	inst := target.Add(incoming)
	ctx.Log(engine.EffectAppliedEntry{
		Time:       ev.Time,
		TargetID:   ev.TargetID,
		EffectID:   inst.Effect.ID,
		InstanceID: inst.ID,
		Name:       inst.Effect.Name,
		Tags:       inst.Effect.Tags,
		Stacks:     inst.Effect.CurrentStacks,
	})

	if !inst.Effect.IsPermanent() {
		reason := ev.EndReason
		if reason == "" {
			reason = engine.EndExpiration
		}
		ctx.Enqueue(engine.EffectEndEvent{
			Time:       ir.Round3(inst.Effect.EndTime()),
			TargetID:   ev.TargetID,
			InstanceID: inst.ID,
			Reason:     reason,
			Scheduled:  true,
		})
	}
	return nil
}

// EffectEnd removes an effect instance. Instances that are already gone, and
// expirations or scheduled ends for instances whose end was pushed back by
// stacking, are ignored.
func EffectEnd(ev engine.EffectEndEvent, ctx *engine.Context) error {
	target, ok := targetEffects(ctx, ev.TargetID)
	if !ok {
		return nil
	}
	inst, ok := target.Get(ev.InstanceID)
	if !ok {
		return nil
	}
	if (ev.Reason == engine.EndExpiration || ev.Scheduled) && inst.Effect.EndTime() > ev.Time+ir.Epsilon {
		return nil
	}

	target.Remove(ev.InstanceID)
	ctx.Log(engine.EffectEndEntry{
		Time:       ev.Time,
		TargetID:   ev.TargetID,
		InstanceID: ev.InstanceID,
		Reason:     ev.Reason,
	})
	return nil
}
