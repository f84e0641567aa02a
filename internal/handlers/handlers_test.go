package handlers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

func newEngine(t *testing.T, mutate func(*ir.SystemConstants), actors ...ir.ActorSnapshot) *engine.Engine {
	t.Helper()
	c := ir.DefaultSystemConstants()
	if mutate != nil {
		mutate(&c)
	}
	e := engine.New(c.TeamConfig, c.EnemyConfig, actors)
	Register(e)
	return e
}

func run(t *testing.T, e *engine.Engine, events ...engine.Event) (*state.Game, []engine.LogEntry) {
	t.Helper()
	for _, ev := range events {
		e.Enqueue(ev)
	}
	game, err := e.Run(context.Background())
	require.NoError(t, err)
	return game, e.Log()
}

func types(log []engine.LogEntry) []engine.LogType {
	out := make([]engine.LogType, 0, len(log))
	for _, e := range log {
		out = append(out, e.Type())
	}
	return out
}

func ofType[E engine.LogEntry](log []engine.LogEntry) []E {
	var out []E
	for _, e := range log {
		if typed, ok := e.(E); ok {
			out = append(out, typed)
		}
	}
	return out
}

func TestRegisterCoversEveryEventType(t *testing.T) {
	events := []engine.Event{
		engine.ActionStartEvent{ActionType: ir.ActionAttack},
		engine.ActionEndEvent{ActionType: ir.ActionAttack},
		engine.DamageTickEvent{},
		engine.SpChangeEvent{},
		engine.SpRegenPauseEvent{},
		engine.EffectStartEvent{TargetID: "nobody", Effect: effects.New("noop")},
		engine.EffectEndEvent{TargetID: "enemy", InstanceID: "missing"},
		engine.StaggerChangeEvent{},
	}
	require.Len(t, events, len(engine.EventTypes))

	for _, ev := range events {
		t.Run(string(ev.Type()), func(t *testing.T) {
			e := newEngine(t, nil)
			e.Enqueue(ev)
			_, err := e.Run(context.Background())
			assert.NoError(t, err)
		})
	}
}

func TestActionStartSkill(t *testing.T) {
	game, log := run(t, newEngine(t, nil), engine.ActionStartEvent{
		Time: 1, SkillID: "skill_a", ActionID: "inst_a", ActorID: "alpha",
		ActionType: ir.ActionSkill, SpCost: 100,
	})

	assert.Equal(t, []engine.LogType{engine.LogActionStart, engine.LogSpRegenPause, engine.LogSpChange}, types(log))

	pause := ofType[engine.SpRegenPauseEntry](log)[0]
	assert.Equal(t, 0.5, pause.Duration)
	assert.Equal(t, "alpha", pause.SourceID)
	assert.Equal(t, 208.0, pause.Sp)

	change := ofType[engine.SpChangeEntry](log)[0]
	assert.Equal(t, -100.0, change.Change)
	assert.Equal(t, 108.0, change.Sp)
	assert.Equal(t, engine.SpReasonSkill, change.Reason)
	assert.Equal(t, "inst_a", change.SourceID)

	assert.Equal(t, 0.5, game.Team.Snapshot().SpRegenPauseDuration)
}

func TestActionStartFreezePause(t *testing.T) {
	freeze := 0.2
	tests := []struct {
		name   string
		ev     engine.ActionStartEvent
		expect float64
	}{
		{"link with freeze", engine.ActionStartEvent{ActionType: ir.ActionLink, FreezeDuration: &freeze}, 0.2},
		{"ultimate default", engine.ActionStartEvent{ActionType: ir.ActionUltimate}, 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, log := run(t, newEngine(t, nil), tt.ev)
			pauses := ofType[engine.SpRegenPauseEntry](log)
			require.Len(t, pauses, 1)
			assert.Equal(t, tt.expect, pauses[0].Duration)
		})
	}
}

func TestActionStartAttackNoSideEffects(t *testing.T) {
	_, log := run(t, newEngine(t, nil), engine.ActionStartEvent{ActionType: ir.ActionAttack})
	assert.Equal(t, []engine.LogType{engine.LogActionStart}, types(log))
}

func TestActionEnd(t *testing.T) {
	t.Run("sp gain", func(t *testing.T) {
		_, log := run(t, newEngine(t, nil), engine.ActionEndEvent{ActionType: ir.ActionExecution, SpGain: 30, ActionID: "x"})
		changes := ofType[engine.SpChangeEntry](log)
		require.Len(t, changes, 1)
		assert.Equal(t, 30.0, changes[0].Change)
		assert.Equal(t, engine.SpReasonSkill, changes[0].Reason, "gain wins over execution recovery")
	})

	t.Run("execution recovery", func(t *testing.T) {
		e := newEngine(t, func(c *ir.SystemConstants) { c.ExecutionRecovery = 40 })
		_, log := run(t, e, engine.ActionEndEvent{ActionType: ir.ActionExecution, ActionID: "x"})
		changes := ofType[engine.SpChangeEntry](log)
		require.Len(t, changes, 1)
		assert.Equal(t, 40.0, changes[0].Change)
		assert.Equal(t, engine.SpReasonExecution, changes[0].Reason)
	})

	t.Run("plain end", func(t *testing.T) {
		_, log := run(t, newEngine(t, nil), engine.ActionEndEvent{ActionType: ir.ActionSkill})
		assert.Equal(t, []engine.LogType{engine.LogActionEnd}, types(log))
	})
}

func TestDamageTick(t *testing.T) {
	tick := ir.ResolvedDamageTick{DamageTick: ir.DamageTick{Stagger: 10, SP: 5}, RealTime: 2}
	game, log := run(t, newEngine(t, nil), engine.DamageTickEvent{
		Time: 2, SourceID: "alpha", TargetID: "enemy", ActionID: "inst", Tick: tick,
	})

	assert.Equal(t, []engine.LogType{engine.LogDamageTick, engine.LogStagger, engine.LogSpChange}, types(log))
	assert.Equal(t, 10.0, game.Enemy.Stagger())

	dmg := ofType[engine.DamageTickEntry](log)[0]
	assert.Equal(t, 0.0, dmg.Damage)
	assert.Equal(t, 10.0, dmg.Stagger)

	sp := ofType[engine.SpChangeEntry](log)[0]
	assert.Equal(t, engine.SpReasonDamage, sp.Reason)
	assert.Equal(t, 5.0, sp.Change)
}

func TestDamageTickWithoutStaggerOrSp(t *testing.T) {
	_, log := run(t, newEngine(t, nil), engine.DamageTickEvent{Time: 0})
	assert.Equal(t, []engine.LogType{engine.LogDamageTick}, types(log))
}

func TestSpChangeIsUnclamped(t *testing.T) {
	game, log := run(t, newEngine(t, nil),
		engine.SpChangeEvent{Amount: -250, Reason: engine.SpReasonSkill},
		engine.SpChangeEvent{Amount: 400, Reason: engine.SpReasonSkill},
	)

	changes := ofType[engine.SpChangeEntry](log)
	require.Len(t, changes, 2)
	assert.Equal(t, -50.0, changes[0].Sp)
	assert.Equal(t, 350.0, changes[1].Sp)
	assert.Equal(t, 350.0, game.Team.Sp())
}

func TestSpRegenPauseAccumulates(t *testing.T) {
	game, _ := run(t, newEngine(t, nil),
		engine.SpRegenPauseEvent{Time: 0, Duration: 0.5},
		engine.SpRegenPauseEvent{Time: 0, Duration: 1.5},
		engine.SpChangeEvent{Time: 3},
	)
	assert.Equal(t, 208.0, game.Team.Sp())
}

func TestStaggerChangeBreak(t *testing.T) {
	game, log := run(t, newEngine(t, nil),
		engine.StaggerChangeEvent{Time: 1, Amount: 60, ActorID: "alpha", ActionID: "a"},
		engine.StaggerChangeEvent{Time: 2, Amount: 40, ActorID: "alpha", ActionID: "b"},
		engine.StaggerChangeEvent{Time: 3, Amount: 40, ActorID: "alpha", ActionID: "c"},
	)

	entries := ofType[engine.StaggerEntry](log)
	require.Len(t, entries, 3)

	assert.False(t, entries[0].IsBroken)
	assert.Equal(t, 60.0, entries[0].Stagger)

	assert.True(t, entries[1].IsBroken)
	require.NotNil(t, entries[1].BreakEndTime)
	assert.Equal(t, 12.0, *entries[1].BreakEndTime)
	assert.Equal(t, 0.0, entries[1].Stagger)

	assert.True(t, entries[2].IsBroken)
	assert.Nil(t, entries[2].BreakEndTime)
	assert.Equal(t, 0.0, game.Enemy.Stagger(), "stagger during a break is dropped")
}

func TestStaggerChangeNodes(t *testing.T) {
	e := newEngine(t, func(c *ir.SystemConstants) { c.StaggerNodeCount = 1 })
	_, log := run(t, e, engine.StaggerChangeEvent{Time: 0, Amount: 55})

	entries := ofType[engine.StaggerEntry](log)
	require.Len(t, entries, 1)
	require.NotNil(t, entries[0].NodeReachedIndex)
	assert.Equal(t, 1, *entries[0].NodeReachedIndex)
	assert.Equal(t, 2.0, *entries[0].NodeEndTime)
}

func TestStaggerChangeKnockBonus(t *testing.T) {
	actor := ir.ActorSnapshot{ID: "alpha", Stats: ir.ActorStats{ir.StatOriginiumArtsPower: 100}}
	e := newEngine(t, nil, actor)

	// The first lift only sets up vulnerability; the second one sticks.
	game, log := run(t, e,
		engine.EffectStartEvent{Time: 0, TargetID: "enemy", Effect: effectsLift()},
		engine.EffectStartEvent{Time: 0.5, TargetID: "enemy", Effect: effectsLift()},
		engine.StaggerChangeEvent{Time: 1, Amount: 10, ActorID: "alpha"},
		engine.StaggerChangeEvent{Time: 1, Amount: 10, ActorID: "ghost"},
	)

	entries := ofType[engine.StaggerEntry](log)
	require.Len(t, entries, 2)
	assert.Equal(t, 15.0, entries[0].Amount)
	assert.Equal(t, 10.0, entries[1].Amount, "unknown actors have no arts power")
	assert.Equal(t, 25.0, game.Enemy.Stagger())
}

func TestStaggerChangeIgnoresNonPositive(t *testing.T) {
	game, log := run(t, newEngine(t, nil), engine.StaggerChangeEvent{Time: 0, Amount: -5})
	assert.Empty(t, log)
	assert.Equal(t, 0.0, game.Enemy.Stagger())
}
