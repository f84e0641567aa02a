package sim

import (
	"context"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// freezeScenario: an ultimate at 2 freezes for 2s and pushes the skill
// authored at 3 to 4. The two hits break the enemy.
func freezeScenario() ir.ScenarioData {
	return ir.ScenarioData{
		Tracks: []ir.ScenarioTrack{
			{
				ID: "alpha",
				Actions: []ir.Action{{
					ID: "alpha_ult", InstanceID: "u1", Type: ir.ActionUltimate,
					StartTime: 2, Duration: 5, AnimationTime: 2,
					DamageTicks: []ir.DamageTick{{Offset: 1, Stagger: 60}},
				}},
			},
			{
				ID: "beta",
				Actions: []ir.Action{{
					ID: "beta_skill", InstanceID: "s1", Type: ir.ActionSkill,
					StartTime: 3, Duration: 1, SpCost: 100,
					DamageTicks: []ir.DamageTick{{Offset: 0.5, Stagger: 50, SP: 10}},
					PhysicalAnomaly: [][]ir.Anomaly{{
						{ID: "heat", Type: "blaze_attach", Duration: 3, Stacks: 1},
					}},
				}},
			},
		},
	}
}

func TestSimulateEndToEnd(t *testing.T) {
	compiled := compiler.CompileScenario(freezeScenario())

	skill, ok := compiled.Timeline.Action("s1")
	require.True(t, ok)
	assert.Equal(t, 4.0, skill.RealStartTime)
	assert.Equal(t, 1.0, skill.RealDuration)

	res, err := Simulate(context.Background(), compiled)
	require.NoError(t, err)

	assert.Equal(t, 146.0, res.State.Team.Sp())
	assert.Equal(t, 0.0, res.State.Enemy.Stagger())
	assert.Equal(t, 14.5, res.State.Enemy.BreakEndTime())
	assert.Equal(t, 7.0, res.State.CurrentTime())
	assert.Equal(t, 0, res.Pending)
	assert.GreaterOrEqual(t, res.Events, 7)
	assert.Equal(t, 0, res.State.Enemy.Effects.Len())

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "freeze_and_break", []byte(FormatLog(res.Log)))
}

func TestSimulateDrainsEveryActionOnBothTracks(t *testing.T) {
	s := freezeScenario()
	for i := range s.Tracks {
		s.Tracks[i].Actions[0].DamageTicks = nil
		s.Tracks[i].Actions[0].PhysicalAnomaly = nil
	}

	res, err := Simulate(context.Background(), compiler.CompileScenario(s))
	require.NoError(t, err)

	var starts, ends []string
	for _, entry := range res.Log {
		switch e := entry.(type) {
		case engine.ActionStartEntry:
			starts = append(starts, e.ActionID)
		case engine.ActionEndEntry:
			ends = append(ends, e.ActionID)
		}
	}
	assert.Equal(t, []string{"u1", "s1"}, starts)
	assert.Equal(t, []string{"s1", "u1"}, ends)
}

func TestSimulateLogIsTimeOrdered(t *testing.T) {
	res, err := Simulate(context.Background(), compiler.CompileScenario(freezeScenario()))
	require.NoError(t, err)

	for i := 1; i < len(res.Log); i++ {
		assert.LessOrEqual(t, res.Log[i-1].At(), res.Log[i].At())
	}
}

func TestSimulateIsDeterministic(t *testing.T) {
	first, err := Simulate(context.Background(), compiler.CompileScenario(freezeScenario()))
	require.NoError(t, err)
	second, err := Simulate(context.Background(), compiler.CompileScenario(freezeScenario()))
	require.NoError(t, err)

	assert.Equal(t, FormatLog(first.Log), FormatLog(second.Log))
}

func TestSimulateConsumedEffectEndsEarly(t *testing.T) {
	s := ir.ScenarioData{
		Tracks: []ir.ScenarioTrack{{
			ID: "alpha",
			Actions: []ir.Action{
				{
					ID: "apply", InstanceID: "a1", Type: ir.ActionAttack, Duration: 1,
					PhysicalAnomaly: [][]ir.Anomaly{{{ID: "burn", Type: "blaze_attach", Duration: 10}}},
				},
				{ID: "consume", InstanceID: "a2", Type: ir.ActionAttack, StartTime: 5, Duration: 1},
			},
		}},
		Connections: []ir.Connection{{
			ID: "c1", From: "a1", To: "a2", FromEffectID: "burn", IsConsumption: true,
		}},
	}

	res, err := Simulate(context.Background(), compiler.CompileScenario(s))
	require.NoError(t, err)

	var ends []engine.EffectEndEntry
	for _, entry := range res.Log {
		if e, ok := entry.(engine.EffectEndEntry); ok {
			ends = append(ends, e)
		}
	}
	require.Len(t, ends, 1)
	assert.Equal(t, 5.0, ends[0].Time)
	assert.Equal(t, engine.EndConsumption, ends[0].Reason)
}

func TestSimulateStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Simulate(ctx, compiler.CompileScenario(freezeScenario()))
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Empty(t, res.Log)
	assert.Equal(t, 0, res.Events)
	assert.Equal(t, 7, res.Pending, "seeded events of both actions stay queued")
}
