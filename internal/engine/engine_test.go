package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

func newTestEngine(opts ...EngineOption) *Engine {
	c := ir.DefaultSystemConstants()
	return New(c.TeamConfig, c.EnemyConfig, []ir.ActorSnapshot{{ID: "alpha"}}, opts...)
}

func TestEngine_New(t *testing.T) {
	e := newTestEngine()

	require.NotNil(t, e.State())
	assert.Equal(t, 0, e.QueueLen())
	_, ok := e.State().Actor("alpha")
	assert.True(t, ok)
}

func TestEngine_RunEmpty(t *testing.T) {
	e := newTestEngine()

	game, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0.0, game.CurrentTime())
	assert.Empty(t, e.Log())
}

func TestEngine_NoHandlerIsFatal(t *testing.T) {
	e := newTestEngine()
	e.Enqueue(ActionStartEvent{Time: 1, SkillID: "s"})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsNoHandlerError(err))

	var re *RuntimeError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, EventActionStart, re.EventType)
	assert.Equal(t, 1.0, re.Time)
}

func TestEngine_DispatchOrderAndClock(t *testing.T) {
	e := newTestEngine()

	var seen []string
	var clocks []float64
	e.Register(EventSpChange, Typed(func(ev SpChangeEvent, ctx *Context) error {
		seen = append(seen, ev.SourceID)
		clocks = append(clocks, ctx.Now())
		return nil
	}))

	e.Enqueue(SpChangeEvent{Time: 2, SourceID: "c"})
	e.Enqueue(SpChangeEvent{Time: 1, SourceID: "a"})
	e.Enqueue(SpChangeEvent{Time: 1, SourceID: "b"})

	game, err := e.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c"}, seen)
	assert.Equal(t, []float64{1, 1, 2}, clocks)
	assert.Equal(t, 2.0, game.CurrentTime())
	assert.Equal(t, 216.0, game.Team.Sp(), "two seconds of regeneration")
	assert.Equal(t, 3, e.Dispatched())
}

func TestEngine_HandlersEnqueueFollowUps(t *testing.T) {
	e := newTestEngine()

	e.Register(EventActionStart, Typed(func(ev ActionStartEvent, ctx *Context) error {
		ctx.Log(ActionStartEntry{Time: ev.Time, SkillID: ev.SkillID})
		ctx.Enqueue(SpChangeEvent{Time: ctx.Now(), Amount: -ev.SpCost, SourceID: ev.ActionID})
		return nil
	}))
	e.Register(EventSpChange, Typed(func(ev SpChangeEvent, ctx *Context) error {
		sp := ctx.State().Team.ModifySp(ev.Amount)
		ctx.Log(SpChangeEntry{Time: ev.Time, Sp: sp, Change: ev.Amount, SourceID: ev.SourceID})
		return nil
	}))

	e.Enqueue(ActionStartEvent{Time: 0, SkillID: "skill", ActionID: "inst", SpCost: 100})

	game, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 100.0, game.Team.Sp())

	log := e.Log()
	require.Len(t, log, 2)
	assert.Equal(t, LogActionStart, log[0].Type())
	assert.Equal(t, SpChangeEntry{Time: 0, Sp: 100, Change: -100, SourceID: "inst"}, log[1])
}

func TestEngine_LogIsTimeOrdered(t *testing.T) {
	e := newTestEngine()
	e.Register(EventSpChange, Typed(func(ev SpChangeEvent, ctx *Context) error {
		ctx.Log(SpChangeEntry{Time: ev.Time + 5, SourceID: "late"})
		ctx.Log(SpChangeEntry{Time: ev.Time, SourceID: "now"})
		return nil
	}))
	e.Enqueue(SpChangeEvent{Time: 1})

	_, err := e.Run(context.Background())
	require.NoError(t, err)

	log := e.Log()
	require.Len(t, log, 2)
	assert.Equal(t, "now", log[0].(SpChangeEntry).SourceID)
	assert.Equal(t, "late", log[1].(SpChangeEntry).SourceID)
}

func TestEngine_HandlerErrorStopsRun(t *testing.T) {
	e := newTestEngine()
	boom := errors.New("boom")

	calls := 0
	e.Register(EventSpChange, HandlerFunc(func(Event, *Context) error {
		calls++
		return boom
	}))
	e.Enqueue(SpChangeEvent{Time: 1})
	e.Enqueue(SpChangeEvent{Time: 2})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.False(t, IsInvariantError(err))
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, e.QueueLen())
}

func TestEngine_InvariantErrorPassesThrough(t *testing.T) {
	e := newTestEngine()
	cause := errors.New("two elements")

	e.Register(EventEffectStart, HandlerFunc(func(ev Event, _ *Context) error {
		return NewInvariantError(ev, cause)
	}))
	e.Enqueue(EffectStartEvent{Time: 0})

	_, err := e.Run(context.Background())
	assert.True(t, IsInvariantError(err))
	assert.ErrorIs(t, err, cause)
}

func TestEngine_TypedRejectsOtherEvents(t *testing.T) {
	e := newTestEngine()
	e.Register(EventSpChange, Typed(func(SpRegenPauseEvent, *Context) error { return nil }))
	e.Enqueue(SpChangeEvent{Time: 0})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HANDLER_FAILED")
}

func TestEngine_ContextCancelled(t *testing.T) {
	e := newTestEngine()
	e.Register(EventSpChange, HandlerFunc(func(Event, *Context) error { return nil }))
	e.Enqueue(SpChangeEvent{Time: 0})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, e.QueueLen())
}

func TestEngine_ShifterOption(t *testing.T) {
	shift := func(start, duration float64) float64 { return start + duration + 1 }
	e := newTestEngine(WithShifter(shift))

	var got float64
	e.Register(EventStaggerChange, Typed(func(ev StaggerChangeEvent, ctx *Context) error {
		got = ctx.ShiftedTime(ctx.Now(), 2)
		ctx.State().Enemy.AddStagger(ev.Amount, ctx.Now())
		return nil
	}))
	e.Enqueue(StaggerChangeEvent{Time: 3, Amount: 100})

	game, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6.0, got)
	assert.Equal(t, 14.0, game.Enemy.BreakEndTime(), "break window goes through the shifter")
}

type lookup map[string]*ir.ResolvedAction

func (l lookup) Action(id string) (*ir.ResolvedAction, bool) {
	a, ok := l[id]
	return a, ok
}

func TestEngine_ActionLookup(t *testing.T) {
	action := &ir.ResolvedAction{RealStartTime: 4}
	e := newTestEngine(WithActions(lookup{"inst": action}))

	var found, missing bool
	e.Register(EventActionEnd, Typed(func(ev ActionEndEvent, ctx *Context) error {
		_, found = ctx.Action(ev.ActionID)
		_, missing = ctx.Action("nope")
		return nil
	}))
	e.Enqueue(ActionEndEvent{Time: 0, ActionID: "inst"})

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, found)
	assert.False(t, missing)
}

func TestEngine_Listener(t *testing.T) {
	var deltas []float64
	e := newTestEngine(
		WithListener(func(_ Event, before, after state.Snapshot) {
			deltas = append(deltas, after.Team.Sp-before.Team.Sp)
		}),
		WithListener(nil),
	)
	e.Register(EventSpChange, Typed(func(ev SpChangeEvent, ctx *Context) error {
		ctx.State().Team.ModifySp(ev.Amount)
		return nil
	}))
	e.Enqueue(SpChangeEvent{Time: 0, Amount: 10})
	e.Enqueue(SpChangeEvent{Time: 0, Amount: -20})

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{10, -20}, deltas)
}
