package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventBudget_WithinLimit(t *testing.T) {
	b := NewEventBudget(10)

	for i := 0; i < 10; i++ {
		assert.NoError(t, b.Check(SpChangeEvent{Time: 1}), "event %d should be allowed", i+1)
	}
	assert.Error(t, b.Check(SpChangeEvent{Time: 1}))
}

func TestEventBudget_ExceedsLimit(t *testing.T) {
	b := NewEventBudget(5)
	for i := 0; i < 5; i++ {
		require.NoError(t, b.Check(SpChangeEvent{Time: 1}))
	}

	err := b.Check(SpChangeEvent{Time: 2.5})
	require.Error(t, err)

	var be *BudgetExceededError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, EventSpChange, be.EventType)
	assert.Equal(t, 2.5, be.Time)
	assert.Equal(t, 6, be.Events)
	assert.Equal(t, 5, be.Limit)
	assert.True(t, IsBudgetExceededError(err))
	assert.True(t, IsBudgetExceededError(fmt.Errorf("wrapped: %w", err)))
}

func TestEventBudget_KeepsCountingPastLimit(t *testing.T) {
	b := NewEventBudget(1)
	require.NoError(t, b.Check(SpChangeEvent{}))
	require.Error(t, b.Check(SpChangeEvent{}))

	var be *BudgetExceededError
	require.ErrorAs(t, b.Check(SpChangeEvent{}), &be)
	assert.Equal(t, 3, be.Events)
}

func TestEventBudget_Unlimited(t *testing.T) {
	b := NewEventBudget(0)
	for i := 0; i < 1000; i++ {
		require.NoError(t, b.Check(SpChangeEvent{}))
	}
}

func TestEventBudget_Error(t *testing.T) {
	err := &BudgetExceededError{EventType: EventSpChange, Time: 3, Events: 4, Limit: 3}
	assert.Contains(t, err.Error(), "4 events > 3 limit")
	assert.False(t, IsBudgetExceededError(fmt.Errorf("other")))
}

func TestEngine_MaxEventsStopsRunawayHandler(t *testing.T) {
	e := newTestEngine(WithMaxEvents(50))

	calls := 0
	e.Register(EventSpChange, Typed(func(ev SpChangeEvent, ctx *Context) error {
		calls++
		ctx.Enqueue(SpChangeEvent{Time: ctx.Now(), SourceID: ev.SourceID})
		return nil
	}))
	e.Enqueue(SpChangeEvent{Time: 1, SourceID: "loop"})

	_, err := e.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsBudgetExceededError(err))
	assert.Equal(t, 50, calls)
	assert.Equal(t, 50, e.Dispatched())
}

func TestEngine_MaxEventsAllowsFiniteRun(t *testing.T) {
	e := newTestEngine(WithMaxEvents(3))
	e.Register(EventSpChange, HandlerFunc(func(Event, *Context) error { return nil }))
	for i := 0; i < 3; i++ {
		e.Enqueue(SpChangeEvent{Time: float64(i)})
	}

	_, err := e.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, e.Dispatched())
}
