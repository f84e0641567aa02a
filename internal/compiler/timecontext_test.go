package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/rotasim/internal/ir"
)

// fourFreezes is a timeline with freezes at game times 2.5, 4, 8 and 12.5
// lasting 0.5, 0.5, 0.5 and 3.5 seconds.
var fourFreezes = []ir.TimeExtension{
	{Time: 2.5, GameTime: 2.5, Amount: 0.5, SourceID: "inst_link_a", LogicalTime: 2.5, CumulativeFreezeTime: 0},
	{Time: 4.5, GameTime: 4.0, Amount: 0.5, SourceID: "inst_link_b", LogicalTime: 4.0, CumulativeFreezeTime: 0.5},
	{Time: 9.0, GameTime: 8.0, Amount: 0.5, SourceID: "inst_link_c", LogicalTime: 8.0, CumulativeFreezeTime: 1.0},
	{Time: 14.0, GameTime: 12.5, Amount: 3.5, SourceID: "inst_ult", LogicalTime: 12.5, CumulativeFreezeTime: 1.5},
}

func TestToGameTime(t *testing.T) {
	ctx := NewTimeContext(fourFreezes)

	tests := []struct {
		name string
		real float64
		want float64
	}{
		{"before any freeze", 1.0, 1.0},
		{"just before first freeze", 2.4, 2.4},
		{"at freeze start", 2.5, 2.5},
		{"inside freeze", 2.7, 2.5},
		{"end of freeze window", 2.99, 2.5},
		{"freeze end boundary", 3.0, 2.5},
		{"after one freeze", 4.0, 3.5},
		{"after two freezes", 6.1, 5.1},
		{"between second and third", 7.0, 6.0},
		{"after every freeze", 30.0, 25.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ctx.ToGameTime(tt.real))
		})
	}
}

func TestToRealTime(t *testing.T) {
	ctx := NewTimeContext(fourFreezes)

	assert.Equal(t, 1.0, ctx.ToRealTime(1.0), "before any freeze")
	assert.Equal(t, 2.5, ctx.ToRealTime(2.5), "exactly at freeze start")
	assert.Equal(t, 3.01, ctx.ToRealTime(2.51), "just after freeze start")
	assert.Equal(t, 7.0, ctx.ToRealTime(6.0), "two freezes accumulated")
}

func TestRoundTripOutsideFreeze(t *testing.T) {
	ctx := NewTimeContext(fourFreezes)
	for _, real := range []float64{1.0, 4.0, 7.0, 30.0} {
		assert.Equal(t, real, ctx.ToRealTime(ctx.ToGameTime(real)), "real=%v", real)
	}
}

func TestRoundTripCollapsesInsideFreeze(t *testing.T) {
	ctx := NewTimeContext(fourFreezes)
	// Every instant inside the first window maps to its start.
	for _, real := range []float64{2.5, 2.7, 2.99} {
		assert.Equal(t, 2.5, ctx.ToRealTime(ctx.ToGameTime(real)))
	}
}

func TestShiftedEndTime(t *testing.T) {
	ctx := NewTimeContext(fourFreezes)

	assert.Equal(t, 1.0, ctx.ShiftedEndTime(0, 1, ""), "no overlap")
	assert.Equal(t, 3.5, ctx.ShiftedEndTime(2.0, 1.0, ""), "one freeze")
	assert.Equal(t, 13.5, ctx.ShiftedEndTime(2.0, 10.0, ""), "three chained freezes")
	assert.Equal(t, 3.0, ctx.ShiftedEndTime(2.0, 1.0, "inst_link_a"), "excluded source")
}

func TestShiftedEndTimeFixpoint(t *testing.T) {
	// The first freeze pushes the limit past the second, which then applies.
	ctx := NewTimeContext([]ir.TimeExtension{
		{Time: 1.0, Amount: 1.0, SourceID: "a"},
		{Time: 2.5, Amount: 2.0, SourceID: "b"},
	})
	assert.Equal(t, 5.0, ctx.ShiftedEndTime(0, 2, ""))
	// Excluding the first means the interval never reaches the second.
	assert.Equal(t, 2.0, ctx.ShiftedEndTime(0, 2, "a"))
}

func TestShiftedEndTimeAdjacentFreezes(t *testing.T) {
	ctx := NewTimeContext([]ir.TimeExtension{
		{Time: 1.0, Amount: 0.5, SourceID: "a"},
		{Time: 1.5, Amount: 0.5, SourceID: "b"},
	})
	assert.Equal(t, 3.0, ctx.ShiftedEndTime(0, 2, ""))
}

func TestEmptyTimeContext(t *testing.T) {
	ctx := NewTimeContext(nil)
	assert.Equal(t, 4.2, ctx.ToGameTime(4.2))
	assert.Equal(t, 4.2, ctx.ToRealTime(4.2))
	assert.Equal(t, 5.0, ctx.ShiftedTime(2, 3))
}
