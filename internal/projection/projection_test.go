package projection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

func initial() state.Snapshot {
	return state.Snapshot{
		Team: state.TeamSnapshot{Sp: 200, MaxSp: 300, SpRegenRate: 8},
	}
}

func TestSpSeries(t *testing.T) {
	tests := []struct {
		name string
		log  []engine.LogEntry
		want []SpPoint
	}{
		{
			name: "empty log regenerates to max",
			want: []SpPoint{{0, 200, ""}, {12.5, 300, ""}, {120, 300, ""}},
		},
		{
			name: "skill pause then cost",
			log: []engine.LogEntry{
				engine.ActionStartEntry{Time: 1, SkillID: "s"},
				engine.SpRegenPauseEntry{Time: 1, Duration: 0.5, Sp: 208},
				engine.SpChangeEntry{Time: 1, Change: -100, Sp: 108, SourceID: "s1"},
			},
			want: []SpPoint{
				{0, 200, ""},
				{1, 208, ""},
				{1, 108, "s1"},
				{1.5, 108, ""},
				{25.5, 300, ""},
				{120, 300, ""},
			},
		},
		{
			name: "pause ends before the next change",
			log: []engine.LogEntry{
				engine.SpRegenPauseEntry{Time: 0, Duration: 1, Sp: 200},
				engine.SpChangeEntry{Time: 3, Change: 10, Sp: 226, SourceID: "x"},
			},
			want: []SpPoint{
				{0, 200, ""},
				{1, 200, ""},
				{3, 216, ""},
				{3, 226, "x"},
				{12.25, 300, ""},
				{120, 300, ""},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SpSeries(tt.log, initial(), 120))
		})
	}
}

func TestSpSeriesDefaultHorizon(t *testing.T) {
	series := SpSeries(nil, initial(), 0)
	require.NotEmpty(t, series)
	assert.Equal(t, DefaultHorizon, series[len(series)-1].Time)
}

func TestStaggerSeries(t *testing.T) {
	nodeEnd, breakEnd := 4.0, 15.0
	node := 1
	log := []engine.LogEntry{
		engine.StaggerEntry{Time: 0, Amount: 30, Stagger: 30},
		engine.SpChangeEntry{Time: 1},
		engine.StaggerEntry{Time: 2, Amount: 30, Stagger: 60, NodeReachedIndex: &node, NodeEndTime: &nodeEnd},
		engine.StaggerEntry{Time: 5, Amount: 40, Stagger: 0, IsBroken: true, BreakEndTime: &breakEnd},
	}
	cfg := ir.EnemyConfig{MaxStagger: 100, StaggerNodeCount: 1}

	data := StaggerSeries(log, initial(), cfg, 20)

	assert.Equal(t, 50.0, data.NodeStep)
	assert.Equal(t, []StaggerPoint{
		{0, 0},
		{0, 30},
		{2, 30},
		{2, 60},
		{5, 60},
		{5, 0},
		{20, 0},
	}, data.Points)
	assert.Equal(t, []Segment{{Start: 5, End: 15}}, data.LockSegments)
	assert.Equal(t, []NodeSegment{{Segment: Segment{Start: 2, End: 4}, NodeIndex: 1, Threshold: 50}}, data.NodeSegments)
}

func TestStaggerSeriesEmpty(t *testing.T) {
	data := StaggerSeries(nil, initial(), ir.DefaultSystemConstants().EnemyConfig, 0)
	assert.Equal(t, []StaggerPoint{{0, 0}, {DefaultHorizon, 0}}, data.Points)
	assert.Empty(t, data.LockSegments)
	assert.Empty(t, data.NodeSegments)
}
