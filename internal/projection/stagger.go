package projection

import (
	"math"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/state"
)

// StaggerPoint is one vertex of the stagger curve.
type StaggerPoint struct {
	Time  float64 `json:"time"`
	Value float64 `json:"val"`
}

// Segment is a time window on the stagger chart.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// NodeSegment is the lock window opened by crossing a stagger node.
type NodeSegment struct {
	Segment
	NodeIndex int     `json:"nodeIndex"`
	Threshold float64 `json:"thresholdVal"`
}

// StaggerData is the stagger chart: the curve plus its break and node
// windows.
type StaggerData struct {
	Points       []StaggerPoint `json:"points"`
	LockSegments []Segment      `json:"lockSegments"`
	NodeSegments []NodeSegment  `json:"nodeSegments"`
	NodeStep     float64        `json:"nodeStep"`
}

// StaggerSeries rebuilds the stagger curve from STAGGER entries. Each entry
// becomes a vertical step; duplicate vertices are dropped and the curve is
// held flat to horizon.
func StaggerSeries(log []engine.LogEntry, initial state.Snapshot, cfg ir.EnemyConfig, horizon float64) StaggerData {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	data := StaggerData{
		LockSegments: []Segment{},
		NodeSegments: []NodeSegment{},
		NodeStep:     cfg.MaxStagger / float64(cfg.StaggerNodeCount+1),
	}

	current := initial.Enemy.Stagger
	points := []StaggerPoint{{Time: 0, Value: current}}

	for _, entry := range log {
		e, ok := entry.(engine.StaggerEntry)
		if !ok {
			continue
		}
		points = append(points, StaggerPoint{Time: e.Time, Value: current})
		current = e.Stagger
		points = append(points, StaggerPoint{Time: e.Time, Value: current})

		if e.IsBroken && e.BreakEndTime != nil {
			data.LockSegments = append(data.LockSegments, Segment{Start: e.Time, End: *e.BreakEndTime})
		}
		if e.NodeReachedIndex != nil && e.NodeEndTime != nil {
			data.NodeSegments = append(data.NodeSegments, NodeSegment{
				Segment:   Segment{Start: e.Time, End: *e.NodeEndTime},
				NodeIndex: *e.NodeReachedIndex,
				Threshold: float64(*e.NodeReachedIndex) * data.NodeStep,
			})
		}
	}

	data.Points = dedupe(points)
	data.Points = append(data.Points, StaggerPoint{Time: horizon, Value: current})
	return data
}

// samePoint is how close two stagger values at one instant must be to
// count as the same vertex.
const samePoint = 0.001

// dedupe drops a vertex that repeats the previous one.
func dedupe(points []StaggerPoint) []StaggerPoint {
	out := make([]StaggerPoint, 0, len(points))
	for _, p := range points {
		if n := len(out); n > 0 {
			prev := out[n-1]
			if p.Time == prev.Time && math.Abs(p.Value-prev.Value) < samePoint {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}
