// Package projection derives display curves from a simulation log. The
// curves are for charts: they clamp nothing and schedule nothing.
package projection

import (
	"math"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/state"
)

// DefaultHorizon is the chart length used when none is given.
const DefaultHorizon = 120.0

// SpPoint is one vertex of the SP curve. ActionID is set on the vertex an
// SP change lands on.
type SpPoint struct {
	Time     float64 `json:"time"`
	Sp       float64 `json:"sp"`
	ActionID string  `json:"actionId,omitempty"`
}

// SpSeries rebuilds the team SP curve from SP_CHANGE and SP_REGEN_PAUSE
// entries. Between entries SP regenerates linearly; pauses hold it flat.
// After the last entry the curve regenerates to max and then runs flat to
// horizon.
func SpSeries(log []engine.LogEntry, initial state.Snapshot, horizon float64) []SpPoint {
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	var (
		lastTime    float64
		lastValue   = initial.Team.Sp
		frozenUntil float64
	)
	series := []SpPoint{{Time: 0, Sp: lastValue}}

	for i, entry := range log {
		var arrival float64
		switch e := entry.(type) {
		case engine.SpChangeEntry:
			arrival = e.Sp - e.Change
		case engine.SpRegenPauseEntry:
			arrival = e.Sp
		default:
			continue
		}
		now := entry.At()

		if now > lastTime {
			switch {
			case frozenUntil > lastTime && frozenUntil < now:
				series = append(series,
					SpPoint{Time: frozenUntil, Sp: lastValue},
					SpPoint{Time: now, Sp: arrival})
			case frozenUntil > lastTime:
				series = append(series, SpPoint{Time: now, Sp: lastValue})
				arrival = lastValue
			default:
				series = append(series, SpPoint{Time: now, Sp: arrival})
			}
		}

		switch e := entry.(type) {
		case engine.SpChangeEntry:
			lastValue = e.Sp
			series = append(series, SpPoint{Time: now, Sp: lastValue, ActionID: e.SourceID})
		case engine.SpRegenPauseEntry:
			lastValue = arrival
			freezeEnd := now + e.Duration
			frozenUntil = math.Max(frozenUntil, freezeEnd)

			if nextSpTime(log[i+1:]) > freezeEnd {
				series = append(series, SpPoint{Time: freezeEnd, Sp: lastValue})
				lastTime = math.Max(lastTime, freezeEnd)
			}
		}
		lastTime = math.Max(lastTime, now)
	}

	if frozenUntil > lastTime {
		series = append(series, SpPoint{Time: frozenUntil, Sp: lastValue})
		lastTime = frozenUntil
	}

	maxSp := initial.Team.MaxSp
	regenEnd := lastTime
	if rate := initial.Team.SpRegenRate; rate > 0 {
		regenEnd += (maxSp - lastValue) / rate
	}
	series = append(series, SpPoint{Time: regenEnd, Sp: maxSp})
	if regenEnd < horizon {
		series = append(series, SpPoint{Time: horizon, Sp: maxSp})
	}
	return series
}

// nextSpTime returns the time of the first SP entry in rest, +Inf if none.
func nextSpTime(rest []engine.LogEntry) float64 {
	for _, entry := range rest {
		switch entry.(type) {
		case engine.SpChangeEntry, engine.SpRegenPauseEntry:
			return entry.At()
		}
	}
	return math.Inf(1)
}
