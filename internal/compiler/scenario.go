package compiler

import (
	"fmt"

	"github.com/roach88/rotasim/internal/ir"
)

// NormalizedScenario is a scenario with defaults filled in and every action
// flattened into a track-tagged node.
type NormalizedScenario struct {
	Tracks  []ir.ScenarioTrack
	Actions []ir.ActionNode
	Actors  []ir.ActorSnapshot
}

// CompiledScenario is the input to a simulation run.
type CompiledScenario struct {
	Timeline        *ResolvedTimeline  `json:"timeline"`
	Actors          []ir.ActorSnapshot `json:"actors"`
	TeamConfig      ir.TeamConfig      `json:"teamConfig"`
	EnemyConfig     ir.EnemyConfig     `json:"enemyConfig"`
	SystemConstants ir.SystemConstants `json:"systemConstants"`
}

// deprecatedStats maps legacy per-track fields to the stat key replacing them.
var deprecatedStats = []struct {
	key string
	get func(ir.ScenarioTrack) float64
}{
	{ir.StatOriginiumArtsPower, func(t ir.ScenarioTrack) float64 { return t.OriginiumArtsPower }},
	{ir.StatUltChargeEff, func(t ir.ScenarioTrack) float64 { return t.GaugeEfficiency }},
	{ir.StatLinkCdReduction, func(t ir.ScenarioTrack) float64 { return t.LinkCdReduction }},
}

// NormalizeScenario fills default stats, migrates deprecated track fields,
// NFC-normalises identifiers and flattens actions. The input is not
// modified.
func NormalizeScenario(s ir.ScenarioData) NormalizedScenario {
	out := NormalizedScenario{Tracks: make([]ir.ScenarioTrack, len(s.Tracks))}

	for i, track := range s.Tracks {
		track.ID = ir.NormalizeID(track.ID)

		stats := ir.DefaultActorStats()
		for _, d := range deprecatedStats {
			if _, set := track.Stats[d.key]; !set && d.get(track) != 0 {
				stats[d.key] = d.get(track)
			}
		}
		for k, v := range track.Stats {
			stats[k] = v
		}
		track.Stats = stats

		actions := make([]ir.Action, len(track.Actions))
		for j, a := range track.Actions {
			actions[j] = normalizeAction(a)
		}
		track.Actions = actions
		out.Tracks[i] = track

		trackID := track.ID
		if trackID == "" {
			trackID = fmt.Sprintf("track_%d", i)
		}
		for _, a := range actions {
			out.Actions = append(out.Actions, ir.ActionNode{
				ID:         a.InstanceID,
				TrackIndex: i,
				TrackID:    trackID,
				Action:     a,
			})
		}

		if track.ID != "" {
			out.Actors = append(out.Actors, ir.ActorSnapshot{
				ID:    track.ID,
				Stats: stats.Clone(),
				Resources: ir.ActorResources{
					HP:    stats.Get(ir.StatHP),
					Gauge: track.InitialGauge,
				},
			})
		}
	}
	return out
}

func normalizeAction(a ir.Action) ir.Action {
	a.ID = ir.NormalizeID(a.ID)
	a.InstanceID = ir.NormalizeID(a.InstanceID)
	if len(a.PhysicalAnomaly) > 0 {
		grid := make([][]ir.Anomaly, len(a.PhysicalAnomaly))
		for r, row := range a.PhysicalAnomaly {
			grid[r] = make([]ir.Anomaly, len(row))
			for c, an := range row {
				an.ID = ir.NormalizeID(an.ID)
				grid[r][c] = an
			}
		}
		a.PhysicalAnomaly = grid
	}
	return a
}

func normalizeConnections(conns []ir.Connection) []ir.Connection {
	out := make([]ir.Connection, len(conns))
	for i, c := range conns {
		c.From = ir.NormalizeID(c.From)
		c.To = ir.NormalizeID(c.To)
		c.FromEffectID = ir.NormalizeID(c.FromEffectID)
		c.ToEffectID = ir.NormalizeID(c.ToEffectID)
		out[i] = c
	}
	return out
}

// CompileOption configures CompileScenario.
type CompileOption func(*compileOptions)

type compileOptions struct {
	overrides []*ir.ConstantOverrides
}

// WithConstants applies caller overrides on top of the built-in defaults.
// Scenario-embedded constants still win. May be given more than once; later
// calls win.
func WithConstants(o *ir.ConstantOverrides) CompileOption {
	return func(c *compileOptions) {
		c.overrides = append(c.overrides, o)
	}
}

// MergeConstants resolves the effective constants for a scenario:
// defaults < caller overrides < scenario systemConstants < scenario
// customEnemyParams (enemy fields only).
func MergeConstants(s ir.ScenarioData, caller ...*ir.ConstantOverrides) ir.SystemConstants {
	merged := ir.DefaultSystemConstants()
	for _, o := range caller {
		merged = merged.Apply(o)
	}
	merged = merged.Apply(s.SystemConstants)
	return merged.ApplyEnemy(s.CustomEnemyParams)
}

// CompileScenario normalises a scenario, resolves its timeline and merges
// its constants.
func CompileScenario(s ir.ScenarioData, opts ...CompileOption) *CompiledScenario {
	var o compileOptions
	for _, opt := range opts {
		opt(&o)
	}

	norm := NormalizeScenario(s)
	constants := MergeConstants(s, o.overrides...)

	return &CompiledScenario{
		Timeline:        CompileTimeline(norm.Actions, normalizeConnections(s.Connections)),
		Actors:          norm.Actors,
		TeamConfig:      constants.TeamConfig,
		EnemyConfig:     constants.EnemyConfig,
		SystemConstants: constants,
	}
}
