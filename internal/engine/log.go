package engine

import (
	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/ir"
)

// LogType discriminates the LogEntry union.
type LogType string

const (
	LogActionStart      LogType = "ACTION_START"
	LogActionEnd        LogType = "ACTION_END"
	LogDamageTick       LogType = "DAMAGE_TICK"
	LogSpChange         LogType = "SP_CHANGE"
	LogSpRegenPause     LogType = "SP_REGEN_PAUSE"
	LogStagger          LogType = "STAGGER"
	LogEffectStart      LogType = "EFFECT_START"
	LogReactionOccurred LogType = "REACTION_OCCURRED"
	LogEffectApplied    LogType = "EFFECT_APPLIED"
	LogEffectEnd        LogType = "EFFECT_END"
)

// LogEntry is a flat record of something that happened during a run. The
// set of implementations is closed.
type LogEntry interface {
	Timed
	Type() LogType
	isLogEntry()
}

// ActionStartEntry records an action starting.
type ActionStartEntry struct {
	Time       float64       `json:"-"`
	SkillID    string        `json:"skillId"`
	ActionID   string        `json:"actionId"`
	ActionType ir.ActionType `json:"type"`
	SpCost     float64       `json:"spCost,omitempty"`
}

// ActionEndEntry records an action finishing.
type ActionEndEntry struct {
	Time       float64       `json:"-"`
	SkillID    string        `json:"skillId"`
	ActionID   string        `json:"actionId"`
	ActionType ir.ActionType `json:"type"`
	SpGain     float64       `json:"spGain,omitempty"`
}

// DamageTickEntry records a hit.
type DamageTickEntry struct {
	Time     float64               `json:"-"`
	TargetID string                `json:"targetId"`
	SourceID string                `json:"sourceId"`
	ActionID string                `json:"actionId"`
	Damage   float64               `json:"damage"`
	Stagger  float64               `json:"stagger"`
	Tick     ir.ResolvedDamageTick `json:"tickData"`
}

// SpChangeEntry records a change to the team pool and its result.
type SpChangeEntry struct {
	Time     float64  `json:"-"`
	Sp       float64  `json:"sp"`
	Change   float64  `json:"change"`
	SourceID string   `json:"sourceId"`
	Reason   SpReason `json:"reason"`
}

// SpRegenPauseEntry records a regeneration pause.
type SpRegenPauseEntry struct {
	Time     float64 `json:"-"`
	SourceID string  `json:"sourceId"`
	Duration float64 `json:"duration"`
	Sp       float64 `json:"sp"`
}

// StaggerEntry records stagger applied to the enemy and its outcome.
type StaggerEntry struct {
	Time             float64  `json:"-"`
	ActorID          string   `json:"actorId"`
	ActionID         string   `json:"actionId"`
	Amount           float64  `json:"amount"`
	Stagger          float64  `json:"stagger"`
	IsBroken         bool     `json:"isBroken"`
	BreakEndTime     *float64 `json:"breakEndTime,omitempty"`
	NodeReachedIndex *int     `json:"nodeReachedIndex,omitempty"`
	NodeEndTime      *float64 `json:"nodeEndTime,omitempty"`
}

// EffectStartEntry records an effect arriving at a target, before any
// reaction is resolved.
type EffectStartEntry struct {
	Time     float64          `json:"-"`
	TargetID string           `json:"targetId"`
	Effect   effects.Snapshot `json:"effectSnapshot"`
}

// ReactionEntry records a reaction triggered on a target.
type ReactionEntry struct {
	Time         float64 `json:"-"`
	TargetID     string  `json:"targetId"`
	ReactionName string  `json:"reactionName"`
}

// EffectAppliedEntry records an effect added to, or stacked on, a target.
type EffectAppliedEntry struct {
	Time       float64       `json:"-"`
	TargetID   string        `json:"targetId"`
	EffectID   string        `json:"effectId"`
	InstanceID string        `json:"instanceId"`
	Name       string        `json:"name"`
	Tags       []effects.Tag `json:"tags"`
	Stacks     int           `json:"stacks"`
}

// EffectEndEntry records an effect instance leaving a target.
type EffectEndEntry struct {
	Time       float64   `json:"-"`
	TargetID   string    `json:"targetId"`
	InstanceID string    `json:"effectId"`
	Reason     EndReason `json:"type"`
}

func (e ActionStartEntry) At() float64   { return e.Time }
func (e ActionEndEntry) At() float64     { return e.Time }
func (e DamageTickEntry) At() float64    { return e.Time }
func (e SpChangeEntry) At() float64      { return e.Time }
func (e SpRegenPauseEntry) At() float64  { return e.Time }
func (e StaggerEntry) At() float64       { return e.Time }
func (e EffectStartEntry) At() float64   { return e.Time }
func (e ReactionEntry) At() float64      { return e.Time }
func (e EffectAppliedEntry) At() float64 { return e.Time }
func (e EffectEndEntry) At() float64     { return e.Time }

func (ActionStartEntry) Type() LogType   { return LogActionStart }
func (ActionEndEntry) Type() LogType     { return LogActionEnd }
func (DamageTickEntry) Type() LogType    { return LogDamageTick }
func (SpChangeEntry) Type() LogType      { return LogSpChange }
func (SpRegenPauseEntry) Type() LogType  { return LogSpRegenPause }
func (StaggerEntry) Type() LogType       { return LogStagger }
func (EffectStartEntry) Type() LogType   { return LogEffectStart }
func (ReactionEntry) Type() LogType      { return LogReactionOccurred }
func (EffectAppliedEntry) Type() LogType { return LogEffectApplied }
func (EffectEndEntry) Type() LogType     { return LogEffectEnd }

func (ActionStartEntry) isLogEntry()   {}
func (ActionEndEntry) isLogEntry()     {}
func (DamageTickEntry) isLogEntry()    {}
func (SpChangeEntry) isLogEntry()      {}
func (SpRegenPauseEntry) isLogEntry()  {}
func (StaggerEntry) isLogEntry()       {}
func (EffectStartEntry) isLogEntry()   {}
func (ReactionEntry) isLogEntry()      {}
func (EffectAppliedEntry) isLogEntry() {}
func (EffectEndEntry) isLogEntry()     {}
