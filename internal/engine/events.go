package engine

import (
	"github.com/roach88/rotasim/internal/effects"
	"github.com/roach88/rotasim/internal/ir"
)

// EventType discriminates the Event union.
type EventType string

const (
	EventActionStart   EventType = "ACTION_START"
	EventActionEnd     EventType = "ACTION_END"
	EventDamageTick    EventType = "DAMAGE_TICK"
	EventSpChange      EventType = "SP_CHANGE"
	EventSpRegenPause  EventType = "SP_REGEN_PAUSE"
	EventEffectStart   EventType = "EFFECT_START"
	EventEffectEnd     EventType = "EFFECT_END"
	EventStaggerChange EventType = "STAGGER_CHANGE"
)

// EventTypes lists every event type in declaration order.
var EventTypes = []EventType{
	EventActionStart,
	EventActionEnd,
	EventDamageTick,
	EventSpChange,
	EventSpRegenPause,
	EventEffectStart,
	EventEffectEnd,
	EventStaggerChange,
}

// Event is a scheduled simulation event. The set of implementations is
// closed; handlers switch on Type or use Typed.
//
// Events are values and must not be modified after they are enqueued.
type Event interface {
	Timed
	Type() EventType
	isEvent()
}

// SpReason labels the cause of an SP change.
type SpReason string

const (
	SpReasonSkill     SpReason = "skill"
	SpReasonExecution SpReason = "execution"
	SpReasonDamage    SpReason = "damage"
)

// EndReason labels why an effect ended.
type EndReason string

const (
	EndExpiration  EndReason = "expiration"
	EndConsumption EndReason = "consumption"
)

// ActionStartEvent fires when an action begins in real time.
type ActionStartEvent struct {
	Time       float64
	SkillID    string
	ActionID   string
	ActorID    string
	ActionType ir.ActionType
	SpCost     float64
	// FreezeDuration is set when the action is a freeze source.
	FreezeDuration *float64
}

// ActionEndEvent fires when an action finishes.
type ActionEndEvent struct {
	Time       float64
	SkillID    string
	ActionID   string
	ActorID    string
	ActionType ir.ActionType
	SpGain     float64
}

// DamageTickEvent is one hit of an action.
type DamageTickEvent struct {
	Time     float64
	SourceID string
	TargetID string
	ActionID string
	Damage   float64
	Tick     ir.ResolvedDamageTick
}

// SpChangeEvent adds Amount to the team pool.
type SpChangeEvent struct {
	Time     float64
	Amount   float64
	Reason   SpReason
	SourceID string
}

// SpRegenPauseEvent suspends SP regeneration for Duration seconds.
type SpRegenPauseEvent struct {
	Time     float64
	Duration float64
	SourceID string
}

// EffectStartEvent applies Effect to TargetID.
type EffectStartEvent struct {
	Time      float64
	TargetID  string
	SourceID  string
	ActionID  string
	Effect    *effects.Effect
	// EndReason is carried by the end scheduled for a finite effect.
	// Empty means expiration.
	EndReason EndReason
}

// EffectEndEvent removes an effect instance from TargetID.
type EffectEndEvent struct {
	Time       float64
	TargetID   string
	InstanceID string
	Reason     EndReason
	// Scheduled marks the end queued when the instance was applied.
	Scheduled  bool
}

// StaggerChangeEvent adds stagger to the enemy.
type StaggerChangeEvent struct {
	Time     float64
	Amount   float64
	ActorID  string
	ActionID string
	TargetID string
}

func (e ActionStartEvent) At() float64   { return e.Time }
func (e ActionEndEvent) At() float64     { return e.Time }
func (e DamageTickEvent) At() float64    { return e.Time }
func (e SpChangeEvent) At() float64      { return e.Time }
func (e SpRegenPauseEvent) At() float64  { return e.Time }
func (e EffectStartEvent) At() float64   { return e.Time }
func (e EffectEndEvent) At() float64     { return e.Time }
func (e StaggerChangeEvent) At() float64 { return e.Time }

func (ActionStartEvent) Type() EventType   { return EventActionStart }
func (ActionEndEvent) Type() EventType     { return EventActionEnd }
func (DamageTickEvent) Type() EventType    { return EventDamageTick }
func (SpChangeEvent) Type() EventType      { return EventSpChange }
func (SpRegenPauseEvent) Type() EventType  { return EventSpRegenPause }
func (EffectStartEvent) Type() EventType   { return EventEffectStart }
func (EffectEndEvent) Type() EventType     { return EventEffectEnd }
func (StaggerChangeEvent) Type() EventType { return EventStaggerChange }

func (ActionStartEvent) isEvent()   {}
func (ActionEndEvent) isEvent()     {}
func (DamageTickEvent) isEvent()    {}
func (SpChangeEvent) isEvent()      {}
func (SpRegenPauseEvent) isEvent()  {}
func (EffectStartEvent) isEvent()   {}
func (EffectEndEvent) isEvent()     {}
func (StaggerChangeEvent) isEvent() {}
