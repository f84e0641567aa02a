// Package effects defines status effects: their tags, stacking rules and the
// built-in affliction catalog.
package effects

import (
	"maps"
	"math"
	"slices"
)

// Tag classifies an effect. Reactions and modifiers query effects by tag.
type Tag string

// Elemental afflictions.
const (
	TagCryo     Tag = "ELEMENT_CRYO"
	TagHeat     Tag = "ELEMENT_HEAT"
	TagElectric Tag = "ELEMENT_ELECTRIC"
	TagNature   Tag = "ELEMENT_NATURE"
)

// Elemental anomalies, produced when two different elements meet.
const (
	TagCombustion      Tag = "ELEMENT_COMBUSTION"
	TagElectrification Tag = "ELEMENT_ELECTRIFICATION"
	TagSolidification  Tag = "ELEMENT_SOLIDIFICATION"
	TagCorrosion       Tag = "ELEMENT_CORROSION"
)

// Elemental bursts, produced when the same element lands twice.
const (
	TagCryoBurst     Tag = "ELEMENT_CRYO_BURST"
	TagHeatBurst     Tag = "ELEMENT_HEAT_BURST"
	TagElectricBurst Tag = "ELEMENT_ELECTRIC_BURST"
	TagNatureBurst   Tag = "ELEMENT_NATURE_BURST"
)

// Physical afflictions.
const (
	TagVulnerable Tag = "PHYSICAL_VULNERABLE"
	TagKnockDown  Tag = "PHYSICAL_KNOCK_DOWN"
	TagLift       Tag = "PHYSICAL_LIFT"
	TagCrush      Tag = "PHYSICAL_CRUSH"
	TagBreach     Tag = "PHYSICAL_BREACH"
)

// Generic modifiers.
const (
	TagPhysicalBonus Tag = "PHYSICAL_BONUS"
	TagResDown       Tag = "DEBUFF_RES_DOWN"
)

// PhysicalAfflictions are the tags that turn into vulnerability.
var PhysicalAfflictions = []Tag{TagKnockDown, TagLift, TagCrush, TagBreach}

// ElementalAfflictions are the tags that take part in the reaction matrix.
var ElementalAfflictions = []Tag{TagHeat, TagCryo, TagElectric, TagNature}

// StackStrategy decides what a repeated application of a stackable effect
// does besides adding stacks.
type StackStrategy string

const (
	// RefreshDuration restarts the effect at the new application's time.
	RefreshDuration StackStrategy = "REFRESH_DURATION"
	// Independent only raises the stack count.
	Independent StackStrategy = "INDEPENDENT"
	// AddDuration extends the remaining duration by the new application's.
	AddDuration StackStrategy = "ADD_DURATION"
)

// Effect is a status effect template or live instance payload.
//
// Duration is in seconds; math.Inf(1) means the effect lasts until removed.
type Effect struct {
	ID            string
	Name          string
	Description   string
	Type          string
	Tags          []Tag
	Duration      float64
	StartTime     float64
	MaxStacks     int
	StackStrategy StackStrategy
	CurrentStacks int
	Properties    map[string]any
}

// New returns an effect with the default lifecycle: permanent, a single
// non-stacking stack refreshed on reapplication.
func New(id string, tags ...Tag) *Effect {
	return &Effect{
		ID:            id,
		Type:          "UNKNOWN",
		Tags:          tags,
		Duration:      math.Inf(1),
		MaxStacks:     1,
		StackStrategy: RefreshDuration,
		CurrentStacks: 1,
		Properties:    map[string]any{},
	}
}

// IsStackable reports whether reapplication stacks in place.
func (e *Effect) IsStackable() bool {
	return e.MaxStacks > 1
}

// IsPermanent reports whether the effect has no natural expiry.
func (e *Effect) IsPermanent() bool {
	return math.IsInf(e.Duration, 1)
}

// EndTime returns the instant the effect expires, or +Inf.
func (e *Effect) EndTime() float64 {
	if e.IsPermanent() {
		return e.Duration
	}
	return e.StartTime + e.Duration
}

// HasTag reports whether the effect carries tag.
func (e *Effect) HasTag(tag Tag) bool {
	return slices.Contains(e.Tags, tag)
}

// HasAnyTag reports whether the effect carries any of tags.
func (e *Effect) HasAnyTag(tags ...Tag) bool {
	for _, t := range tags {
		if e.HasTag(t) {
			return true
		}
	}
	return false
}

// Clone returns a deep copy.
func (e *Effect) Clone() *Effect {
	c := *e
	c.Tags = slices.Clone(e.Tags)
	c.Properties = maps.Clone(e.Properties)
	return &c
}

// Snapshot is the serialisable view of an effect. Duration is nil for
// permanent effects since JSON has no infinity.
type Snapshot struct {
	ID            string         `json:"id"`
	Name          string         `json:"name,omitempty"`
	Type          string         `json:"type,omitempty"`
	Tags          []Tag          `json:"tags"`
	Duration      *float64       `json:"duration,omitempty"`
	StartTime     float64        `json:"startTime"`
	MaxStacks     int            `json:"maxStacks"`
	StackStrategy StackStrategy  `json:"stackStrategy"`
	CurrentStacks int            `json:"currentStacks"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// Snapshot returns the serialisable view of e.
func (e *Effect) Snapshot() Snapshot {
	s := Snapshot{
		ID:            e.ID,
		Name:          e.Name,
		Type:          e.Type,
		Tags:          slices.Clone(e.Tags),
		StartTime:     e.StartTime,
		MaxStacks:     e.MaxStacks,
		StackStrategy: e.StackStrategy,
		CurrentStacks: e.CurrentStacks,
		Properties:    maps.Clone(e.Properties),
	}
	if !e.IsPermanent() {
		d := e.Duration
		s.Duration = &d
	}
	return s
}
