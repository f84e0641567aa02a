package effects

import "github.com/roach88/rotasim/internal/ir"

type catalogEntry struct {
	name      string
	maxStacks int
}

// catalog lists the built-in afflictions. Each catalog effect's ID equals its
// single tag so reapplications stack onto the same instance.
var catalog = map[Tag]catalogEntry{
	TagVulnerable: {"Physical Affliction", 4},
	TagKnockDown:  {"Physical Affliction", 4},
	TagLift:       {"Physical Affliction", 4},
	TagBreach:     {"Physical Affliction", 4},
	TagCrush:      {"Physical Affliction", 4},

	TagCryo:     {"Cryo Affliction", 4},
	TagHeat:     {"Heat Affliction", 4},
	TagElectric: {"Electric Affliction", 4},
	TagNature:   {"Nature Affliction", 4},

	TagHeatBurst:     {"Heat Burst", 1},
	TagCryoBurst:     {"Cryo Burst", 1},
	TagElectricBurst: {"Electric Burst", 1},
	TagNatureBurst:   {"Nature Burst", 1},

	TagCombustion:      {"Combustion", 1},
	TagElectrification: {"Electrification", 1},
	TagSolidification:  {"Solidification", 1},
	TagCorrosion:       {"Corrosion", 1},
}

// FromCatalog returns a fresh instance of the built-in effect for tag.
func FromCatalog(tag Tag) (*Effect, bool) {
	entry, ok := catalog[tag]
	if !ok {
		return nil, false
	}
	e := New(string(tag), tag)
	e.Name = entry.name
	e.MaxStacks = entry.maxStacks
	return e, true
}

// MustCatalog is FromCatalog for tags known at compile time.
func MustCatalog(tag Tag) *Effect {
	e, ok := FromCatalog(tag)
	if !ok {
		panic("effects: no catalog entry for " + string(tag))
	}
	return e
}

// PhysicalVulnerable returns a fresh single-stack vulnerability.
func PhysicalVulnerable() *Effect { return MustCatalog(TagVulnerable) }

// anomalyTags maps the authoring tool's anomaly type names to tags.
var anomalyTags = map[string]Tag{
	"armor_break":   TagBreach,
	"stagger":       TagCrush,
	"knockdown":     TagKnockDown,
	"knockup":       TagLift,
	"blaze_attach":  TagHeat,
	"emag_attach":   TagElectric,
	"cold_attach":   TagCryo,
	"nature_attach": TagNature,
}

// TagForAnomaly maps an authored anomaly type to its effect tag. Unknown
// types keep their own name as the tag and report ok=false.
func TagForAnomaly(anomalyType string) (Tag, bool) {
	if t, ok := anomalyTags[anomalyType]; ok {
		return t, true
	}
	return Tag(anomalyType), false
}

// FromAnomaly builds the effect a resolved anomaly applies. Known types use
// the catalog definition; anything else becomes a plain effect named after
// the anomaly id. duration is the effect's displayed (possibly consumed)
// length; stacks below 1 count as 1.
func FromAnomaly(eff *ir.ResolvedEffect, duration float64) *Effect {
	tag, known := TagForAnomaly(eff.Anomaly.Type)

	var e *Effect
	if known {
		e = MustCatalog(tag)
	} else {
		e = New(eff.ID, tag)
		e.Name = eff.ID
	}
	e.Type = eff.Anomaly.Type
	e.StartTime = eff.RealStartTime
	e.Duration = duration
	e.CurrentStacks = max(1, int(eff.Anomaly.Stacks))
	e.Properties["sourceActionId"] = eff.ActionID
	e.Properties["uniqueId"] = eff.UniqueID
	return e
}
