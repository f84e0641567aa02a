package ir

// Stat keys understood by the simulation core. Tracks may carry any other
// keys; they are passed through untouched.
const (
	StatHP                 = "hp"
	StatAttack             = "attack"
	StatCritRate           = "crit_rate"
	StatOriginiumArtsPower = "originium_arts_power"
	StatUltChargeEff       = "ult_charge_eff"
	StatLinkCdReduction    = "link_cd_reduction"
)

// ActorStats is a per-actor stat block keyed by stat name.
type ActorStats map[string]float64

// defaultStatKeys is every stat a normalised track carries.
var defaultStatKeys = []string{
	"primary_ability", "secondary_ability", "strength", "agility",
	"intellect", "will", StatAttack, StatHP, StatCritRate,
	"blaze_dmg", "emag_dmg", "cold_dmg", "nature_dmg", "healing_effect",
	"physical_dmg", "arts_dmg", StatOriginiumArtsPower, StatUltChargeEff,
	StatLinkCdReduction,
}

// DefaultActorStats returns a stat block with every known key set to 0.
func DefaultActorStats() ActorStats {
	s := make(ActorStats, len(defaultStatKeys))
	for _, k := range defaultStatKeys {
		s[k] = 0
	}
	return s
}

// Get returns the stat value, or 0 when it is absent.
func (s ActorStats) Get(key string) float64 {
	if s == nil {
		return 0
	}
	return s[key]
}

// Clone returns an independent copy of the stat block.
func (s ActorStats) Clone() ActorStats {
	out := make(ActorStats, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// ScenarioTrack is one actor's lane on the timeline.
type ScenarioTrack struct {
	ID      string     `json:"id" yaml:"id"`
	Actions []Action   `json:"actions" yaml:"actions"`
	Stats   ActorStats `json:"stats,omitempty" yaml:"stats,omitempty"`

	// Deprecated: use Stats[StatUltChargeEff].
	GaugeEfficiency float64 `json:"gaugeEfficiency,omitempty" yaml:"gaugeEfficiency,omitempty"`
	// Deprecated: use Stats[StatOriginiumArtsPower].
	OriginiumArtsPower float64 `json:"originiumArtsPower,omitempty" yaml:"originiumArtsPower,omitempty"`
	// Deprecated: use Stats[StatLinkCdReduction].
	LinkCdReduction float64 `json:"linkCdReduction,omitempty" yaml:"linkCdReduction,omitempty"`

	InitialGauge     float64  `json:"initialGauge,omitempty" yaml:"initialGauge,omitempty"`
	MaxGaugeOverride *float64 `json:"maxGaugeOverride,omitempty" yaml:"maxGaugeOverride,omitempty"`
}

// Connection links a producing action or effect to a consuming one.
type Connection struct {
	ID                string  `json:"id" yaml:"id"`
	From              string  `json:"from" yaml:"from"`
	To                string  `json:"to" yaml:"to"`
	FromEffectID      string  `json:"fromEffectId,omitempty" yaml:"fromEffectId,omitempty"`
	FromEffectIndex   *int    `json:"fromEffectIndex,omitempty" yaml:"fromEffectIndex,omitempty"`
	ToEffectID        string  `json:"toEffectId,omitempty" yaml:"toEffectId,omitempty"`
	ToEffectIndex     *int    `json:"toEffectIndex,omitempty" yaml:"toEffectIndex,omitempty"`
	IsConsumption     bool    `json:"isConsumption,omitempty" yaml:"isConsumption,omitempty"`
	ConsumptionOffset float64 `json:"consumptionOffset,omitempty" yaml:"consumptionOffset,omitempty"`
	SourcePort        string  `json:"sourcePort,omitempty" yaml:"sourcePort,omitempty"`
	TargetPort        string  `json:"targetPort,omitempty" yaml:"targetPort,omitempty"`
}

// ScenarioData is the document produced by the authoring layer.
type ScenarioData struct {
	Tracks            []ScenarioTrack    `json:"tracks" yaml:"tracks"`
	Connections       []Connection       `json:"connections,omitempty" yaml:"connections,omitempty"`
	SystemConstants   *ConstantOverrides `json:"systemConstants,omitempty" yaml:"systemConstants,omitempty"`
	ActiveEnemyID     string             `json:"activeEnemyId,omitempty" yaml:"activeEnemyId,omitempty"`
	CustomEnemyParams *ConstantOverrides `json:"customEnemyParams,omitempty" yaml:"customEnemyParams,omitempty"`
}

// ActorResources are the per-actor pools at simulation start.
type ActorResources struct {
	HP    float64 `json:"hp"`
	Gauge float64 `json:"gauge"`
}

// ActorSnapshot is the immutable description of an actor handed to the
// simulation.
type ActorSnapshot struct {
	ID        string         `json:"id"`
	Stats     ActorStats     `json:"stats"`
	Resources ActorResources `json:"resources"`
}
