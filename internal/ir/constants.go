package ir

// TeamConfig configures the shared team resource pool.
type TeamConfig struct {
	MaxSp              float64 `json:"maxSp" yaml:"maxSp"`
	InitialSp          float64 `json:"initialSp" yaml:"initialSp"`
	SpRegenRate        float64 `json:"spRegenRate" yaml:"spRegenRate"`
	SkillSpCostDefault float64 `json:"skillSpCostDefault" yaml:"skillSpCostDefault"`
	LinkCdReduction    float64 `json:"linkCdReduction" yaml:"linkCdReduction"`
}

// EnemyConfig configures the adversary's stagger meter.
type EnemyConfig struct {
	MaxStagger           float64 `json:"maxStagger" yaml:"maxStagger"`
	StaggerNodeCount     int     `json:"staggerNodeCount" yaml:"staggerNodeCount"`
	StaggerNodeDuration  float64 `json:"staggerNodeDuration" yaml:"staggerNodeDuration"`
	StaggerBreakDuration float64 `json:"staggerBreakDuration" yaml:"staggerBreakDuration"`
	ExecutionRecovery    float64 `json:"executionRecovery" yaml:"executionRecovery"`
}

// SystemConstants is the merged team and enemy configuration.
type SystemConstants struct {
	TeamConfig  `yaml:",inline"`
	EnemyConfig `yaml:",inline"`
}

// DefaultSystemConstants returns the built-in constants.
func DefaultSystemConstants() SystemConstants {
	return SystemConstants{
		TeamConfig: TeamConfig{
			MaxSp:              300,
			InitialSp:          200,
			SpRegenRate:        8,
			SkillSpCostDefault: 100,
			LinkCdReduction:    0,
		},
		EnemyConfig: EnemyConfig{
			MaxStagger:           100,
			StaggerNodeCount:     0,
			StaggerNodeDuration:  2,
			StaggerBreakDuration: 10,
			ExecutionRecovery:    25,
		},
	}
}

// ConstantOverrides is a partial SystemConstants; nil fields keep the value
// they override.
type ConstantOverrides struct {
	MaxSp                *float64 `json:"maxSp,omitempty" yaml:"maxSp,omitempty"`
	InitialSp            *float64 `json:"initialSp,omitempty" yaml:"initialSp,omitempty"`
	SpRegenRate          *float64 `json:"spRegenRate,omitempty" yaml:"spRegenRate,omitempty"`
	SkillSpCostDefault   *float64 `json:"skillSpCostDefault,omitempty" yaml:"skillSpCostDefault,omitempty"`
	LinkCdReduction      *float64 `json:"linkCdReduction,omitempty" yaml:"linkCdReduction,omitempty"`
	MaxStagger           *float64 `json:"maxStagger,omitempty" yaml:"maxStagger,omitempty"`
	StaggerNodeCount     *int     `json:"staggerNodeCount,omitempty" yaml:"staggerNodeCount,omitempty"`
	StaggerNodeDuration  *float64 `json:"staggerNodeDuration,omitempty" yaml:"staggerNodeDuration,omitempty"`
	StaggerBreakDuration *float64 `json:"staggerBreakDuration,omitempty" yaml:"staggerBreakDuration,omitempty"`
	ExecutionRecovery    *float64 `json:"executionRecovery,omitempty" yaml:"executionRecovery,omitempty"`
}

// Apply returns c with every non-nil override applied.
func (c SystemConstants) Apply(o *ConstantOverrides) SystemConstants {
	if o == nil {
		return c
	}
	setFloat(&c.MaxSp, o.MaxSp)
	setFloat(&c.InitialSp, o.InitialSp)
	setFloat(&c.SpRegenRate, o.SpRegenRate)
	setFloat(&c.SkillSpCostDefault, o.SkillSpCostDefault)
	setFloat(&c.LinkCdReduction, o.LinkCdReduction)
	return c.ApplyEnemy(o)
}

// ApplyEnemy applies only the enemy fields of o.
func (c SystemConstants) ApplyEnemy(o *ConstantOverrides) SystemConstants {
	if o == nil {
		return c
	}
	setFloat(&c.MaxStagger, o.MaxStagger)
	if o.StaggerNodeCount != nil {
		c.StaggerNodeCount = *o.StaggerNodeCount
	}
	setFloat(&c.StaggerNodeDuration, o.StaggerNodeDuration)
	setFloat(&c.StaggerBreakDuration, o.StaggerBreakDuration)
	setFloat(&c.ExecutionRecovery, o.ExecutionRecovery)
	return c
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

// Float returns a pointer to v, for building overrides literally.
func Float(v float64) *float64 { return &v }

// Int returns a pointer to v, for building overrides literally.
func Int(v int) *int { return &v }
