package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/roach88/rotasim/internal/ir"
)

// EnvPrefix prefixes environment overrides, e.g. ROTASIM_CONSTANTS_MAXSP.
const EnvPrefix = "ROTASIM"

// constantField binds one override key to its slot in ConstantOverrides.
type constantField struct {
	key string
	set func(v *viper.Viper, key string, o *ir.ConstantOverrides)
}

func floatField(key string, slot func(*ir.ConstantOverrides) **float64) constantField {
	return constantField{key: key, set: func(v *viper.Viper, k string, o *ir.ConstantOverrides) {
		*slot(o) = ir.Float(v.GetFloat64(k))
	}}
}

var constantFields = []constantField{
	floatField("maxSp", func(o *ir.ConstantOverrides) **float64 { return &o.MaxSp }),
	floatField("initialSp", func(o *ir.ConstantOverrides) **float64 { return &o.InitialSp }),
	floatField("spRegenRate", func(o *ir.ConstantOverrides) **float64 { return &o.SpRegenRate }),
	floatField("skillSpCostDefault", func(o *ir.ConstantOverrides) **float64 { return &o.SkillSpCostDefault }),
	floatField("linkCdReduction", func(o *ir.ConstantOverrides) **float64 { return &o.LinkCdReduction }),
	floatField("maxStagger", func(o *ir.ConstantOverrides) **float64 { return &o.MaxStagger }),
	{key: "staggerNodeCount", set: func(v *viper.Viper, k string, o *ir.ConstantOverrides) {
		o.StaggerNodeCount = ir.Int(v.GetInt(k))
	}},
	floatField("staggerNodeDuration", func(o *ir.ConstantOverrides) **float64 { return &o.StaggerNodeDuration }),
	floatField("staggerBreakDuration", func(o *ir.ConstantOverrides) **float64 { return &o.StaggerBreakDuration }),
	floatField("executionRecovery", func(o *ir.ConstantOverrides) **float64 { return &o.ExecutionRecovery }),
}

// LoadConstants reads caller constant overrides from the optional config
// file (keys under "constants") and from ROTASIM_CONSTANTS_<NAME>
// environment variables. The environment wins. Returns nil when nothing is
// set.
func LoadConstants(path string) (*ir.ConstantOverrides, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var overrides ir.ConstantOverrides
	found := false
	for _, f := range constantFields {
		key := "constants." + f.key
		if !v.IsSet(key) {
			continue
		}
		f.set(v, key, &overrides)
		found = true
	}
	if !found {
		return nil, nil
	}
	return &overrides, nil
}

// pinConstants returns s with every constant made explicit, so a stored
// scenario replays under the same values without the caller's config.
func pinConstants(s ir.ScenarioData, c ir.SystemConstants) ir.ScenarioData {
	s.SystemConstants = &ir.ConstantOverrides{
		MaxSp:                ir.Float(c.MaxSp),
		InitialSp:            ir.Float(c.InitialSp),
		SpRegenRate:          ir.Float(c.SpRegenRate),
		SkillSpCostDefault:   ir.Float(c.SkillSpCostDefault),
		LinkCdReduction:      ir.Float(c.LinkCdReduction),
		MaxStagger:           ir.Float(c.MaxStagger),
		StaggerNodeCount:     ir.Int(c.StaggerNodeCount),
		StaggerNodeDuration:  ir.Float(c.StaggerNodeDuration),
		StaggerBreakDuration: ir.Float(c.StaggerBreakDuration),
		ExecutionRecovery:    ir.Float(c.ExecutionRecovery),
	}
	return s
}
