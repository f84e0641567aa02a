package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/ir"
)

func TestLoadConstantsNothingSet(t *testing.T) {
	o, err := LoadConstants("")
	require.NoError(t, err)
	assert.Nil(t, o)
}

func TestLoadConstantsFromFile(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rotasim.yaml", `
constants:
  maxSp: 250
  spRegenRate: 10
  staggerNodeCount: 2
unrelated: true
`)
	o, err := LoadConstants(path)
	require.NoError(t, err)
	require.NotNil(t, o)

	assert.Equal(t, ir.Float(250), o.MaxSp)
	assert.Equal(t, ir.Float(10), o.SpRegenRate)
	assert.Equal(t, ir.Int(2), o.StaggerNodeCount)
	assert.Nil(t, o.InitialSp)
	assert.Nil(t, o.MaxStagger)
}

func TestLoadConstantsEnvWins(t *testing.T) {
	path := writeFile(t, t.TempDir(), "rotasim.yaml", "constants:\n  maxStagger: 90\n")
	t.Setenv("ROTASIM_CONSTANTS_MAXSTAGGER", "125")
	t.Setenv("ROTASIM_CONSTANTS_EXECUTIONRECOVERY", "30")

	o, err := LoadConstants(path)
	require.NoError(t, err)
	require.NotNil(t, o)
	assert.Equal(t, ir.Float(125), o.MaxStagger)
	assert.Equal(t, ir.Float(30), o.ExecutionRecovery)
}

func TestLoadConstantsMissingFile(t *testing.T) {
	_, err := LoadConstants("/nonexistent/rotasim.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")
}

func TestPinConstantsReproducesMerge(t *testing.T) {
	s := ir.ScenarioData{
		CustomEnemyParams: &ir.ConstantOverrides{MaxStagger: ir.Float(80)},
	}
	caller := &ir.ConstantOverrides{MaxSp: ir.Float(250), MaxStagger: ir.Float(125)}

	merged := compiler.MergeConstants(s, caller)
	pinned := pinConstants(s, merged)

	assert.Equal(t, merged, compiler.MergeConstants(pinned))
	assert.Equal(t, 80.0, merged.MaxStagger)
	assert.Nil(t, s.SystemConstants, "input is not modified")
}
