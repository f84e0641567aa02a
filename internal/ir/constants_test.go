package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyOverrides(t *testing.T) {
	base := DefaultSystemConstants()
	got := base.Apply(&ConstantOverrides{MaxSp: Float(250), StaggerNodeCount: Int(3)})
	assert.Equal(t, 250.0, got.MaxSp)
	assert.Equal(t, 3, got.StaggerNodeCount)
	assert.Equal(t, base.InitialSp, got.InitialSp)
	assert.Equal(t, base.StaggerBreakDuration, got.StaggerBreakDuration)
}

func TestApplyEnemyIgnoresTeamFields(t *testing.T) {
	base := DefaultSystemConstants()
	got := base.ApplyEnemy(&ConstantOverrides{MaxSp: Float(1), MaxStagger: Float(40)})
	assert.Equal(t, base.MaxSp, got.MaxSp)
	assert.Equal(t, 40.0, got.MaxStagger)
}

func TestApplyNil(t *testing.T) {
	base := DefaultSystemConstants()
	assert.Equal(t, base, base.Apply(nil))
}

func TestStackCountAcceptsStrings(t *testing.T) {
	var a Anomaly
	err := a.Stacks.UnmarshalJSON([]byte(`"3"`))
	assert.NoError(t, err)
	assert.Equal(t, StackCount(3), a.Stacks)

	err = a.Stacks.UnmarshalJSON([]byte(`2`))
	assert.NoError(t, err)
	assert.Equal(t, StackCount(2), a.Stacks)

	err = a.Stacks.UnmarshalJSON([]byte(`"x"`))
	assert.Error(t, err)
}

func TestIsFreezeSource(t *testing.T) {
	assert.True(t, Action{Type: ActionUltimate}.IsFreezeSource())
	assert.True(t, Action{Type: ActionLink}.IsFreezeSource())
	assert.False(t, Action{Type: ActionSkill}.IsFreezeSource())
	assert.False(t, Action{Type: ActionLink, TriggerWindow: -1}.IsFreezeSource())
	assert.False(t, Action{Type: ActionUltimate, IsDisabled: true}.IsFreezeSource())
}
