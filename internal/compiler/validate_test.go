package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/roach88/rotasim/internal/ir"
)

func codes(errs []ValidationError) []string {
	out := make([]string, len(errs))
	for i, e := range errs {
		out[i] = e.Code
	}
	return out
}

func TestValidateValidScenario(t *testing.T) {
	assert.Empty(t, Validate(twoTrackScenario()))
}

func TestValidateActions(t *testing.T) {
	s := ir.ScenarioData{Tracks: []ir.ScenarioTrack{{
		ID: "a",
		Actions: []ir.Action{
			{InstanceID: "x", Type: "dance", StartTime: -1, Duration: 1},
			{InstanceID: "x", Type: ir.ActionSkill, Duration: -2},
			{Type: ir.ActionSkill},
		},
	}}}

	errs := Validate(s)
	assert.ElementsMatch(t, []string{
		ErrUnknownActionType,
		ErrNegativeTime,
		ErrNegativeTime,
		ErrDuplicateInstanceID,
		ErrMissingInstanceID,
	}, codes(errs))
}

func TestValidateConnections(t *testing.T) {
	s := twoTrackScenario()
	s.Connections = []ir.Connection{
		{ID: "ok", From: "inst_ult", To: "inst_skill"},
		{ID: "bad", From: "inst_ult", To: "ghost", FromEffectID: "missing", ConsumptionOffset: -1},
	}
	errs := Validate(s)
	assert.ElementsMatch(t, []string{ErrDanglingConnection, ErrUnknownEffect, ErrConsumptionOffset}, codes(errs))
	assert.Equal(t, "connections[1].to", errs[0].Field)
}

func TestValidateConstants(t *testing.T) {
	s := twoTrackScenario()
	s.SystemConstants = &ir.ConstantOverrides{MaxSp: ir.Float(0), StaggerNodeCount: ir.Int(-1)}
	errs := Validate(s)
	assert.Equal(t, []string{ErrInvalidConstant, ErrInvalidConstant}, codes(errs))
}

func TestValidationErrorFormat(t *testing.T) {
	e := ValidationError{Field: "tracks[0].id", Message: "duplicate", Code: ErrDuplicateTrackID}
	assert.Equal(t, "[E105] tracks[0].id: duplicate", e.Error())
	e.Line = 4
	assert.Equal(t, "[E105] line 4: tracks[0].id: duplicate", e.Error())
}

func decodeDoc(t *testing.T, src string) any {
	t.Helper()
	var doc any
	require.NoError(t, yaml.Unmarshal([]byte(src), &doc))
	return doc
}

func TestCheckSchemaAcceptsAuthoringDocument(t *testing.T) {
	doc := decodeDoc(t, `
tracks:
  - id: perlica
    icon: perlica.webp
    actions:
      - instanceId: inst_1
        type: skill
        startTime: 0
        duration: 1.5
        customColor: red
        physicalAnomaly:
          - - _id: vuln
              type: knockup
              stacks: "2"
connections:
  - id: c1
    from: inst_1
    to: inst_1
    fromEffectId: null
`)
	errs, err := CheckSchema(doc)
	require.NoError(t, err)
	assert.Empty(t, errs)
}

func TestCheckSchemaRejectsBadDocument(t *testing.T) {
	doc := decodeDoc(t, `
tracks:
  - id: perlica
    actions:
      - instanceId: inst_1
        type: dance
        startTime: 0
        duration: -1
`)
	errs, err := CheckSchema(doc)
	require.NoError(t, err)
	require.NotEmpty(t, errs)
	for _, e := range errs {
		assert.Equal(t, ErrSchemaViolation, e.Code)
	}
}
