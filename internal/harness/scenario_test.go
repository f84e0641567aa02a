package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/rotasim/internal/engine"
)

const minimalScenario = `
name: minimal
description: one attack
scenario:
  tracks:
    - id: alpha
      actions:
        - id: jab
          instanceId: a1
          type: attack
          startTime: 1
          duration: 2
assertions:
  - type: action_timing
    action: a1
    realStart: 1
`

func TestLoadScenario_ValidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "minimal.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))

	scenario, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "minimal", scenario.Name)
	assert.Equal(t, "one attack", scenario.Description)
	require.Len(t, scenario.Scenario.Tracks, 1)
	require.Len(t, scenario.Scenario.Tracks[0].Actions, 1)
	assert.Equal(t, "a1", scenario.Scenario.Tracks[0].Actions[0].InstanceID)
	require.Len(t, scenario.Assertions, 1)
	require.NotNil(t, scenario.Assertions[0].RealStart)
	assert.Equal(t, 1.0, *scenario.Assertions[0].RealStart)
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestParseScenario_RejectsUnknownFields(t *testing.T) {
	_, err := ParseScenario([]byte(minimalScenario + "bogus: true\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestParseScenario_Constants(t *testing.T) {
	doc := minimalScenario + `
constants:
  maxSp: 250
horizon: 30
`
	scenario, err := ParseScenario([]byte(doc))
	require.NoError(t, err)
	require.NotNil(t, scenario.Constants)
	require.NotNil(t, scenario.Constants.MaxSp)
	assert.Equal(t, 250.0, *scenario.Constants.MaxSp)
	assert.Equal(t, 30.0, scenario.Horizon)
}

func TestParseScenario_LogMatchFields(t *testing.T) {
	doc := `
name: fields
description: match fields
scenario:
  tracks:
    - id: alpha
      actions:
        - {id: jab, instanceId: a1, type: attack, startTime: 0, duration: 1}
assertions:
  - type: log_count
    match:
      type: ACTION_START
      fields: {actionId: a1}
    count: 1
`
	scenario, err := ParseScenario([]byte(doc))
	require.NoError(t, err)

	m := scenario.Assertions[0].Match
	require.NotNil(t, m)
	assert.Equal(t, engine.LogActionStart, m.Type)
	assert.Equal(t, "a1", m.Fields["actionId"])
	assert.Equal(t, 1, scenario.Assertions[0].Count)
}

func TestParseScenario_Validation(t *testing.T) {
	tracks := `
scenario:
  tracks:
    - id: alpha
      actions:
        - {id: jab, instanceId: a1, type: attack, startTime: 0, duration: 1}
`
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing name",
			doc:     "description: d\n" + tracks + "assertions:\n  - {type: log_count, match: {type: ACTION_START}, count: 1}\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			doc:     "name: n\n" + tracks + "assertions:\n  - {type: log_count, match: {type: ACTION_START}, count: 1}\n",
			wantErr: "description is required",
		},
		{
			name:    "missing tracks",
			doc:     "name: n\ndescription: d\nassertions:\n  - {type: log_count, match: {type: ACTION_START}, count: 1}\n",
			wantErr: "scenario.tracks is required",
		},
		{
			name:    "missing assertions",
			doc:     "name: n\ndescription: d\n" + tracks,
			wantErr: "assertions list is required",
		},
		{
			name:    "assertion without type",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {action: a1}\n",
			wantErr: "assertions[0]: type is required",
		},
		{
			name:    "action_timing without action",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: action_timing, realStart: 0}\n",
			wantErr: "action is required for action_timing",
		},
		{
			name:    "action_timing without expectation",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: action_timing, action: a1}\n",
			wantErr: "realStart or realDuration is required",
		},
		{
			name:    "log_contains without match",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: log_contains}\n",
			wantErr: "match.type is required for log_contains",
		},
		{
			name:    "log_order without sequence",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: log_order}\n",
			wantErr: "sequence is required for log_order",
		},
		{
			name:    "log_order step without type",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: log_order, sequence: [{fields: {actionId: a1}}]}\n",
			wantErr: "assertions[0].sequence[0]: type is required",
		},
		{
			name:    "negative count",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: log_count, match: {type: ACTION_START}, count: -1}\n",
			wantErr: "count must be non-negative",
		},
		{
			name:    "final_state without expect",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: final_state}\n",
			wantErr: "expect is required for final_state",
		},
		{
			name:    "final_state unknown key",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: final_state, expect: {gauge: 1}}\n",
			wantErr: `unknown final_state key "gauge"`,
		},
		{
			name:    "unknown assertion type",
			doc:     "name: n\ndescription: d\n" + tracks + "assertions:\n  - {type: trace_contains}\n",
			wantErr: `unknown assertion type "trace_contains"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseScenario([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
