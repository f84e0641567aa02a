package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioSchema(t *testing.T) {
	data, err := ScenarioSchema()
	require.NoError(t, err)

	var schema map[string]any
	require.NoError(t, json.Unmarshal(data, &schema))
	assert.Equal(t, "rotasim scenario", schema["title"])
	assert.Equal(t, "object", schema["type"])

	props, ok := schema["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "tracks")
	assert.Contains(t, props, "connections")
	assert.Contains(t, props, "systemConstants")
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(NewSchemaCommand(textOpts()))
	require.NoError(t, err)
	assert.Contains(t, out, `"title": "rotasim scenario"`)

	path := filepath.Join(t.TempDir(), "scenario.schema.json")
	out, err = execute(NewSchemaCommand(textOpts()), "-o", path)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}
