package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

// freezeScenario is an ultimate freezing time over a skill, with enough
// stagger between them to break the enemy.
const freezeScenario = `
tracks:
  - id: alpha
    actions:
      - id: alpha_ult
        instanceId: u1
        type: ultimate
        startTime: 2
        duration: 5
        animationTime: 2
        damageTicks:
          - offset: 1
            stagger: 60
  - id: beta
    actions:
      - id: beta_skill
        instanceId: s1
        type: skill
        startTime: 3
        duration: 1
        spCost: 100
        damageTicks:
          - offset: 0.5
            stagger: 50
            sp: 10
        physicalAnomaly:
          - - _id: heat
              type: blaze_attach
              duration: 3
              stacks: 1
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs cmd with args and returns stdout.
func execute(cmd *cobra.Command, args ...string) (string, error) {
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func textOpts() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOpts() *RootOptions {
	return &RootOptions{Format: "json"}
}
