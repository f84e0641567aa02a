package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/ir"
)

// SchemaOptions holds flags for the schema command.
type SchemaOptions struct {
	*RootOptions
	Output string
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SchemaOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of scenario documents",
		Long: `Generate a JSON Schema for scenario documents from the Go types.

Editors can use it to validate and complete scenario files.

Examples:
  rotasim schema
  rotasim schema -o scenario.schema.json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runSchema(opts *SchemaOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	data, err := ScenarioSchema()
	if err != nil {
		return outputCommandError(formatter, ErrCodeSchemaFailed, err.Error())
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
		formatter.VerboseLog("Wrote schema to %s", opts.Output)
		return nil
	}

	_, err = formatter.Writer.Write(data)
	return err
}

// ScenarioSchema reflects ir.ScenarioData into an indented JSON Schema.
func ScenarioSchema() ([]byte, error) {
	reflector := jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(&ir.ScenarioData{})
	if schema == nil {
		return nil, fmt.Errorf("failed to reflect scenario schema")
	}
	schema.Version = ""
	schema.Title = "rotasim scenario"
	schema.Description = "Per-actor action tracks, connections and constant overrides for one rotation."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}
