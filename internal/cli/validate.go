package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid    bool                       `json:"valid"`
	Errors   []compiler.ValidationError `json:"errors,omitempty"`
	Warnings []compiler.CycleWarning    `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <scenario>",
		Short: "Validate a scenario without simulating it",
		Long: `Check a scenario document for authoring mistakes.

The document is checked against the scenario schema, then for problems the
compiler would silently ignore: duplicate instance ids, unknown action
types, negative times, dangling connections and invalid constants.
Connection cycles are reported as warnings.

Exit codes:
  0 - Scenario valid (warnings allowed)
  1 - Validation errors found
  2 - Command error (file not found, unparseable document)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := LoadScenarioFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}

	result, err := ValidateScenario(loaded)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}
	formatter.VerboseLog("Validated %s: %d error(s), %d warning(s)", path, len(result.Errors), len(result.Warnings))

	if !result.Valid {
		return outputValidationErrors(formatter, result)
	}
	return outputValidateSuccess(formatter, result)
}

// ValidateScenario runs the schema check, the semantic checks and the
// cycle analysis over a loaded scenario.
func ValidateScenario(loaded *LoadedScenario) (ValidationResult, error) {
	schemaErrs, err := compiler.CheckSchema(loaded.Raw)
	if err != nil {
		return ValidationResult{}, fmt.Errorf("building scenario schema: %w", err)
	}

	errs := append(schemaErrs, compiler.Validate(loaded.Data)...)
	return ValidationResult{
		Valid:    len(errs) == 0,
		Errors:   errs,
		Warnings: compiler.AnalyzeCycles(loaded.Data.Connections),
	}, nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, result ValidationResult) error {
	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "warning: %s (%s)\n", w.Message, strings.Join(w.Path, " → "))
	}
	fmt.Fprintln(formatter.Writer, "✓ Scenario valid")
	return nil
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, result ValidationResult) error {
	errs := result.Errors
	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   result,
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}

		// Validation failures = exit code 1
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Writer, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(formatter.Writer, "warning: %s (%s)\n", w.Message, strings.Join(w.Path, " → "))
	}

	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
