package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/compiler"
)

// CompileOptions holds flags for the compile command.
type CompileOptions struct {
	*RootOptions
	Output string // output file path
}

// CompilationStats holds summary statistics.
type CompilationStats struct {
	Tracks         int     `json:"tracks"`
	Actions        int     `json:"actions"`
	Effects        int     `json:"effects"`
	DamageTicks    int     `json:"damageTicks"`
	TimeExtensions int     `json:"timeExtensions"`
	TotalDuration  float64 `json:"totalDuration"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <scenario>",
		Short: "Resolve a scenario to real time",
		Long: `Compile a scenario document to its resolved timeline.

Time-stop windows are applied to every action, damage tick and effect, and
consumption connections truncate the effects they consume. The compiled
scenario (timeline, actors and merged constants) is printed as JSON or
written to --output.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")

	return cmd
}

func runCompile(opts *CompileOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	loaded, err := LoadScenarioFile(path)
	if err != nil {
		return outputLoadError(formatter, err)
	}
	overrides, err := LoadConstants(opts.Config)
	if err != nil {
		return outputCommandError(formatter, ErrCodeConfig, err.Error())
	}

	compiled := compiler.CompileScenario(loaded.Data, compiler.WithConstants(overrides))
	stats := calculateStats(compiled)
	formatter.VerboseLog("Compiled %s: %d action(s), %d time extension(s)", loaded.Path, stats.Actions, stats.TimeExtensions)

	if opts.Output != "" {
		data, err := json.MarshalIndent(compiled, "", "  ")
		if err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("marshaling compiled scenario: %v", err))
		}
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return outputCommandError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err))
		}
	}

	if formatter.IsJSON() {
		return formatter.Success(compiled)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d action(s) on %d track(s)\n\n", stats.Actions, stats.Tracks)
	for _, a := range compiled.Timeline.Actions {
		fmt.Fprintf(w, "  %-12s %-9s real %.3f → %.3f", a.ID, a.Action.Type, a.RealStartTime, a.RealEndTime())
		if a.ExtensionAmount > 0 {
			fmt.Fprintf(w, " (+%.3f)", a.ExtensionAmount)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Time extensions: %d, total duration %.3fs\n", stats.TimeExtensions, stats.TotalDuration)
	if opts.Output != "" {
		fmt.Fprintf(w, "Wrote compiled scenario to %s\n", opts.Output)
	}
	return nil
}

// calculateStats computes summary statistics from a compiled scenario.
func calculateStats(c *compiler.CompiledScenario) CompilationStats {
	stats := CompilationStats{
		Tracks:         len(c.Actors),
		Actions:        len(c.Timeline.Actions),
		TimeExtensions: len(c.Timeline.TimeExtensions),
		TotalDuration:  c.Timeline.Meta.TotalDuration,
	}
	for _, a := range c.Timeline.Actions {
		stats.Effects += len(a.Effects)
		stats.DamageTicks += len(a.ResolvedDamageTicks)
	}
	return stats
}

// outputLoadError reports a scenario that could not be read. Always a
// command error (exit code 2).
func outputLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		_ = formatter.Error(loadErr.Code, loadErr.Message, loadErr.Path)
		return WrapExitError(ExitCommandError, "loading scenario", err)
	}
	_ = formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, "loading scenario", err)
}

func outputCommandError(formatter *OutputFormatter, code, message string) error {
	_ = formatter.Error(code, message, nil)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}
