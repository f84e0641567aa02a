package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/store"
)

// ReplayOptions holds flags for the replay command.
type ReplayOptions struct {
	*RootOptions
	Database string
	RunID    string // optional - specific run only
}

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID          string `json:"run_id"`
	Name           string `json:"name"`
	ExpectedDigest string `json:"expected_digest"`
	ActualDigest   string `json:"actual_digest,omitempty"`
	ExpectedCount  int    `json:"expected_entries"`
	ActualCount    int    `json:"actual_entries"`
	Error          string `json:"error,omitempty"`
	Deterministic  bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ReplayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Re-simulate journaled runs and verify determinism",
		Long: `Re-simulate every run stored in the journal and compare log digests.

Each stored scenario is compiled and simulated again with the current build.
A run is deterministic when the fresh log has the same digest as the stored
one.

Exit codes:
  0 - All runs reproduced
  1 - Determinism verification failed (digest mismatch or aborted run)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  rotasim replay --db ./runs.db
  rotasim replay --db ./runs.db --run 01928c7e-...
  rotasim replay --db ./runs.db --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "replay specific run only")

	return cmd
}

func runReplay(ctx context.Context, opts *ReplayOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	simulate := simulateScenario(opts.RootOptions)

	var replays []store.ReplayResult
	if opts.RunID != "" {
		r, err := st.ReplayRun(ctx, opts.RunID, simulate)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("failed to replay run %s", opts.RunID), err)
		}
		replays = []store.ReplayResult{r}
	} else {
		replays, err = st.ReplayAll(ctx, simulate)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to replay runs", err)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(replays)),
		TotalRuns:        len(replays),
		AllDeterministic: true,
	}
	for _, r := range replays {
		rr := ReplayRunResult{
			RunID:          r.RunID,
			Name:           r.Name,
			ExpectedDigest: r.ExpectedDigest,
			ActualDigest:   r.ActualDigest,
			ExpectedCount:  r.ExpectedCount,
			ActualCount:    r.ActualCount,
			Deterministic:  r.Match(),
		}
		if r.Err != nil {
			rr.Error = r.Err.Error()
		}
		result.Runs = append(result.Runs, rr)
		if !rr.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.IsJSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// outputReplayJSON outputs the replay result as JSON.
func outputReplayJSON(formatter *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{
		Status: "ok",
		Data:   result,
	}

	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeDeterminism,
			Message: "determinism verification failed",
		}
	}

	if err := formatter.encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

// outputReplayText outputs the replay result as text.
func outputReplayText(formatter *OutputFormatter, result ReplayResult) error {
	w := formatter.Writer

	if result.TotalRuns == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}

	fmt.Fprintf(w, "Replay Summary: %d run(s)\n", result.TotalRuns)
	fmt.Fprintln(w)

	for _, run := range result.Runs {
		status := "✓"
		if !run.Deterministic {
			status = "✗"
		}

		fmt.Fprintf(w, "%s Run: %s (%s)\n", status, run.RunID, run.Name)

		if formatter.Verbose {
			fmt.Fprintf(w, "  Expected: %s (%d entries)\n", run.ExpectedDigest, run.ExpectedCount)
			fmt.Fprintf(w, "  Actual:   %s (%d entries)\n", run.ActualDigest, run.ActualCount)
		} else {
			fmt.Fprintf(w, "  Entries: %d stored, %d replayed\n", run.ExpectedCount, run.ActualCount)
		}

		if run.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", run.Error)
		} else if !run.Deterministic {
			fmt.Fprintln(w, "  Warning: Non-deterministic replay detected!")
		}
		fmt.Fprintln(w)
	}

	if result.AllDeterministic {
		fmt.Fprintln(w, "✓ All runs verified deterministic")
		return nil
	}

	fmt.Fprintln(w, "✗ Determinism verification failed")
	return NewExitError(ExitFailure, "determinism verification failed")
}
