package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/sim"
	"github.com/roach88/rotasim/internal/store"
)

// TraceOptions holds flags for the trace command.
type TraceOptions struct {
	*RootOptions
	Database string
	RunID    string
	Type     string // optional - filter to one log entry type
}

// RunSummary describes a journaled run.
type RunSummary struct {
	ID             string `json:"id"`
	Seq            int64  `json:"seq"`
	Name           string `json:"name"`
	ScenarioDigest string `json:"scenario_digest"`
	LogDigest      string `json:"log_digest"`
	Entries        int    `json:"entries"`
	EngineVersion  string `json:"engine_version"`
}

// TraceResult holds a stored run and its (possibly filtered) log.
type TraceResult struct {
	Run   RunSummary      `json:"run"`
	Log   []engine.Record `json:"log"`
	Stats TraceStats      `json:"stats"`
}

// TraceStats counts log entries by type.
type TraceStats struct {
	TotalEntries int                    `json:"total_entries"`
	ByType       map[engine.LogType]int `json:"by_type"`
}

// NewTraceCommand creates the trace command.
func NewTraceCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TraceOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "trace",
		Short: "Show the stored log of a journaled run",
		Long: `Print the simulation log stored for a run.

Without --run, lists the runs in the journal.

Examples:
  rotasim trace --db ./runs.db
  rotasim trace --db ./runs.db --run 01928c7e-...
  rotasim trace --db ./runs.db --run 01928c7e-... --type STAGGER
  rotasim trace --db ./runs.db --run 01928c7e-... --format json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrace(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal (required)")
	_ = cmd.MarkFlagRequired("db")
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run id to show")
	cmd.Flags().StringVar(&opts.Type, "type", "", "filter to one entry type (e.g. STAGGER)")

	return cmd
}

func runTrace(ctx context.Context, opts *TraceOptions, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
	formatter := newFormatter(opts.RootOptions, cmd.OutOrStdout(), cmd.ErrOrStderr())

	st, err := store.Open(opts.Database)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to open database", err)
	}
	defer st.Close()

	if opts.RunID == "" {
		return listRuns(ctx, st, formatter)
	}

	run, err := st.ReadRun(ctx, opts.RunID)
	if errors.Is(err, store.ErrNotFound) {
		return outputCommandError(formatter, ErrCodeNotFound, fmt.Sprintf("run %s not found", opts.RunID))
	}
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read run", err)
	}
	records, err := st.ReadRecords(ctx, run.ID)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read log", err)
	}

	filter := engine.LogType(strings.ToUpper(opts.Type))
	result := TraceResult{
		Run:   summarize(run),
		Log:   make([]engine.Record, 0, len(records)),
		Stats: TraceStats{ByType: map[engine.LogType]int{}},
	}
	for _, r := range records {
		if filter != "" && r.Type != filter {
			continue
		}
		result.Log = append(result.Log, r)
		result.Stats.ByType[r.Type]++
	}
	result.Stats.TotalEntries = len(result.Log)

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	entries, err := engine.DecodeLog(result.Log)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to decode log", err)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run: %s (%s)\n", run.ID, run.Name)
	fmt.Fprintf(w, "Engine: %s  Log digest: %s\n\n", run.EngineVersion, run.LogDigest)
	fmt.Fprint(w, sim.FormatLog(entries))
	fmt.Fprintf(w, "\n%d entries\n", result.Stats.TotalEntries)
	return nil
}

func listRuns(ctx context.Context, st *store.Store, formatter *OutputFormatter) error {
	runs, err := st.ListRuns(ctx)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to list runs", err)
	}

	summaries := make([]RunSummary, 0, len(runs))
	for _, r := range runs {
		summaries = append(summaries, summarize(r))
	}

	if formatter.IsJSON() {
		return formatter.Success(summaries)
	}

	w := formatter.Writer
	if len(summaries) == 0 {
		fmt.Fprintln(w, "No runs found in database.")
		return nil
	}
	for _, s := range summaries {
		fmt.Fprintf(w, "%4d  %s  %-24s %d entries\n", s.Seq, s.ID, s.Name, s.Entries)
	}
	return nil
}

func summarize(r store.Run) RunSummary {
	return RunSummary{
		ID:             r.ID,
		Seq:            r.Seq,
		Name:           r.Name,
		ScenarioDigest: r.ScenarioDigest,
		LogDigest:      r.LogDigest,
		Entries:        r.EntryCount,
		EngineVersion:  r.EngineVersion,
	}
}
