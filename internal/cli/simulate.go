package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
	"github.com/roach88/rotasim/internal/sim"
	"github.com/roach88/rotasim/internal/state"
	"github.com/roach88/rotasim/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Database string // optional run journal
	Name     string // run name, defaults to the file name

	ids store.IDGenerator
}

// SimulateResult is the JSON payload of the simulate command.
type SimulateResult struct {
	RunID  string          `json:"runId,omitempty"`
	Seq    int64           `json:"seq,omitempty"`
	Events int             `json:"events"`
	Final  state.Snapshot  `json:"final"`
	Log    []engine.Record `json:"log"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	return newSimulateCommand(rootOpts, store.UUIDv7Generator{})
}

func newSimulateCommand(rootOpts *RootOptions, ids store.IDGenerator) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts, ids: ids}

	cmd := &cobra.Command{
		Use:   "simulate <scenario>",
		Short: "Run a scenario and print its simulation log",
		Long: `Compile and simulate a scenario, printing the event log.

With --db the run is journaled (scenario, log and digests) so that replay
can later verify the current build still reproduces it.

Exit codes:
  0 - Simulation completed
  1 - Simulation aborted (invariant violation or handler failure)
  2 - Command error (unreadable scenario, database error, etc.)

Examples:
  rotasim simulate rotation.yaml
  rotasim simulate rotation.yaml --db ./runs.db --name opener
  ROTASIM_CONSTANTS_MAXSTAGGER=125 rotasim simulate rotation.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite run journal")
	cmd.Flags().StringVar(&opts.Name, "name", "", "run name (defaults to the scenario file name)")

	return cmd
}

func runSimulate(ctx context.Context, opts *SimulateOptions, path string, cmd *cobra.Command) error {
	if ctx == nil {
		ctx = context.Background()
	}
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
	engineOpts := []engine.EngineOption{engine.WithLogger(opts.Logger())}
	if opts.Verbose {
		engineOpts = append(engineOpts, engine.WithListener(traceStateChanges(opts.Logger())))
	}
	out, simErr := sim.Simulate(ctx, compiled, engineOpts...)
	if simErr != nil {
		// The partial log still shows where the run stopped.
		if !formatter.IsJSON() {
			fmt.Fprint(formatter.Writer, sim.FormatLog(out.Log))
		}
		formatter.VerboseLog("Stopped after %d event(s), %d still queued", out.Events, out.Pending)
		_ = formatter.Error(ErrCodeSimulation, simErr.Error(), nil)
		return WrapExitError(ExitFailure, "simulation aborted", simErr)
	}

	result := SimulateResult{Events: out.Events, Final: out.State.Snapshot()}
	result.Log, err = engine.EncodeLog(out.Log)
	if err != nil {
		return outputCommandError(formatter, ErrCodeGeneric, err.Error())
	}

	if opts.Database != "" {
		scenario := loaded.Data
		if overrides != nil {
			scenario = pinConstants(scenario, compiled.SystemConstants)
		}
		name := opts.Name
		if name == "" {
			name = loaded.Name
		}
		result.RunID, result.Seq, err = journalRun(ctx, opts.Database, opts.ids.Generate(), name, scenario, out.Log)
		if err != nil {
			return outputCommandError(formatter, ErrCodeStore, err.Error())
		}
		formatter.VerboseLog("Stored run %s (seq %d) in %s", result.RunID, result.Seq, opts.Database)
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprint(w, sim.FormatLog(out.Log))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Final: t=%.3f sp=%.3f stagger=%.3f\n",
		out.State.CurrentTime(), out.State.Team.Sp(), out.State.Enemy.Stagger())
	fmt.Fprintf(w, "Events: %d dispatched\n", out.Events)
	if result.RunID != "" {
		fmt.Fprintf(w, "Stored run %s (seq %d)\n", result.RunID, result.Seq)
	}
	return nil
}

// traceStateChanges logs the SP and stagger movement of every event at
// debug level.
func traceStateChanges(logger *slog.Logger) engine.Listener {
	return func(ev engine.Event, before, after state.Snapshot) {
		if before.Team.Sp == after.Team.Sp && before.Enemy.Stagger == after.Enemy.Stagger {
			return
		}
		logger.Debug("state changed",
			"event_type", ev.Type(),
			"time", ev.At(),
			"sp", after.Team.Sp,
			"sp_delta", ir.Round3(after.Team.Sp-before.Team.Sp),
			"stagger", after.Enemy.Stagger,
		)
	}
}

// journalRun writes a finished run to the journal at dbPath.
func journalRun(ctx context.Context, dbPath, id, name string, scenario ir.ScenarioData, log []engine.LogEntry) (string, int64, error) {
	st, err := store.Open(dbPath)
	if err != nil {
		return "", 0, fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	run, records, err := store.NewRun(id, name, scenario, log)
	if err != nil {
		return "", 0, err
	}
	seq, err := st.WriteRun(ctx, run, records)
	if err != nil {
		return "", 0, err
	}
	return run.ID, seq, nil
}

// simulateScenario is the store.Simulator used by replay: the same pipeline
// simulate runs, without caller overrides (stored scenarios carry theirs).
func simulateScenario(opts *RootOptions) store.Simulator {
	return func(ctx context.Context, scenario ir.ScenarioData) ([]engine.LogEntry, error) {
		compiled := compiler.CompileScenario(scenario)
		out, err := sim.Simulate(ctx, compiled, engine.WithLogger(opts.Logger()))
		if err != nil {
			return nil, err
		}
		return out.Log, nil
	}
}
