package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/projection"
	"github.com/roach88/rotasim/internal/sim"
)

// Run compiles and simulates a scenario, then evaluates its assertions.
// Assertion failures are reported in the Result; a simulation that aborts
// is returned as an error.
func Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	compiled := compiler.CompileScenario(scenario.Scenario, compiler.WithConstants(scenario.Constants))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	out, err := sim.Simulate(ctx, compiled, engine.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", scenario.Name, err)
	}

	result := NewResult()
	result.Log = out.Log
	result.Timeline = compiled.Timeline
	result.State = out.State

	initial := out.State.InitialSnapshot()
	result.Sp = projection.SpSeries(out.Log, initial, scenario.Horizon)
	result.Stagger = projection.StaggerSeries(out.Log, initial, compiled.EnemyConfig, scenario.Horizon)

	for _, msg := range EvaluateAssertions(result, scenario.Assertions) {
		result.AddError(msg)
	}
	return result, nil
}
