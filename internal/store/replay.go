package store

import (
	"context"
	"fmt"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// Simulator re-runs a stored scenario. The store does not know how to
// simulate; the caller supplies the current build's pipeline.
type Simulator func(ctx context.Context, scenario ir.ScenarioData) ([]engine.LogEntry, error)

// ReplayResult compares a stored run with a fresh simulation of its
// scenario.
type ReplayResult struct {
	RunID          string
	Name           string
	ExpectedDigest string
	ActualDigest   string
	ExpectedCount  int
	ActualCount    int
	// Err is set when the fresh simulation itself failed.
	Err error
}

// Match reports whether the replay reproduced the stored log.
func (r ReplayResult) Match() bool {
	return r.Err == nil && r.ExpectedDigest == r.ActualDigest
}

// ReplayRun re-simulates one run. Simulation failures are reported in the
// result; only journal errors are returned.
func (s *Store) ReplayRun(ctx context.Context, runID string, simulate Simulator) (ReplayResult, error) {
	run, err := s.ReadRun(ctx, runID)
	if err != nil {
		return ReplayResult{}, err
	}
	return replay(ctx, run, simulate), nil
}

// ReplayAll re-simulates every run in journal order.
func (s *Store) ReplayAll(ctx context.Context, simulate Simulator) ([]ReplayResult, error) {
	runs, err := s.ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]ReplayResult, 0, len(runs))
	for _, run := range runs {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		results = append(results, replay(ctx, run, simulate))
	}
	return results, nil
}

func replay(ctx context.Context, run Run, simulate Simulator) ReplayResult {
	res := ReplayResult{
		RunID:          run.ID,
		Name:           run.Name,
		ExpectedDigest: run.LogDigest,
		ExpectedCount:  run.EntryCount,
	}

	log, err := simulate(ctx, run.Scenario)
	if err != nil {
		res.Err = err
		return res
	}
	fresh, records, err := NewRun(run.ID, run.Name, run.Scenario, log)
	if err != nil {
		res.Err = fmt.Errorf("replay %s: %w", run.ID, err)
		return res
	}
	res.ActualDigest = fresh.LogDigest
	res.ActualCount = len(records)
	return res
}
