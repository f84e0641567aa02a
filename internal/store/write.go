package store

import (
	"context"
	"fmt"

	"github.com/roach88/rotasim/internal/engine"
)

// WriteRun journals run and its records in one transaction and returns the
// seq assigned to it. Writing a run id twice fails.
func (s *Store) WriteRun(ctx context.Context, run Run, records []engine.Record) (int64, error) {
	scenarioJSON, err := marshalScenario(run.Scenario)
	if err != nil {
		return 0, fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, name, scenario, scenario_digest, log_digest, entry_count, engine_version, schema_version)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.Name,
		scenarioJSON,
		run.ScenarioDigest,
		run.LogDigest,
		len(records),
		run.EngineVersion,
		run.SchemaVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_entries (run_id, idx, type, time, payload)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("write run entries: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, run.ID, i, string(r.Type), r.Time, string(r.Payload)); err != nil {
			return 0, fmt.Errorf("write run entry %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}

// DeleteRun removes a run and its entries. Deleting an unknown id returns
// ErrNotFound.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrNotFound)
	}
	return nil
}
