package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/roach88/rotasim/internal/engine"
)

const runColumns = `id, seq, name, scenario, scenario_digest, log_digest, entry_count, engine_version, schema_version`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var (
		run      Run
		scenario string
	)
	err := row.Scan(
		&run.ID,
		&run.Seq,
		&run.Name,
		&scenario,
		&run.ScenarioDigest,
		&run.LogDigest,
		&run.EntryCount,
		&run.EngineVersion,
		&run.SchemaVersion,
	)
	if err != nil {
		return Run{}, err
	}
	run.Scenario, err = unmarshalScenario(scenario)
	if err != nil {
		return Run{}, err
	}
	return run, nil
}

// ReadRun returns the run with the given id.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("read run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns every run in journal order.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM runs
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// ReadRecords returns a run's log records in log order.
func (s *Store) ReadRecords(ctx context.Context, runID string) ([]engine.Record, error) {
	if _, err := s.ReadRun(ctx, runID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT type, time, payload
		FROM run_entries
		WHERE run_id = ?
		ORDER BY idx ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	defer rows.Close()

	records := []engine.Record{}
	for rows.Next() {
		var (
			r       engine.Record
			typ     string
			payload string
		)
		if err := rows.Scan(&typ, &r.Time, &payload); err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
		r.Type = engine.LogType(typ)
		r.Payload = json.RawMessage(payload)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	return records, nil
}

// ReadLog returns a run's log decoded back into entries.
func (s *Store) ReadLog(ctx context.Context, runID string) ([]engine.LogEntry, error) {
	records, err := s.ReadRecords(ctx, runID)
	if err != nil {
		return nil, err
	}
	return engine.DecodeLog(records)
}

// GetLastSeq returns the highest run seq, 0 for an empty journal.
func (s *Store) GetLastSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("get last seq: %w", err)
	}
	return seq.Int64, nil
}
