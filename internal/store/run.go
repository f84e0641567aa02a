package store

import (
	"encoding/json"
	"fmt"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// Run is one journaled simulation.
type Run struct {
	ID             string
	Seq            int64
	Name           string
	Scenario       ir.ScenarioData
	ScenarioDigest string
	LogDigest      string
	EntryCount     int
	EngineVersion  string
	SchemaVersion  string
}

// NewRun builds the journal row for a finished simulation. The log digest
// covers the encoded records so it matches what is stored.
func NewRun(id, name string, scenario ir.ScenarioData, log []engine.LogEntry) (Run, []engine.Record, error) {
	scenarioDigest, err := ir.ScenarioDigest(scenario)
	if err != nil {
		return Run{}, nil, fmt.Errorf("new run: %w", err)
	}
	records, err := engine.EncodeLog(log)
	if err != nil {
		return Run{}, nil, fmt.Errorf("new run: %w", err)
	}
	logDigest, err := ir.LogDigest(records)
	if err != nil {
		return Run{}, nil, fmt.Errorf("new run: %w", err)
	}
	return Run{
		ID:             id,
		Name:           name,
		Scenario:       scenario,
		ScenarioDigest: scenarioDigest,
		LogDigest:      logDigest,
		EntryCount:     len(records),
		EngineVersion:  ir.EngineVersion,
		SchemaVersion:  ir.SchemaVersion,
	}, records, nil
}

// The scenario column holds plain JSON, not the canonical form: canonical
// JSON quantises numbers and is only fit for hashing.
func marshalScenario(s ir.ScenarioData) (string, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("marshal scenario: %w", err)
	}
	return string(data), nil
}

func unmarshalScenario(data string) (ir.ScenarioData, error) {
	var s ir.ScenarioData
	if err := json.Unmarshal([]byte(data), &s); err != nil {
		return ir.ScenarioData{}, fmt.Errorf("unmarshal scenario: %w", err)
	}
	return s, nil
}
