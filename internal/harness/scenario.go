package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/ir"
)

// Scenario defines a conformance scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Scenario is the authored document to compile and simulate.
	Scenario ir.ScenarioData `yaml:"scenario"`

	// Constants are caller overrides, applied below the document's own.
	Constants *ir.ConstantOverrides `yaml:"constants,omitempty"`

	// Horizon bounds the projected curves. Zero means the projection default.
	Horizon float64 `yaml:"horizon,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// LogMatch selects log entries by type and a subset of payload fields.
// The entry time is addressable as the field "time".
type LogMatch struct {
	Type   engine.LogType `yaml:"type"`
	Fields map[string]any `yaml:"fields,omitempty"`
}

// Assertion validates the timeline, the log or the final state.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// Action is the instance id checked by action_timing.
	Action       string   `yaml:"action,omitempty"`
	RealStart    *float64 `yaml:"realStart,omitempty"`
	RealDuration *float64 `yaml:"realDuration,omitempty"`

	// Match selects entries for log_contains and log_count.
	Match *LogMatch `yaml:"match,omitempty"`

	// Count is the expected number of matches for log_count.
	Count int `yaml:"count,omitempty"`

	// Sequence lists the steps log_order expects, in order. Entries between
	// steps are allowed.
	Sequence []LogMatch `yaml:"sequence,omitempty"`

	// Expect holds final_state values keyed by sp, stagger or breakEndTime.
	Expect map[string]float64 `yaml:"expect,omitempty"`
}

// Assertion type constants.
const (
	AssertActionTiming = "action_timing"
	AssertLogContains  = "log_contains"
	AssertLogOrder     = "log_order"
	AssertLogCount     = "log_count"
	AssertFinalState   = "final_state"
)

// Keys understood by final_state.
const (
	StateSp           = "sp"
	StateStagger      = "stagger"
	StateBreakEndTime = "breakEndTime"
)

// LoadScenario reads and parses a scenario YAML file. Unknown fields are
// rejected so typos surface as errors.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses and validates a scenario document.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if len(s.Scenario.Tracks) == 0 {
		return fmt.Errorf("scenario.tracks is required and must be non-empty")
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertActionTiming:
		if a.Action == "" {
			return fmt.Errorf("assertions[%d]: action is required for action_timing", index)
		}
		if a.RealStart == nil && a.RealDuration == nil {
			return fmt.Errorf("assertions[%d]: realStart or realDuration is required for action_timing", index)
		}
	case AssertLogContains:
		if a.Match == nil || a.Match.Type == "" {
			return fmt.Errorf("assertions[%d]: match.type is required for log_contains", index)
		}
	case AssertLogOrder:
		if len(a.Sequence) == 0 {
			return fmt.Errorf("assertions[%d]: sequence is required for log_order", index)
		}
		for j, step := range a.Sequence {
			if step.Type == "" {
				return fmt.Errorf("assertions[%d].sequence[%d]: type is required", index, j)
			}
		}
	case AssertLogCount:
		if a.Match == nil || a.Match.Type == "" {
			return fmt.Errorf("assertions[%d]: match.type is required for log_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for log_count", index)
		}
	case AssertFinalState:
		if len(a.Expect) == 0 {
			return fmt.Errorf("assertions[%d]: expect is required for final_state", index)
		}
		for key := range a.Expect {
			switch key {
			case StateSp, StateStagger, StateBreakEndTime:
			default:
				return fmt.Errorf("assertions[%d]: unknown final_state key %q", index, key)
			}
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
