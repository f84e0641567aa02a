package harness

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/sim"
)

// AssertionError is returned when an assertion fails. It carries the
// formatted log for context.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
	Log      []engine.LogEntry
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Log) > 0 {
		fmt.Fprintf(&buf, "\nFull log:\n")
		for i, entry := range e.Log {
			fmt.Fprintf(&buf, "  [%d] %s\n", i+1, sim.FormatLogEntry(entry))
		}
	}
	return buf.String()
}

// EvaluateAssertions evaluates every assertion against result and returns
// one message per failure.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errors []string

	for i, assertion := range assertions {
		var err error

		switch assertion.Type {
		case AssertActionTiming:
			err = assertActionTiming(result, assertion)
		case AssertLogContains:
			err = assertLogContains(result.Log, assertion)
		case AssertLogOrder:
			err = assertLogOrder(result.Log, assertion)
		case AssertLogCount:
			err = assertLogCount(result.Log, assertion)
		case AssertFinalState:
			err = assertFinalState(result, assertion)
		default:
			err = fmt.Errorf("assertion[%d]: unknown assertion type %q", i, assertion.Type)
		}

		if err != nil {
			errors = append(errors, err.Error())
		}
	}
	return errors
}

func assertActionTiming(result *Result, a Assertion) error {
	if result.Timeline == nil {
		return fmt.Errorf("action_timing requires a compiled timeline")
	}
	action, ok := result.Timeline.Action(a.Action)
	if !ok {
		return &AssertionError{
			Type:     AssertActionTiming,
			Expected: fmt.Sprintf("action %s on the timeline", a.Action),
			Actual:   "not found",
		}
	}
	if a.RealStart != nil && !numbersEqual(*a.RealStart, action.RealStartTime) {
		return &AssertionError{
			Type:     AssertActionTiming,
			Expected: fmt.Sprintf("%s realStart %v", a.Action, *a.RealStart),
			Actual:   fmt.Sprintf("realStart %v", action.RealStartTime),
		}
	}
	if a.RealDuration != nil && !numbersEqual(*a.RealDuration, action.RealDuration) {
		return &AssertionError{
			Type:     AssertActionTiming,
			Expected: fmt.Sprintf("%s realDuration %v", a.Action, *a.RealDuration),
			Actual:   fmt.Sprintf("realDuration %v", action.RealDuration),
		}
	}
	return nil
}

func assertLogContains(log []engine.LogEntry, a Assertion) error {
	for _, entry := range log {
		if matches(entry, *a.Match) {
			return nil
		}
	}
	return &AssertionError{
		Type:     AssertLogContains,
		Expected: describe(*a.Match),
		Actual:   "not found in log",
		Log:      log,
	}
}

// assertLogOrder walks the log once, advancing through the sequence as each
// step is matched.
func assertLogOrder(log []engine.LogEntry, a Assertion) error {
	next := 0
	for _, entry := range log {
		if next == len(a.Sequence) {
			break
		}
		if matches(entry, a.Sequence[next]) {
			next++
		}
	}
	if next < len(a.Sequence) {
		return &AssertionError{
			Type:     AssertLogOrder,
			Expected: fmt.Sprintf("%d steps in order", len(a.Sequence)),
			Actual:   fmt.Sprintf("step %d (%s) not found after step %d", next+1, describe(a.Sequence[next]), next),
			Log:      log,
		}
	}
	return nil
}

func assertLogCount(log []engine.LogEntry, a Assertion) error {
	count := 0
	for _, entry := range log {
		if matches(entry, *a.Match) {
			count++
		}
	}
	if count != a.Count {
		return &AssertionError{
			Type:     AssertLogCount,
			Expected: fmt.Sprintf("%d occurrences of %s", a.Count, describe(*a.Match)),
			Actual:   fmt.Sprintf("%d occurrences", count),
			Log:      log,
		}
	}
	return nil
}

func assertFinalState(result *Result, a Assertion) error {
	if result.State == nil {
		return fmt.Errorf("final_state requires a simulated state")
	}
	actual := map[string]float64{
		StateSp:           result.State.Team.Sp(),
		StateStagger:      result.State.Enemy.Stagger(),
		StateBreakEndTime: result.State.Enemy.BreakEndTime(),
	}

	for _, key := range sortedKeys(a.Expect) {
		if !numbersEqual(a.Expect[key], actual[key]) {
			return &AssertionError{
				Type:     AssertFinalState,
				Expected: fmt.Sprintf("%s = %v", key, a.Expect[key]),
				Actual:   fmt.Sprintf("%s = %v", key, actual[key]),
			}
		}
	}
	return nil
}

// matches reports whether entry has m's type and every field in m (subset
// match). Extra fields in the entry are ignored.
func matches(entry engine.LogEntry, m LogMatch) bool {
	if entry.Type() != m.Type {
		return false
	}
	if len(m.Fields) == 0 {
		return true
	}

	fields, err := entryFields(entry)
	if err != nil {
		return false
	}
	for key, want := range m.Fields {
		got, ok := fields[key]
		if !ok || !valuesEqual(got, want) {
			return false
		}
	}
	return true
}

// entryFields flattens an entry to its JSON payload plus its time.
func entryFields(entry engine.LogEntry) (map[string]any, error) {
	data, err := json.Marshal(entry)
	if err != nil {
		return nil, err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	fields["time"] = entry.At()
	return fields, nil
}

// valuesEqual compares a JSON-decoded actual value with a YAML-decoded
// expected one. Numbers compare within a millisecond.
func valuesEqual(actual, expected any) bool {
	if a, ok := toFloat(actual); ok {
		if e, ok := toFloat(expected); ok {
			return numbersEqual(e, a)
		}
		return false
	}

	// Route expected through JSON so YAML's int and map types line up with
	// what encoding/json produced for actual.
	data, err := json.Marshal(expected)
	if err != nil {
		return false
	}
	var normalized any
	if err := json.Unmarshal(data, &normalized); err != nil {
		return false
	}
	return reflect.DeepEqual(actual, normalized)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// matchTolerance is half a millisecond: logged values sit on the
// millisecond grid, so an expectation matches the nearest grid point.
const matchTolerance = 0.0005

func numbersEqual(a, b float64) bool {
	return math.Abs(a-b) < matchTolerance
}

func describe(m LogMatch) string {
	if len(m.Fields) == 0 {
		return string(m.Type)
	}
	parts := make([]string, 0, len(m.Fields))
	for _, k := range sortedKeys(m.Fields) {
		parts = append(parts, fmt.Sprintf("%s=%v", k, m.Fields[k]))
	}
	return fmt.Sprintf("%s{%s}", m.Type, strings.Join(parts, " "))
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
