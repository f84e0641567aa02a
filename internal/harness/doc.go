// Package harness runs conformance scenarios against the simulator.
//
// A scenario is a YAML document holding a ScenarioData, optional constant
// overrides and a list of assertions over the compiled timeline, the
// simulation log and the final state. RunWithGolden additionally compares
// the formatted log with testdata/golden/<name>.golden.
//
// Assertion types:
//   - action_timing: realStart and realDuration of one action
//   - log_contains: some entry of a type has the given fields
//   - log_order: entries matching each step appear in order
//   - log_count: exactly N entries match
//   - final_state: sp, stagger or breakEndTime after the run
package harness
