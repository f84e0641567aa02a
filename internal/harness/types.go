package harness

import (
	"github.com/roach88/rotasim/internal/compiler"
	"github.com/roach88/rotasim/internal/engine"
	"github.com/roach88/rotasim/internal/projection"
	"github.com/roach88/rotasim/internal/state"
)

// Result is the outcome of a scenario run.
type Result struct {
	// Pass is true when every assertion held.
	Pass bool `json:"pass"`

	Log      []engine.LogEntry          `json:"-"`
	Timeline *compiler.ResolvedTimeline `json:"-"`
	State    *state.Game                `json:"-"`

	// Sp and Stagger are the projected curves out to the scenario horizon.
	Sp      []projection.SpPoint   `json:"sp"`
	Stagger projection.StaggerData `json:"stagger"`

	// Errors holds one message per failed assertion.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result.
func NewResult() *Result {
	return &Result{Pass: true, Errors: []string{}}
}

// AddError records a failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
