// Package calc computes derived numbers by running a base value through an
// ordered chain of modifiers, keeping a breakdown of each contribution.
package calc

import "github.com/roach88/rotasim/internal/ir"

// EntryType classifies a breakdown entry.
type EntryType string

const (
	EntryBase       EntryType = "BASE"
	EntryFlat       EntryType = "FLAT"
	EntryMultiplier EntryType = "MULTIPLIER"
)

// Breakdown is one labelled step of a calculation.
type Breakdown struct {
	Source       string    `json:"source"`
	Type         EntryType `json:"type"`
	Value        float64   `json:"value"`
	Contribution float64   `json:"contribution"`
}

// Result accumulates a calculation.
type Result struct {
	BaseValue  float64     `json:"baseValue"`
	FinalValue float64     `json:"finalValue"`
	Breakdown  []Breakdown `json:"breakdown"`
}

// Multiply scales the running value by factor and records the step.
func (r *Result) Multiply(source string, factor float64) {
	prev := r.FinalValue
	r.FinalValue = prev * factor
	r.Breakdown = append(r.Breakdown, Breakdown{
		Source:       source,
		Type:         EntryMultiplier,
		Value:        factor,
		Contribution: r.FinalValue - prev,
	})
}

// Add adds amount to the running value and records the step.
func (r *Result) Add(source string, amount float64) {
	r.FinalValue += amount
	r.Breakdown = append(r.Breakdown, Breakdown{
		Source:       source,
		Type:         EntryFlat,
		Value:        amount,
		Contribution: amount,
	})
}

// Modifier is one stage of a pipeline. It may change r.FinalValue and
// should record what it did in the breakdown.
type Modifier[C any] func(ctx C, r *Result)

// Pipeline runs modifiers in the order they were added.
type Pipeline[C any] struct {
	modifiers []Modifier[C]
}

// NewPipeline returns a pipeline running mods in order.
func NewPipeline[C any](mods ...Modifier[C]) *Pipeline[C] {
	return &Pipeline[C]{modifiers: mods}
}

// Add appends a modifier.
func (p *Pipeline[C]) Add(m Modifier[C]) {
	p.modifiers = append(p.modifiers, m)
}

// Execute runs base through every modifier. The final value is rounded to
// milliseconds precision.
func (p *Pipeline[C]) Execute(ctx C, base float64) Result {
	r := Result{
		BaseValue:  base,
		FinalValue: base,
		Breakdown: []Breakdown{{
			Source:       "Base Value",
			Type:         EntryBase,
			Value:        base,
			Contribution: base,
		}},
	}
	for _, m := range p.modifiers {
		m(ctx, &r)
	}
	r.FinalValue = ir.Round3(r.FinalValue)
	return r
}
