package compiler

import (
	"fmt"
	"strings"

	"github.com/roach88/rotasim/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Document errors (E100)
	ErrSchemaViolation = "E100" // document does not match the scenario schema

	// Track and action errors (E101-E109)
	ErrMissingInstanceID   = "E101" // action has no instanceId
	ErrDuplicateInstanceID = "E102" // instanceId used twice
	ErrUnknownActionType   = "E103" // type not in ValidActionTypes
	ErrNegativeTime        = "E104" // startTime, duration or offset below zero
	ErrDuplicateTrackID    = "E105" // two tracks share an actor id
	ErrStackCount          = "E106" // anomaly stacks below zero

	// Connection errors (E110-E119)
	ErrDanglingConnection = "E110" // from/to names no action
	ErrUnknownEffect      = "E111" // fromEffectId names no effect of the producer
	ErrConsumptionOffset  = "E112" // negative consumptionOffset

	// Constant errors (E120-E129)
	ErrInvalidConstant = "E120" // non-positive capacity or negative rate
)

// ValidationError represents a scenario validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
	Line    int    `json:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Field, e.Message)
	}
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a decoded scenario for authoring mistakes the compiler
// would otherwise silently ignore. Returns all errors found (does not
// fail-fast).
func Validate(s ir.ScenarioData) []ValidationError {
	var errs []ValidationError

	trackIDs := make(map[string]bool)
	instances := make(map[string]ir.Action)

	for i, track := range s.Tracks {
		id := ir.NormalizeID(track.ID)
		if id != "" {
			if trackIDs[id] {
				errs = append(errs, ValidationError{
					Field:   fmt.Sprintf("tracks[%d].id", i),
					Message: fmt.Sprintf("duplicate track id %q", id),
					Code:    ErrDuplicateTrackID,
				})
			}
			trackIDs[id] = true
		}

		for j, a := range track.Actions {
			path := fmt.Sprintf("tracks[%d].actions[%d]", i, j)
			errs = append(errs, validateAction(path, a)...)

			inst := ir.NormalizeID(a.InstanceID)
			if inst == "" {
				continue
			}
			if _, dup := instances[inst]; dup {
				errs = append(errs, ValidationError{
					Field:   path + ".instanceId",
					Message: fmt.Sprintf("duplicate instanceId %q", inst),
					Code:    ErrDuplicateInstanceID,
				})
			}
			instances[inst] = a
		}
	}

	for i, c := range s.Connections {
		errs = append(errs, validateConnection(fmt.Sprintf("connections[%d]", i), c, instances)...)
	}

	errs = append(errs, validateConstants("systemConstants", s.SystemConstants)...)
	errs = append(errs, validateConstants("customEnemyParams", s.CustomEnemyParams)...)
	return errs
}

func validateAction(path string, a ir.Action) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(a.InstanceID) == "" {
		errs = append(errs, ValidationError{
			Field:   path + ".instanceId",
			Message: "instanceId is required",
			Code:    ErrMissingInstanceID,
		})
	}
	if !ir.ValidActionTypes[a.Type] {
		errs = append(errs, ValidationError{
			Field:   path + ".type",
			Message: fmt.Sprintf("unknown action type %q", a.Type),
			Code:    ErrUnknownActionType,
		})
	}
	if a.StartTime < 0 {
		errs = append(errs, negative(path+".startTime", a.StartTime))
	}
	if a.Duration < 0 {
		errs = append(errs, negative(path+".duration", a.Duration))
	}
	for k, tick := range a.DamageTicks {
		if tick.Offset < 0 {
			errs = append(errs, negative(fmt.Sprintf("%s.damageTicks[%d].offset", path, k), tick.Offset))
		}
	}
	for r, row := range a.PhysicalAnomaly {
		for c, an := range row {
			p := fmt.Sprintf("%s.physicalAnomaly[%d][%d]", path, r, c)
			if an.Offset < 0 {
				errs = append(errs, negative(p+".offset", an.Offset))
			}
			if an.Duration < 0 {
				errs = append(errs, negative(p+".duration", an.Duration))
			}
			if an.Stacks < 0 {
				errs = append(errs, ValidationError{
					Field:   p + ".stacks",
					Message: fmt.Sprintf("stacks must be >= 0, got %d", an.Stacks),
					Code:    ErrStackCount,
				})
			}
		}
	}
	return errs
}

func negative(field string, v float64) ValidationError {
	return ValidationError{
		Field:   field,
		Message: fmt.Sprintf("must be >= 0, got %g", v),
		Code:    ErrNegativeTime,
	}
}

func validateConnection(path string, c ir.Connection, instances map[string]ir.Action) []ValidationError {
	var errs []ValidationError

	from, fromOK := instances[ir.NormalizeID(c.From)]
	if !fromOK {
		errs = append(errs, ValidationError{
			Field:   path + ".from",
			Message: fmt.Sprintf("no action with instanceId %q", c.From),
			Code:    ErrDanglingConnection,
		})
	}
	if _, ok := instances[ir.NormalizeID(c.To)]; !ok {
		errs = append(errs, ValidationError{
			Field:   path + ".to",
			Message: fmt.Sprintf("no action with instanceId %q", c.To),
			Code:    ErrDanglingConnection,
		})
	}
	if fromOK && c.FromEffectID != "" && !hasAnomaly(from, ir.NormalizeID(c.FromEffectID)) {
		errs = append(errs, ValidationError{
			Field:   path + ".fromEffectId",
			Message: fmt.Sprintf("action %q has no effect %q", c.From, c.FromEffectID),
			Code:    ErrUnknownEffect,
		})
	}
	if c.ConsumptionOffset < 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".consumptionOffset",
			Message: fmt.Sprintf("must be >= 0, got %g", c.ConsumptionOffset),
			Code:    ErrConsumptionOffset,
		})
	}
	return errs
}

func hasAnomaly(a ir.Action, id string) bool {
	for _, row := range a.PhysicalAnomaly {
		for _, an := range row {
			if ir.NormalizeID(an.ID) == id {
				return true
			}
		}
	}
	return false
}

func validateConstants(path string, o *ir.ConstantOverrides) []ValidationError {
	if o == nil {
		return nil
	}
	var errs []ValidationError
	positive := func(name string, v *float64) {
		if v != nil && *v <= 0 {
			errs = append(errs, ValidationError{
				Field:   path + "." + name,
				Message: fmt.Sprintf("must be > 0, got %g", *v),
				Code:    ErrInvalidConstant,
			})
		}
	}
	nonNegative := func(name string, v *float64) {
		if v != nil && *v < 0 {
			errs = append(errs, ValidationError{
				Field:   path + "." + name,
				Message: fmt.Sprintf("must be >= 0, got %g", *v),
				Code:    ErrInvalidConstant,
			})
		}
	}
	positive("maxSp", o.MaxSp)
	positive("maxStagger", o.MaxStagger)
	nonNegative("initialSp", o.InitialSp)
	nonNegative("spRegenRate", o.SpRegenRate)
	nonNegative("staggerNodeDuration", o.StaggerNodeDuration)
	nonNegative("staggerBreakDuration", o.StaggerBreakDuration)
	if o.StaggerNodeCount != nil && *o.StaggerNodeCount < 0 {
		errs = append(errs, ValidationError{
			Field:   path + ".staggerNodeCount",
			Message: fmt.Sprintf("must be >= 0, got %d", *o.StaggerNodeCount),
			Code:    ErrInvalidConstant,
		})
	}
	return errs
}
