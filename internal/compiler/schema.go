package compiler

import (
	_ "embed"
	"fmt"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

//go:embed schema.cue
var scenarioSchema string

// CompileError represents a schema compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}

// CheckSchema validates a generically decoded scenario document (the
// map[string]any produced by yaml.v3 or encoding/json) against the embedded
// CUE schema. Every violation is reported as an E100 ValidationError. A
// non-nil error means the schema itself failed to build.
func CheckSchema(doc any) ([]ValidationError, error) {
	ctx := cuecontext.New()
	schema := ctx.CompileString(scenarioSchema, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	def := schema.LookupPath(cue.ParsePath("#Scenario"))
	if err := def.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	value := ctx.Encode(doc)
	if err := value.Err(); err != nil {
		return []ValidationError{{Field: "document", Message: err.Error(), Code: ErrSchemaViolation}}, nil
	}

	err := def.Unify(value).Validate(cue.Concrete(true))
	if err == nil {
		return nil, nil
	}

	var out []ValidationError
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		out = append(out, ValidationError{
			Field:   strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    ErrSchemaViolation,
		})
	}
	return out, nil
}
