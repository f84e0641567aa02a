package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/rotasim/internal/ir"
)

// Error codes for CLI-level failures. Scenario validation codes (E100+)
// live in the compiler.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeNotFound     = "E002" // Path not found
	ErrCodeParseFailed  = "E003" // Scenario document does not decode
	ErrCodeWriteFailed  = "E004" // File write error
	ErrCodeConfig       = "E005" // Constants file or environment invalid
	ErrCodeSimulation   = "E006" // Simulation aborted
	ErrCodeStore        = "E007" // Run journal error
	ErrCodeDeterminism  = "E008" // Replay did not reproduce the stored log
	ErrCodeSchemaFailed = "E009" // Schema generation failed
)

// LoadError represents an error that occurred while loading a scenario.
type LoadError struct {
	Code    string
	Message string
	Path    string
}

func (e *LoadError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadedScenario is a scenario document read from disk.
type LoadedScenario struct {
	Path string
	// Name defaults to the file name without its extension.
	Name string
	Data ir.ScenarioData
	// Raw is the generic decoding of the same bytes, for schema checks.
	Raw map[string]any
}

// LoadScenarioFile reads a scenario document. YAML and JSON are both
// accepted; JSON is decoded as YAML. Unknown fields are ignored, since
// authoring tools attach display-only data.
func LoadScenarioFile(path string) (*LoadedScenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &LoadError{Code: ErrCodeNotFound, Message: "scenario file not found", Path: path}
		}
		return nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error(), Path: path}
	}

	var scenario ir.ScenarioData
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Path: path}
	}

	raw := map[string]any{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &LoadError{Code: ErrCodeParseFailed, Message: err.Error(), Path: path}
	}

	return &LoadedScenario{
		Path: path,
		Name: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Data: scenario,
		Raw:  raw,
	}, nil
}
