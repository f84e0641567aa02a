package ir

// Version constants for the document formats and the simulator.
const (
	// SchemaVersion is the scenario document version.
	SchemaVersion = "1"

	// EngineVersion is the rotasim engine version.
	EngineVersion = "0.1.0"
)
