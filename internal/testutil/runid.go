package testutil

// FixedRunIDGenerator returns the same run id every time.
//
// Journaled runs are keyed by a UUIDv7 in production. Tests that print or
// compare run ids swap in this generator so output is byte-identical across
// runs.
//
// Thread-safety: FixedRunIDGenerator is stateless and safe for concurrent use.
type FixedRunIDGenerator struct {
	id string
}

// NewFixedRunIDGenerator creates a generator for id. An empty id yields
// "test-run-default".
func NewFixedRunIDGenerator(id string) *FixedRunIDGenerator {
	if id == "" {
		id = "test-run-default"
	}
	return &FixedRunIDGenerator{id: id}
}

// Generate returns the fixed run id.
//
// Implements store.IDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	return g.id
}
