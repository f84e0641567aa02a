// Package store provides a SQLite-backed journal of simulation runs.
//
// Each run records the scenario it simulated, the log it produced and the
// digests of both, so a later build can re-simulate the scenario and check
// that the log is unchanged.
//
// # Ordering
//
// Runs carry a seq INTEGER assigned at write time. Every listing orders by
// seq ASC, id COLLATE BINARY ASC, never by wall-clock time, so listings are
// identical across machines.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability and performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: entries are deleted with their run
//
// Digests are computed by internal/ir over canonical JSON with domain
// separation.
package store
