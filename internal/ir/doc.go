// Package ir defines the data model shared by the compiler, the simulation
// engine and the CLI: authored scenario documents, resolved timelines, actor
// snapshots and the canonical serialisation used for run digests.
//
// ir imports nothing internal. All other internal packages import ir.
//
// Key design constraints:
//   - Times are float64 seconds, rounded to milliseconds (Round3) after
//     every arithmetic step so chained shifts never drift
//   - JSON/YAML tags use the camelCase keys of the authoring document
//   - Identifiers are NFC-normalised at the compile boundary (NormalizeID)
package ir
