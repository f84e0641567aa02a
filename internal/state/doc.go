// Package state holds the mutable simulation state: the shared team resource
// pool, the adversary's stagger meter and per-actor status effects.
//
// A Game is created per simulation run and is owned by the engine for the
// run's duration. Only event handlers mutate it; only the engine advances
// its clock.
package state
