// Package ladder implements the ladder ("sadari") penalty game engine.
//
// A ladder is a set of parallel columns joined by horizontal rungs between
// adjacent columns. Each rung sits on an integer level, and a token descending
// from the top of a column swaps to the neighbouring column whenever it meets a
// rung. Because no column takes part in more than one rung on the same level,
// every level is an involution and the whole descent is a permutation of the
// columns: two starting columns can never land on the same final column.
//
// The package holds:
//   - Generate, which builds a random graph that satisfies the matching
//     invariant by construction from a seeded random source,
//   - Trace, which replays a single descent and returns its waypoints,
//   - Graph validation shared by both so malformed graphs surface as
//     ErrInvariantViolation rather than silent misbehaviour.
//
// Both Generate and Trace are pure and synchronous. Presentation timing is owned
// by callers.
package ladder
