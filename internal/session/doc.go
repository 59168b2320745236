// Package session runs ladder games.
//
// A Controller owns one game from setup to finish: it validates the roster,
// generates the ladder once per round, reveals columns one at a time and
// reports the loser when the penalty column is reached. A Controller is
// single-writer; Registry serializes access for transports that serve many
// games concurrently.
//
// # Columns
//
// Player i starts at column i. The bottom of column N-1 always carries the
// penalty, every other bottom is safe.
package session
