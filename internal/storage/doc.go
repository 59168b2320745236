// Package storage defines persistence contracts for finished ladder games.
//
// Transports and the result reporter depend on these interfaces rather than
// on the SQLite schema, which keeps handlers testable with in-memory fakes.
package storage
