// Package sqlite provides the SQLite-backed result store.
//
// Results are append-only: a finished game is recorded once and never
// updated. Listings walk the autoincrement sequence newest first.
package sqlite
