// Package metrics records ladder counters through OpenTelemetry.
//
// # Instruments
//
//   - sadari.ladder.sessions: sessions confirmed
//   - sadari.ladder.reveals: reveals committed, by outcome (safe or penalty)
//   - sadari.ladder.results.report_failures: finished games the result
//     recorder rejected
//
// Instruments are created lazily from the global meter provider.
package metrics
