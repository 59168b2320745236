// Package timeouts defines shared timeout constants used across the ladder
// service.
package timeouts

import "time"

// ReadHeader limits how long an HTTP server waits for request headers.
const ReadHeader = 5 * time.Second

// Shutdown limits how long an HTTP server waits for in-flight requests
// during graceful shutdown.
const Shutdown = 5 * time.Second

// ResultReport caps the time a finished game waits on the result recorder.
const ResultReport = 3 * time.Second
