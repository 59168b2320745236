// Package telemetry groups the operational observability of the ladder
// service.
//
// Tracing is configured by internal/platform/otel. Counters describing
// session and reveal activity live in telemetry/metrics and are recorded
// through the global OpenTelemetry meter provider, so they are no-ops until a
// provider is installed.
package telemetry
