package domain

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/louisbranch/sadari/internal/services/mcp"

// Span attribute keys.
const (
	attrSessionID = attribute.Key("ladder.session_id")
	attrColumn    = attribute.Key("ladder.column")
	attrStatus    = attribute.Key("ladder.status")
	attrPenalty   = attribute.Key("ladder.penalty")
	attrPlayers   = attribute.Key("ladder.players")
	attrErrorCode = attribute.Key("ladder.error_code")

	attrActiveSessions = attribute.Key("ladder.active_sessions")
	attrResultID       = attribute.Key("ladder.result_id")
)

func startToolSpan(ctx context.Context, tool string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(
		ctx,
		"mcp.tool."+tool,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(attrs...),
	)
}

// endToolSpan records err on span and ends it.
func endToolSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		if code := errorCode(err); code != "" {
			span.SetAttributes(attrErrorCode.String(code))
		}
	}
	span.End()
}
