package metrics

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/louisbranch/sadari/ladder"

// Reveal outcomes.
const (
	OutcomeSafe    = "safe"
	OutcomePenalty = "penalty"
)

// Recorder holds the ladder counters.
type Recorder struct {
	sessions       metric.Int64Counter
	reveals        metric.Int64Counter
	reportFailures metric.Int64Counter
}

var (
	defaultOnce     sync.Once
	defaultRecorder *Recorder
)

// Default returns the recorder bound to the global meter provider.
func Default() *Recorder {
	defaultOnce.Do(func() {
		recorder, err := New(otel.GetMeterProvider().Meter(meterName))
		if err != nil {
			otel.Handle(err)
			recorder = &Recorder{}
		}
		defaultRecorder = recorder
	})
	return defaultRecorder
}

// New creates the ladder counters on meter.
func New(meter metric.Meter) (*Recorder, error) {
	sessions, err := meter.Int64Counter(
		"sadari.ladder.sessions",
		metric.WithDescription("Ladder sessions confirmed."),
		metric.WithUnit("{session}"),
	)
	if err != nil {
		return nil, err
	}
	reveals, err := meter.Int64Counter(
		"sadari.ladder.reveals",
		metric.WithDescription("Ladder reveals committed, by outcome."),
		metric.WithUnit("{reveal}"),
	)
	if err != nil {
		return nil, err
	}
	reportFailures, err := meter.Int64Counter(
		"sadari.ladder.results.report_failures",
		metric.WithDescription("Finished games whose result could not be recorded."),
		metric.WithUnit("{result}"),
	)
	if err != nil {
		return nil, err
	}
	return &Recorder{
		sessions:       sessions,
		reveals:        reveals,
		reportFailures: reportFailures,
	}, nil
}

// SessionConfirmed counts a confirmed session.
func (r *Recorder) SessionConfirmed(ctx context.Context) {
	if r == nil || r.sessions == nil {
		return
	}
	r.sessions.Add(ctx, 1)
}

// RevealCommitted counts a committed reveal.
func (r *Recorder) RevealCommitted(ctx context.Context, penalty bool) {
	if r == nil || r.reveals == nil {
		return
	}
	outcome := OutcomeSafe
	if penalty {
		outcome = OutcomePenalty
	}
	r.reveals.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// ReportFailed counts a result the recorder rejected.
func (r *Recorder) ReportFailed(ctx context.Context) {
	if r == nil || r.reportFailures == nil {
		return
	}
	r.reportFailures.Add(ctx, 1)
}
