package otel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/louisbranch/sadari/internal/platform/random"
	"github.com/louisbranch/sadari/internal/session"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

func TestSetup_NoopWhenEndpointEmpty(t *testing.T) {
	t.Setenv(EnvEndpoint, "")
	t.Setenv(EnvEnabled, "")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_NoopWhenExplicitlyDisabled(t *testing.T) {
	t.Setenv(EnvEndpoint, "http://localhost:4318")
	t.Setenv(EnvEnabled, "false")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestSetup_CreatesProviderWhenEndpointSet(t *testing.T) {
	var metricExports atomic.Int32
	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/metrics" {
			metricExports.Add(1)
		}
		w.Header().Set("Content-Type", "application/x-protobuf")
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	t.Setenv(EnvEndpoint, collector.URL)
	t.Setenv(EnvEnabled, "")
	t.Setenv(EnvSampleRatio, "0.5")

	shutdown, err := Setup(context.Background(), "test-service")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := otel.GetMeterProvider().(*sdkmetric.MeterProvider); !ok {
		t.Fatalf("global meter provider = %T, want SDK provider", otel.GetMeterProvider())
	}
	counter, err := otel.Meter("test").Int64Counter("test.setup")
	if err != nil {
		t.Fatalf("counter: %v", err)
	}
	counter.Add(context.Background(), 1)
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
	if metricExports.Load() == 0 {
		t.Fatal("expected shutdown to flush metrics to the collector")
	}
}

func TestMeterProviderReceivesCommittedReveals(t *testing.T) {
	res := resource.NewSchemaless(semconv.ServiceName("test-service"))
	reader := sdkmetric.NewManualReader()
	mp := newMeterProvider(res, reader)
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	otel.SetMeterProvider(mp)

	controller := session.NewController("game-1", session.Options{SeedFunc: random.Sequence(1)})
	if _, err := controller.Confirm([]string{"A", "B"}, "coffee"); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if _, err := controller.Select(context.Background(), 0); err != nil {
		t.Fatalf("select: %v", err)
	}

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("collect: %v", err)
	}
	if name, _ := rm.Resource.Set().Value(semconv.ServiceNameKey); name.AsString() != "test-service" {
		t.Errorf("service name = %q, want test-service", name.AsString())
	}

	var reveals int64
	for _, scope := range rm.ScopeMetrics {
		for _, m := range scope.Metrics {
			if m.Name != "sadari.ladder.reveals" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("reveals data = %T, want Sum[int64]", m.Data)
			}
			for _, point := range sum.DataPoints {
				if _, ok := point.Attributes.Value(attribute.Key("outcome")); !ok {
					t.Errorf("reveal point missing outcome attribute: %v", point.Attributes)
				}
				reveals += point.Value
			}
		}
	}
	if reveals != 1 {
		t.Fatalf("reveals = %d, want 1", reveals)
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		raw   string
		want  float64
		valid bool
	}{
		{raw: "", valid: false},
		{raw: "abc", valid: false},
		{raw: "1.5", valid: false},
		{raw: "-0.1", valid: false},
		{raw: "0", want: 0, valid: true},
		{raw: " 0.25 ", want: 0.25, valid: true},
		{raw: "1", want: 1, valid: true},
	}
	for _, tt := range tests {
		got, ok := parseRatio(tt.raw)
		if ok != tt.valid {
			t.Fatalf("parseRatio(%q) ok = %v, want %v", tt.raw, ok, tt.valid)
		}
		if ok && got != tt.want {
			t.Fatalf("parseRatio(%q) = %v, want %v", tt.raw, got, tt.want)
		}
	}
}
