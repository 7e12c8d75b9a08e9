package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Metrics records upstream call counts and latency. A nil *Metrics is valid
// and records nothing.
type Metrics struct {
	provider         *metric.MeterProvider
	upstreamRequests otelmetric.Int64Counter
	upstreamDuration otelmetric.Float64Histogram
}

// New registers the exporter with registerer; pass nil to use the default
// Prometheus registry.
func New(serviceName string, registerer prometheus.Registerer) (*Metrics, error) {
	opts := []otelprom.Option{}
	if registerer != nil {
		opts = append(opts, otelprom.WithRegisterer(registerer))
	}

	exporter, err := otelprom.New(opts...)
	if err != nil {
		return nil, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	meter := provider.Meter(serviceName)

	requests, err := meter.Int64Counter(
		"upstream_requests",
		otelmetric.WithDescription("Upstream dating API calls by outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"upstream_duration",
		otelmetric.WithDescription("Upstream dating API call latency"),
		otelmetric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Metrics{
		provider:         provider,
		upstreamRequests: requests,
		upstreamDuration: duration,
	}, nil
}

// RecordUpstreamCall counts one call and its latency. outcome is "ok" or the
// error code the call failed with.
func (m *Metrics) RecordUpstreamCall(ctx context.Context, method, path, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := otelmetric.WithAttributes(
		attribute.String("method", method),
		attribute.String("path", path),
		attribute.String("outcome", outcome),
	)
	m.upstreamRequests.Add(ctx, 1, attrs)
	m.upstreamDuration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
}

func (m *Metrics) Shutdown(ctx context.Context) error {
	if m == nil || m.provider == nil {
		return nil
	}
	return m.provider.Shutdown(ctx)
}
