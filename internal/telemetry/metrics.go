package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/stacklok/instsrc/internal/errs"
)

const (
	// ManagerMetricsMeterName is the name used for the source manager metrics meter
	ManagerMetricsMeterName = "github.com/stacklok/instsrc/manager"
)

// ManagerMetrics holds the OpenTelemetry instruments for the source manager
type ManagerMetrics struct {
	sourcesTotal      metric.Int64Gauge
	resolvablesTotal  metric.Int64Gauge
	operationDuration metric.Float64Histogram
}

// NewManagerMetrics creates a new ManagerMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewManagerMetrics(provider metric.MeterProvider) (*ManagerMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(ManagerMetricsMeterName)

	sourcesTotal, err := meter.Int64Gauge(
		"instsrc_sources_total",
		metric.WithDescription("Number of registered installation sources"),
		metric.WithUnit("{source}"),
	)
	if err != nil {
		return nil, err
	}

	resolvablesTotal, err := meter.Int64Gauge(
		"instsrc_resolvables_total",
		metric.WithDescription("Number of pooled resolvables by kind"),
		metric.WithUnit("{resolvable}"),
	)
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram(
		"instsrc_operation_duration_seconds",
		metric.WithDescription("Duration of source manager operations in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30),
	)
	if err != nil {
		return nil, err
	}

	return &ManagerMetrics{
		sourcesTotal:      sourcesTotal,
		resolvablesTotal:  resolvablesTotal,
		operationDuration: operationDuration,
	}, nil
}

// RecordSources records the number of registered and enabled sources
func (m *ManagerMetrics) RecordSources(ctx context.Context, registered, enabled int) {
	if m == nil || m.sourcesTotal == nil {
		return
	}

	m.sourcesTotal.Record(ctx, int64(registered), metric.WithAttributes(attribute.String("state", "registered")))
	m.sourcesTotal.Record(ctx, int64(enabled), metric.WithAttributes(attribute.String("state", "enabled")))
}

// RecordResolvables records the number of pooled resolvables of a kind
func (m *ManagerMetrics) RecordResolvables(ctx context.Context, kind string, count int) {
	if m == nil || m.resolvablesTotal == nil {
		return
	}

	m.resolvablesTotal.Record(ctx, int64(count), metric.WithAttributes(attribute.String("kind", kind)))
}

// RecordOperation records the duration of a manager operation. The outcome
// label is "ok" or the error kind of err.
func (m *ManagerMetrics) RecordOperation(ctx context.Context, operation string, duration time.Duration, err error) {
	if m == nil || m.operationDuration == nil {
		return
	}

	outcome := "ok"
	if err != nil {
		outcome = errs.Kind(err)
	}
	m.operationDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("outcome", outcome),
	))
}
