package telemetry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/stacklok/instsrc/internal/errs"
)

func collectManagerMetrics(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	found := map[string]metricdata.Metrics{}
	for _, scope := range rm.ScopeMetrics {
		if scope.Scope.Name != ManagerMetricsMeterName {
			continue
		}
		for _, m := range scope.Metrics {
			found[m.Name] = m
		}
	}
	return found
}

func TestNewManagerMetrics(t *testing.T) {
	t.Parallel()

	t.Run("returns nil when provider is nil", func(t *testing.T) {
		t.Parallel()

		metrics, err := NewManagerMetrics(nil)
		require.NoError(t, err)
		assert.Nil(t, metrics)
	})

	t.Run("creates metrics with SDK provider", func(t *testing.T) {
		t.Parallel()

		mp := sdkmetric.NewMeterProvider()
		defer func() { _ = mp.Shutdown(context.Background()) }()

		metrics, err := NewManagerMetrics(mp)
		require.NoError(t, err)
		require.NotNil(t, metrics)
		assert.NotNil(t, metrics.sourcesTotal)
		assert.NotNil(t, metrics.resolvablesTotal)
		assert.NotNil(t, metrics.operationDuration)
	})
}

func TestManagerMetrics_NilSafe(t *testing.T) {
	t.Parallel()

	var metrics *ManagerMetrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		metrics.RecordSources(ctx, 3, 1)
		metrics.RecordResolvables(ctx, "pattern", 12)
		metrics.RecordOperation(ctx, "scan", time.Second, nil)
	})
}

func TestManagerMetrics_Record(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = mp.Shutdown(context.Background()) }()

	metrics, err := NewManagerMetrics(mp)
	require.NoError(t, err)

	ctx := context.Background()
	metrics.RecordSources(ctx, 3, 1)
	metrics.RecordResolvables(ctx, "selection", 4)
	metrics.RecordResolvables(ctx, "pattern", 7)
	metrics.RecordOperation(ctx, "create", 1500*time.Millisecond, nil)
	metrics.RecordOperation(ctx, "delete", time.Millisecond, errs.NotFoundf("source %d", 9))

	found := collectManagerMetrics(t, reader)

	sources, ok := found["instsrc_sources_total"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, sources.DataPoints, 2)

	resolvables, ok := found["instsrc_resolvables_total"].Data.(metricdata.Gauge[int64])
	require.True(t, ok)
	assert.Len(t, resolvables.DataPoints, 2)

	hist, ok := found["instsrc_operation_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, hist.DataPoints, 2)

	outcomes := map[string]float64{}
	for _, dp := range hist.DataPoints {
		op, _ := dp.Attributes.Value("operation")
		outcome, _ := dp.Attributes.Value("outcome")
		outcomes[op.AsString()+"/"+outcome.AsString()] = dp.Sum
	}
	assert.InDelta(t, 1.5, outcomes["create/ok"], 0.001)
	assert.Contains(t, outcomes, "delete/"+errs.KindNotFound)
}
