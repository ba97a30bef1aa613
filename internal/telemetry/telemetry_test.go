package telemetry

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestNew_NoOp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts []Option
	}{
		{name: "no configuration"},
		{name: "disabled", opts: []Option{WithTelemetryConfig(&Config{
			Tracing: &TracingConfig{Enabled: true},
			Metrics: &MetricsConfig{Enabled: true},
		})}},
		{name: "enabled without sections", opts: []Option{WithTelemetryConfig(&Config{Enabled: true})}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ctx := context.Background()

			tel, err := New(ctx, tt.opts...)
			require.NoError(t, err)

			assert.IsType(t, tracenoop.TracerProvider{}, tel.TracerProvider())
			assert.IsType(t, metricnoop.MeterProvider{}, tel.MeterProvider())
			assert.Nil(t, tel.MetricsHandler())
			assert.NotNil(t, tel.Tracer("instsrc-test"))

			require.NoError(t, tel.Shutdown(ctx))
			require.NoError(t, tel.Shutdown(ctx))
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), WithTelemetryConfig(&Config{
		Enabled: true,
		Tracing: &TracingConfig{Enabled: true, Sampling: ratio(1.5)},
	}))
	require.ErrorContains(t, err, "invalid telemetry configuration")
}

func TestNew_Tracing(t *testing.T) {
	t.Parallel()

	collector := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(collector.Close)

	ctx := context.Background()
	tel, err := New(ctx, WithTelemetryConfig(&Config{
		Enabled:  true,
		Endpoint: strings.TrimPrefix(collector.URL, "http://"),
		Insecure: true,
		Tracing:  &TracingConfig{Enabled: true, Sampling: ratio(1)},
	}))
	require.NoError(t, err)

	assert.IsType(t, &sdktrace.TracerProvider{}, tel.TracerProvider())
	assert.IsType(t, metricnoop.MeterProvider{}, tel.MeterProvider())

	_, span := tel.Tracer("instsrc-test").Start(ctx, "Manager.scan")
	assert.True(t, span.SpanContext().IsSampled())
	span.End()

	require.NoError(t, tel.Shutdown(ctx))
}

func TestNew_MetricsServeManagerInstruments(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tel, err := New(ctx, WithTelemetryConfig(&Config{
		Enabled: true,
		Metrics: &MetricsConfig{Enabled: true},
	}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = tel.Shutdown(ctx) })

	assert.IsType(t, &sdkmetric.MeterProvider{}, tel.MeterProvider())
	require.NotNil(t, tel.MetricsHandler())

	metrics, err := NewManagerMetrics(tel.MeterProvider())
	require.NoError(t, err)
	metrics.RecordSources(ctx, 3, 2)
	metrics.RecordResolvables(ctx, "pattern", 12)

	rec := httptest.NewRecorder()
	tel.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "instsrc_sources")
	assert.Contains(t, body, `state="enabled"`)
	assert.Contains(t, body, `kind="pattern"`)
	assert.Contains(t, body, "go_goroutines")
}
