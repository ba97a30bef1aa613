package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

// Telemetry owns the tracer and meter providers of the process
type Telemetry struct {
	config         *Config
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
	metricsHandler http.Handler
}

// Option configures New
type Option func(*Telemetry)

// WithTelemetryConfig sets the telemetry section of the configuration
func WithTelemetryConfig(cfg *Config) Option {
	return func(t *Telemetry) {
		t.config = cfg
	}
}

// New builds the providers selected by the configuration. Without a
// configuration, or with telemetry disabled, both providers are no-ops.
// The caller must call Shutdown before exiting.
func New(ctx context.Context, opts ...Option) (*Telemetry, error) {
	t := &Telemetry{}
	for _, opt := range opts {
		opt(t)
	}

	if err := t.config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry configuration: %w", err)
	}

	tp, err := newTracerProvider(ctx, t.config)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer provider: %w", err)
	}

	mp, handler, err := newMeterProvider(ctx, t.config)
	if err != nil {
		if sdk, ok := tp.(*sdktrace.TracerProvider); ok {
			_ = sdk.Shutdown(ctx)
		}
		return nil, fmt.Errorf("failed to create meter provider: %w", err)
	}

	t.tracerProvider = tp
	t.meterProvider = mp
	t.metricsHandler = handler

	if t.config != nil && t.config.Enabled {
		slog.Info("Telemetry initialized",
			"service_name", t.config.GetServiceName(),
			"service_version", t.config.GetServiceVersion(),
			"tracing", t.config.TracingEnabled(),
			"metrics", t.config.MetricsEnabled(),
		)
	}
	return t, nil
}

// TracerProvider returns the tracer provider
func (t *Telemetry) TracerProvider() trace.TracerProvider {
	return t.tracerProvider
}

// MeterProvider returns the meter provider
func (t *Telemetry) MeterProvider() metric.MeterProvider {
	return t.meterProvider
}

// MetricsHandler returns the Prometheus scrape handler, nil when metrics are disabled
func (t *Telemetry) MetricsHandler() http.Handler {
	return t.metricsHandler
}

// Tracer returns a named tracer
func (t *Telemetry) Tracer(name string, opts ...trace.TracerOption) trace.Tracer {
	return t.tracerProvider.Tracer(name, opts...)
}

// Shutdown flushes pending spans and stops the SDK providers.
// No-op providers need no shutdown.
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var problems []error

	if tp, ok := t.tracerProvider.(*sdktrace.TracerProvider); ok {
		if err := tp.Shutdown(ctx); err != nil {
			problems = append(problems, fmt.Errorf("failed to shutdown tracer provider: %w", err))
		}
	}
	if mp, ok := t.meterProvider.(*sdkmetric.MeterProvider); ok {
		if err := mp.Shutdown(ctx); err != nil {
			problems = append(problems, fmt.Errorf("failed to shutdown meter provider: %w", err))
		}
	}

	if err := errors.Join(problems...); err != nil {
		return err
	}
	slog.Debug("Telemetry shut down")
	return nil
}
