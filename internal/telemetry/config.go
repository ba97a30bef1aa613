// Package telemetry wires OpenTelemetry into the source manager: traces are
// exported over OTLP/HTTP, metrics are served to Prometheus, and HTTP requests
// are labelled by the part of the API they address.
package telemetry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/stacklok/instsrc/internal/versions"
)

const (
	// DefaultServiceName is the service name reported when none is configured
	DefaultServiceName = "instsrc"

	// ServiceNamespace groups the services of this project
	ServiceNamespace = "instsrc"

	// DefaultEndpoint is the OTLP/HTTP collector address used when none is configured
	DefaultEndpoint = "localhost:4318"

	// DefaultSampling is the trace sampling ratio used when none is configured
	DefaultSampling = 0.05
)

// Config is the telemetry section of the configuration file
type Config struct {
	// Enabled switches telemetry as a whole. When false no provider is built.
	Enabled bool `yaml:"enabled"`

	// ServiceName defaults to "instsrc"
	ServiceName string `yaml:"serviceName,omitempty"`

	// ServiceVersion defaults to the build version
	ServiceVersion string `yaml:"serviceVersion,omitempty"`

	// Endpoint is the "host:port" of the OTLP/HTTP collector receiving traces
	Endpoint string `yaml:"endpoint,omitempty"`

	// Insecure sends traces over plain HTTP
	Insecure bool `yaml:"insecure,omitempty"`

	Tracing *TracingConfig `yaml:"tracing,omitempty"`
	Metrics *MetricsConfig `yaml:"metrics,omitempty"`
}

// TracingConfig controls span export
type TracingConfig struct {
	Enabled bool `yaml:"enabled"`

	// Sampling is the ratio of root traces kept, between 0 and 1.
	// Requests continuing a sampled trace are always kept.
	Sampling *float64 `yaml:"sampling,omitempty"`
}

// MetricsConfig controls the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// GetServiceName returns the configured service name or DefaultServiceName
func (c *Config) GetServiceName() string {
	if c == nil || c.ServiceName == "" {
		return DefaultServiceName
	}
	return c.ServiceName
}

// GetServiceVersion returns the configured service version or the build version
func (c *Config) GetServiceVersion() string {
	if c == nil || c.ServiceVersion == "" {
		return versions.Version
	}
	return c.ServiceVersion
}

// GetEndpoint returns the configured collector endpoint or DefaultEndpoint
func (c *Config) GetEndpoint() string {
	if c == nil || c.Endpoint == "" {
		return DefaultEndpoint
	}
	return c.Endpoint
}

// TracingEnabled reports whether spans are exported
func (c *Config) TracingEnabled() bool {
	return c != nil && c.Enabled && c.Tracing != nil && c.Tracing.Enabled
}

// MetricsEnabled reports whether the Prometheus endpoint is served
func (c *Config) MetricsEnabled() bool {
	return c != nil && c.Enabled && c.Metrics != nil && c.Metrics.Enabled
}

// GetSampling returns the sampling ratio, DefaultSampling when unset
func (c *TracingConfig) GetSampling() float64 {
	if c == nil || c.Sampling == nil {
		return DefaultSampling
	}
	return *c.Sampling
}

// Validate checks the configuration. A nil or disabled configuration is valid.
func (c *Config) Validate() error {
	if c == nil || !c.Enabled {
		return nil
	}

	var problems []error
	if c.Tracing != nil && c.Tracing.Sampling != nil {
		if s := *c.Tracing.Sampling; s < 0 || s > 1 {
			problems = append(problems, fmt.Errorf("tracing: sampling must be between 0.0 and 1.0, got %f", s))
		}
	}
	// The OTLP exporter expects a bare host:port
	if c.TracingEnabled() && strings.Contains(c.Endpoint, "://") {
		problems = append(problems, fmt.Errorf("endpoint must be host:port without a scheme, got %q", c.Endpoint))
	}
	return errors.Join(problems...)
}
