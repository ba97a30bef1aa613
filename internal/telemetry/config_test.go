package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stacklok/instsrc/internal/versions"
)

func ratio(f float64) *float64 {
	return &f
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()

	var nilConfig *Config
	assert.Equal(t, DefaultServiceName, nilConfig.GetServiceName())
	assert.Equal(t, versions.Version, nilConfig.GetServiceVersion())
	assert.Equal(t, DefaultEndpoint, nilConfig.GetEndpoint())
	assert.False(t, nilConfig.TracingEnabled())
	assert.False(t, nilConfig.MetricsEnabled())
	assert.InDelta(t, DefaultSampling, (*TracingConfig)(nil).GetSampling(), 0)

	cfg := &Config{
		ServiceName:    "instsrc-staging",
		ServiceVersion: "1.4.0",
		Endpoint:       "collector:4318",
		Tracing:        &TracingConfig{Enabled: true, Sampling: ratio(0.5)},
		Metrics:        &MetricsConfig{Enabled: true},
	}
	assert.Equal(t, "instsrc-staging", cfg.GetServiceName())
	assert.Equal(t, "1.4.0", cfg.GetServiceVersion())
	assert.Equal(t, "collector:4318", cfg.GetEndpoint())
	assert.InDelta(t, 0.5, cfg.Tracing.GetSampling(), 0)

	// Sections only count when telemetry is switched on as a whole
	assert.False(t, cfg.TracingEnabled())
	assert.False(t, cfg.MetricsEnabled())
	cfg.Enabled = true
	assert.True(t, cfg.TracingEnabled())
	assert.True(t, cfg.MetricsEnabled())
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		config  *Config
		wantErr string
	}{
		{name: "nil", config: nil},
		{
			name:   "disabled ignores bad values",
			config: &Config{Tracing: &TracingConfig{Enabled: true, Sampling: ratio(7)}},
		},
		{
			name: "metrics only",
			config: &Config{
				Enabled: true,
				Metrics: &MetricsConfig{Enabled: true},
			},
		},
		{
			name: "full sampling",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: ratio(1)},
			},
		},
		{
			name: "sampling above one",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Enabled: true, Sampling: ratio(1.5)},
			},
			wantErr: "sampling must be between 0.0 and 1.0",
		},
		{
			name: "negative sampling",
			config: &Config{
				Enabled: true,
				Tracing: &TracingConfig{Sampling: ratio(-0.1)},
			},
			wantErr: "sampling must be between 0.0 and 1.0",
		},
		{
			name: "endpoint with scheme",
			config: &Config{
				Enabled:  true,
				Endpoint: "http://collector:4318",
				Tracing:  &TracingConfig{Enabled: true},
			},
			wantErr: "endpoint must be host:port",
		},
		{
			name: "endpoint unused without tracing",
			config: &Config{
				Enabled:  true,
				Endpoint: "http://collector:4318",
				Metrics:  &MetricsConfig{Enabled: true},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.config.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorContains(t, err, tt.wantErr)
		})
	}
}
