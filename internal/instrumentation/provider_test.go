package instrumentation

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderDisabled(t *testing.T) {
	config := DefaultConfig()
	config.Enabled = false

	provider, err := NewProvider(context.Background(), config)
	require.NoError(t, err)

	assert.False(t, provider.Enabled())
	require.NotNil(t, provider.Metrics(), "disabled provider must still hand out a recorder")

	// Recording through the no-op recorder must not panic
	provider.Metrics().RecordOAuthAuth(context.Background(), OAuthResultSuccess)

	assert.NoError(t, provider.Shutdown(context.Background()))
}

func TestNewProviderRejectsBadExporters(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{
			name:   "unknown metrics exporter",
			modify: func(c *Config) { c.MetricsExporter = "statsd" },
		},
		{
			name: "otlp metrics without endpoint",
			modify: func(c *Config) {
				c.MetricsExporter = ExporterOTLP
				c.OTLPEndpoint = ""
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			config.Enabled = true
			tt.modify(&config)

			_, err := NewProvider(context.Background(), config)
			assert.Error(t, err)
		})
	}
}
