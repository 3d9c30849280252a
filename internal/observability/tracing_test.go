package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_DefaultEndpoint(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Endpoint:    "", // Empty should use default
		Environment: "test",
		ServiceName: "test-service",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	// No spans were recorded, so shutdown has nothing to flush.
	err = shutdown(ctx)
	assert.NoError(t, err)
}

func TestSetup_CustomEndpoint(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Endpoint:    "custom-host:4318",
		Environment: "staging",
		ServiceName: "custom-service",
	}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	err = shutdown(ctx)
	assert.NoError(t, err)
}

func TestSetup_EmptyConfig(t *testing.T) {
	t.Parallel()

	// All empty config - should fall back to defaults
	cfg := Config{}

	ctx := context.Background()
	shutdown, err := Setup(ctx, cfg)

	require.NoError(t, err)
	require.NotNil(t, shutdown)

	err = shutdown(ctx)
	assert.NoError(t, err)
}

func TestDefaultEndpoint_Value(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "localhost:4318", DefaultEndpoint)
}
