package telemetry

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"storefront/pkg/config"
)

func TestNewContainer_Disabled(t *testing.T) {
	cfg := config.GetDefaultConfig().Telemetry
	cfg.Enabled = false

	container, err := NewContainer(cfg, "test", slog.Default())
	require.NoError(t, err)

	assert.NotNil(t, container.AppMetrics)
	assert.NotNil(t, container.TracerProvider)
	assert.Nil(t, container.MetricsServer)

	probe := container.NewTelemetryProbe(slog.Default())
	ctx, span := probe.StartServiceSpan(context.Background(), "catalog", "create_product", nil)
	span.End()
	probe.RecordBusinessEvent(ctx, "created", "product", "id", nil)

	assert.NoError(t, container.Shutdown(context.Background()))
}
