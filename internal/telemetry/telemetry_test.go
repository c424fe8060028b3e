package telemetry

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/config"
)

func TestMetricsContext_RoundTrip(t *testing.T) {
	_, err := MetricsFromContext(context.Background())
	assert.Error(t, err)

	m := NewMetricsContext()
	ctx := WithMetricsContext(context.Background(), m)

	got, err := MetricsFromContext(ctx)
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestMetricsContext_Flatten(t *testing.T) {
	m := NewMetricsContext()
	m.AddProperty("command", "soltool call")
	m.AddProperty("state", "from-property")
	m.AddMetric("Count", 1)
	m.AddMetricWithDimensions("Dispatch", 1, map[string]string{"state": "succeeded"})

	flat := m.Flatten()
	require.Len(t, flat, 2)
	assert.Equal(t, "soltool call", flat[0].Dimensions["command"])
	assert.Equal(t, "succeeded", flat[1].Dimensions["state"])

	flat[0].Dimensions["command"] = "changed"
	assert.Equal(t, "soltool call", m.Flatten()[0].Dimensions["command"])
}

func TestMetricsContext_ConcurrentAdds(t *testing.T) {
	m := NewMetricsContext()
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				m.AddMetric("Dispatch", 1)
			}
		}()
	}
	wg.Wait()
	assert.Len(t, m.Flatten(), 100)
}

func TestIsTelemetryEnabled(t *testing.T) {
	yes, no := true, false

	t.Setenv(EnvTelemetryEnabled, "")
	assert.False(t, isTelemetryEnabled(nil))
	assert.True(t, isTelemetryEnabled(&config.Config{TelemetryEnabled: &yes}))
	assert.False(t, isTelemetryEnabled(&config.Config{TelemetryEnabled: &no}))

	t.Setenv(EnvTelemetryEnabled, "1")
	assert.True(t, isTelemetryEnabled(&config.Config{TelemetryEnabled: &no}))

	t.Setenv(EnvTelemetryEnabled, "false")
	assert.False(t, isTelemetryEnabled(&config.Config{TelemetryEnabled: &yes}))
}

func TestInit_DisabledUsesNoop(t *testing.T) {
	t.Setenv(EnvTelemetryEnabled, "false")
	Init(&config.Config{})
	_, ok := GetGlobalClient().(*NoopClient)
	assert.True(t, ok)

	client, err := NewPostHogClient(&config.Config{}, namespace)
	assert.NoError(t, err)
	assert.Nil(t, client)
	assert.NoError(t, client.Close())
}

func TestGetAnonymousID_Stable(t *testing.T) {
	id := getAnonymousID()
	assert.Len(t, id, 16)
	assert.Equal(t, id, getAnonymousID())
}
