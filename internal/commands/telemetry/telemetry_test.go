package telemetry

import (
	"bytes"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/miaoxn/soliditytool/internal/config"
)

func TestApplyTelemetryConfig(t *testing.T) {
	t.Setenv(config.EnvConfigDir, t.TempDir())

	var out bytes.Buffer
	require.NoError(t, applyTelemetryConfig(&out, choiceEnableAnonymous))

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, cfg.TelemetryEnabled)
	assert.True(t, *cfg.TelemetryEnabled)
	assert.True(t, *cfg.TelemetryAnonymous)
	assert.Contains(t, out.String(), "anonymous")

	require.NoError(t, applyTelemetryConfig(&out, choiceDisable))
	cfg, err = config.LoadConfig()
	require.NoError(t, err)
	assert.False(t, *cfg.TelemetryEnabled)
}

func TestWizardModel(t *testing.T) {
	m := newWizardModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	final := next.(wizardModel)
	assert.True(t, final.completed)
	assert.Equal(t, choiceEnableAnonymous, final.choice)
	assert.NotNil(t, cmd)
	assert.Empty(t, final.View())

	cancelled, _ := newWizardModel().Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.True(t, cancelled.(wizardModel).cancelled)
}
