package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/niello/deusexmachina-sub012/parameter"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName+".yaml"), []byte(body), 0644))
	return dir
}

func TestLoad_WithValidConfigFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	dir := writeConfig(t, `
logLevel: debug
tickRate: 10ms
areasFile: areas.yaml
character:
  maxLinearSpeed: 5.5
`)
	require.NoError(t, Load(dir))

	tuning, err := Current()
	require.NoError(t, err)
	assert.Equal(t, zerolog.DebugLevel, tuning.LogLevel)
	assert.Equal(t, 10*time.Millisecond, tuning.TickRate)
	assert.Equal(t, "areas.yaml", tuning.AreasFile)
	assert.Equal(t, 5.5, tuning.MaxLinearSpeed)
	assert.Equal(t, parameter.CharacterSteeringSmoothness, tuning.SteeringSmoothness)
}

func TestLoad_DefaultValues(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(writeConfig(t, "{}\n")))

	tuning, err := Current()
	require.NoError(t, err)
	assert.Equal(t, zerolog.InfoLevel, tuning.LogLevel)
	assert.Equal(t, "steer-sandbox.log", tuning.LogFile)
	assert.Equal(t, 16*time.Millisecond, tuning.TickRate)
	assert.True(t, tuning.Audio)
	assert.Equal(t, 1.8, tuning.AgentHeight)
	assert.Equal(t, 0.3, tuning.AgentRadius)
	assert.Equal(t, parameter.CharacterMaxLinearSpeed, tuning.MaxLinearSpeed)
	assert.InDelta(t, 4.0, tuning.BrakingDecel, 1e-12)
}

func TestLoad_MissingFileKeepsDefaults(t *testing.T) {
	t.Cleanup(viper.Reset)

	require.NoError(t, Load(t.TempDir()))
	assert.Equal(t, "info", GetString("logLevel"))
	assert.True(t, GetBool("audio"))
	assert.Equal(t, 0.3, GetFloat("agent.radius"))
}

func TestLoad_MalformedFile(t *testing.T) {
	t.Cleanup(viper.Reset)

	err := Load(writeConfig(t, "logLevel: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestCurrent_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"log level", "logLevel: loud\n", "logLevel"},
		{"tick rate", "tickRate: 0s\n", "tickRate"},
		{"braking", "character:\n  brakingDecel: -1\n", "brakingDecel"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Cleanup(viper.Reset)
			require.NoError(t, Load(writeConfig(t, tt.body)))
			_, err := Current()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}
