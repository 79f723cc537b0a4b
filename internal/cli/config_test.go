package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/oliverbestmann/semlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "semlog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)

	config, err = LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
engine:
  listen_for_contacts: false
physics:
  gravity: {x: 0, y: -9.81}
  volume_padding: 0.5
  step_interval: 10ms
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.False(t, config.Engine.ListenForContacts)
	assert.True(t, config.Engine.ListenForSupport)
	assert.Equal(t, -9.81, config.Physics.Gravity.Y)
	assert.Equal(t, 0.5, config.Physics.VolumePadding)
	assert.Equal(t, 10*time.Millisecond, config.Physics.StepInterval)

	// untouched values keep their defaults
	assert.Equal(t, uint(10), config.Physics.Iterations)
}

func TestLoadConfig_Env(t *testing.T) {
	path := writeConfig(t, "physics: {volume_padding: 0.5}")

	t.Setenv("SEMLOG_PHYSICS_VOLUME_PADDING", "1.5")
	t.Setenv("SEMLOG_PHYSICS_ITERATIONS", "20")

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 1.5, config.Physics.VolumePadding)
	assert.Equal(t, uint(20), config.Physics.Iterations)
}

func TestLoadConfig_Invalid(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "engine: {listen_for_contacts: false, listen_for_support: false}"))
	require.ErrorIs(t, err, semlog.ErrInvalidConfig)

	_, err = LoadConfig(writeConfig(t, "engine: {listen: true}"))
	require.ErrorContains(t, err, "decode config")

	t.Setenv("SEMLOG_PHYSICS_ITERATIONS", "many")
	_, err = LoadConfig("")
	require.ErrorContains(t, err, "parse env")

	_, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}
