package sound

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o600))
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[settings]
enabled = true
default_volume = 0.7

[sounds]
INFO = "info.wav"
warning = "warn.wav"

[fallbacks]
default = "default.wav"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Settings.Enabled)
	assert.InDelta(t, 0.7, cfg.Settings.DefaultVolume, 1e-9)
	assert.Equal(t, "info.wav", cfg.Sounds["INFO"])
	assert.Equal(t, "warn.wav", cfg.Sounds["WARNING"], "keys are upper-cased")
	assert.Equal(t, "default.wav", cfg.Fallbacks.Default)
}

func TestLoadConfig_PartialFileKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
[sounds]
ERROR = "error.wav"
`)

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.True(t, cfg.Settings.Enabled)
	assert.Equal(t, FallbackGenerated, cfg.Fallbacks.Default)
	assert.Equal(t, "error.wav", cfg.Sounds["ERROR"])
}

func TestLoadConfig_Missing(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())

	require.ErrorIs(t, err, ErrConfigMissing)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfig_Malformed(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "[settings\nenabled = ")

	cfg, err := LoadConfig(dir)

	require.ErrorIs(t, err, ErrConfigMalformed)
	assert.True(t, cfg.Settings.Enabled)
	assert.Equal(t, FallbackGenerated, cfg.Fallbacks.Default)
}

func TestLoadConfig_ClampsVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume string
		want   float64
	}{
		{name: "too loud", volume: "3.5", want: 1},
		{name: "negative", volume: "-0.2", want: 0},
		{name: "in range", volume: "0.25", want: 0.25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, "[settings]\nenabled = true\ndefault_volume = "+tt.volume+"\n")

			cfg, err := LoadConfig(dir)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, cfg.Settings.DefaultVolume, 1e-9)
		})
	}
}

func TestConfigClone(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Sounds["INFO"] = "info.wav"

	c := cfg.clone()
	c.Sounds["INFO"] = "other.wav"

	assert.Equal(t, "info.wav", cfg.Sounds["INFO"])
}
