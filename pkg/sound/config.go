// Package sound picks and plays the audio cue for a notification type.
package sound

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// ConfigFileName is the sound configuration file inside the sounds directory.
const ConfigFileName = "config.toml"

// FallbackGenerated is the fallback sentinel that selects tone synthesis.
const FallbackGenerated = "generated"

var (
	// ErrConfigMissing means no config.toml exists; defaults apply.
	ErrConfigMissing = errors.New("sound config not found")
	// ErrConfigMalformed means config.toml could not be read or parsed; defaults apply.
	ErrConfigMalformed = errors.New("sound config malformed")
	// ErrAssetMissing means a configured sound file does not exist.
	ErrAssetMissing = errors.New("sound asset not found")
)

// Settings is the [settings] table.
type Settings struct {
	Enabled       bool    `toml:"enabled"`
	DefaultVolume float64 `toml:"default_volume"`
}

// Fallbacks is the [fallbacks] table.
type Fallbacks struct {
	Default string `toml:"default"`
}

// Config is the parsed sound configuration.
type Config struct {
	Settings  Settings          `toml:"settings"`
	Sounds    map[string]string `toml:"sounds"`
	Fallbacks Fallbacks         `toml:"fallbacks"`
}

// DefaultConfig is used when config.toml is absent or unreadable.
func DefaultConfig() Config {
	return Config{
		Settings: Settings{
			Enabled:       true,
			DefaultVolume: 0.5,
		},
		Sounds: map[string]string{},
		Fallbacks: Fallbacks{
			Default: FallbackGenerated,
		},
	}
}

// LoadConfig reads <dir>/config.toml. It always returns a usable Config;
// the error, wrapping ErrConfigMissing or ErrConfigMalformed, says why
// defaults were used.
func LoadConfig(dir string) (Config, error) {
	path := filepath.Join(dir, ConfigFileName)

	data, err := os.ReadFile(path) // #nosec G304 -- path is the configured sounds directory
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), fmt.Errorf("%w: %s", ErrConfigMissing, path)
		}
		return DefaultConfig(), fmt.Errorf("%w: read %s: %w", ErrConfigMalformed, path, err)
	}

	cfg := DefaultConfig()
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("%w: decode %s: %w", ErrConfigMalformed, path, err)
	}

	return normalize(cfg), nil
}

// normalize upper-cases sound keys and clamps the volume to [0, 1].
func normalize(cfg Config) Config {
	sounds := make(map[string]string, len(cfg.Sounds))
	for k, v := range cfg.Sounds {
		sounds[strings.ToUpper(strings.TrimSpace(k))] = v
	}
	cfg.Sounds = sounds

	switch {
	case cfg.Settings.DefaultVolume < 0:
		cfg.Settings.DefaultVolume = 0
	case cfg.Settings.DefaultVolume > 1:
		cfg.Settings.DefaultVolume = 1
	}

	return cfg
}

// clone copies cfg so callers cannot mutate a shared map.
func (c Config) clone() Config {
	sounds := make(map[string]string, len(c.Sounds))
	for k, v := range c.Sounds {
		sounds[k] = v
	}
	c.Sounds = sounds
	return c
}
