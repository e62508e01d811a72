package sound

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/Veraticus/idlewatch/pkg/audio"
	"github.com/Veraticus/idlewatch/pkg/interfaces"
	"github.com/Veraticus/idlewatch/pkg/types"
)

// The fallback tone.
const (
	ToneFrequency = 800.0
	ToneDuration  = 300 * time.Millisecond
	ToneAmplitude = 0.8
)

// Manager resolves the cue for a notification type and plays it.
type Manager struct {
	dir      string
	resolver *Resolver
	output   interfaces.AudioOutput

	mu  sync.RWMutex
	cfg Config
}

// Ensure Manager implements SoundPlayer
var _ interfaces.SoundPlayer = (*Manager)(nil)

// NewManager loads <dir>/config.toml and plays through output. A missing
// or malformed config is logged and replaced by defaults.
func NewManager(dir string, output interfaces.AudioOutput) *Manager {
	cfg, err := LoadConfig(dir)
	switch {
	case errors.Is(err, ErrConfigMissing):
		slog.Warn("sound config not found, using defaults", "dir", dir)
	case err != nil:
		slog.Warn("sound config unusable, using defaults", "dir", dir, "error", err)
	default:
		// default_volume is parsed but playback uses the decoder's level.
		slog.Info("sound config loaded",
			"dir", dir,
			"enabled", cfg.Settings.Enabled,
			"default_volume", cfg.Settings.DefaultVolume,
			"sounds", len(cfg.Sounds),
			"fallback", cfg.Fallbacks.Default)
	}

	return NewManagerWithConfig(dir, cfg, output)
}

// NewManagerWithConfig creates a manager with an already loaded config.
func NewManagerWithConfig(dir string, cfg Config, output interfaces.AudioOutput) *Manager {
	return &Manager{
		dir:      dir,
		resolver: NewResolver(dir),
		output:   output,
		cfg:      normalize(cfg),
	}
}

// Dir returns the sounds directory.
func (m *Manager) Dir() string {
	return m.dir
}

// Config returns a copy of the current configuration.
func (m *Manager) Config() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.clone()
}

// Enabled reports whether sound playback is on.
func (m *Manager) Enabled() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cfg.Settings.Enabled
}

// SetEnabled switches playback on or off.
func (m *Manager) SetEnabled(enabled bool) {
	m.mu.Lock()
	m.cfg.Settings.Enabled = enabled
	m.mu.Unlock()

	slog.Info("sound playback toggled", "enabled", enabled)
}

// UpdateConfig replaces the configuration.
func (m *Manager) UpdateConfig(cfg Config) {
	m.mu.Lock()
	m.cfg = normalize(cfg)
	m.mu.Unlock()

	slog.Info("sound config updated", "enabled", cfg.Settings.Enabled, "fallback", cfg.Fallbacks.Default)
}

// Resolve returns what would be played for t without playing it.
func (m *Manager) Resolve(t types.NotificationType) Decision {
	m.mu.RLock()
	cfg := m.cfg
	m.mu.RUnlock()

	return m.resolver.Resolve(t, cfg)
}

// MissingAssets lists configured files that do not exist, each wrapping
// ErrAssetMissing, sorted by path.
func (m *Manager) MissingAssets() []error {
	cfg := m.Config()

	names := make([]string, 0, len(cfg.Sounds)+1)
	for _, name := range cfg.Sounds {
		names = append(names, name)
	}
	if cfg.Fallbacks.Default != "" && cfg.Fallbacks.Default != FallbackGenerated {
		names = append(names, cfg.Fallbacks.Default)
	}
	sort.Strings(names)

	var missing []error
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		path := filepath.Join(m.dir, name)
		if seen[path] || name == "" {
			continue
		}
		seen[path] = true
		if !m.resolver.exists(path) {
			missing = append(missing, fmt.Errorf("%w: %s", ErrAssetMissing, path))
		}
	}
	return missing
}

// PlayNotificationSound plays the cue for t. A file that fails to decode
// falls back to the tone; an unavailable output silences this call.
func (m *Manager) PlayNotificationSound(t types.NotificationType) {
	decision := m.Resolve(t)

	switch decision.Action {
	case ActionNone:
		slog.Debug("sound disabled, skipping cue", "type", t.String())
		return
	case ActionFile:
		if m.output == nil {
			slog.Warn("no audio output, skipping cue", "type", t.String())
			return
		}
		err := m.output.Play(decision.Path)
		if err == nil {
			slog.Debug("played notification sound", "type", t.String(), "path", decision.Path)
			return
		}
		if errors.Is(err, audio.ErrOutputUnavailable) {
			slog.Warn("audio output unavailable", "type", t.String(), "error", err)
			return
		}
		slog.Warn("sound file failed, playing tone", "type", t.String(), "path", decision.Path, "error", err)
	}

	m.playTone(t)
}

func (m *Manager) playTone(t types.NotificationType) {
	if m.output == nil {
		slog.Warn("no audio output, skipping cue", "type", t.String())
		return
	}
	if err := m.output.PlayTone(ToneFrequency, ToneDuration, ToneAmplitude); err != nil {
		slog.Warn("failed to play tone", "type", t.String(), "error", err)
		return
	}
	slog.Debug("played generated tone", "type", t.String())
}
