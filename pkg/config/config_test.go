package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

var envVars = []string{
	"IDLEWATCH_CONFIG",
	"IDLEWATCH_IDLE_THRESHOLD",
	"IDLEWATCH_POLL_INTERVAL",
	"IDLEWATCH_APP_NAME",
	"IDLEWATCH_SOUNDS_DIR",
	"IDLEWATCH_LISTEN_ADDR",
	"IDLEWATCH_LOG_LEVEL",
	"IDLEWATCH_QUIET",
	"IDLEWATCH_MUTE",
}

// clearEnv unsets every variable the loader reads and restores them afterwards
func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range envVars {
		if orig, ok := os.LookupEnv(name); ok {
			t.Cleanup(func() { _ = os.Setenv(name, orig) })
		} else {
			t.Cleanup(func() { _ = os.Unsetenv(name) })
		}
		_ = os.Unsetenv(name)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.IdleThreshold != 3*time.Second {
		t.Errorf("expected IdleThreshold to be 3s but got %v", cfg.IdleThreshold)
	}
	if cfg.PollInterval != 10*time.Second {
		t.Errorf("expected PollInterval to be 10s but got %v", cfg.PollInterval)
	}
	if cfg.AppName != "Time Tracker" {
		t.Errorf("expected AppName to be Time Tracker but got %s", cfg.AppName)
	}
	if cfg.ListenAddr != DefaultListenAddr {
		t.Errorf("expected ListenAddr to be %s but got %s", DefaultListenAddr, cfg.ListenAddr)
	}
	if err := Validate(cfg); err != nil {
		t.Errorf("default config should be valid: %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	tests := []struct {
		name      string
		envVars   map[string]string
		checkFunc func(*testing.T, *Config)
		wantErr   bool
	}{
		{
			name: "valid environment variables",
			envVars: map[string]string{
				"IDLEWATCH_IDLE_THRESHOLD": "2m",
				"IDLEWATCH_POLL_INTERVAL":  "5s",
				"IDLEWATCH_APP_NAME":       "Focus",
				"IDLEWATCH_SOUNDS_DIR":     "/opt/idlewatch/sounds",
				"IDLEWATCH_QUIET":          "true",
				"IDLEWATCH_MUTE":           "1",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.IdleThreshold != 2*time.Minute {
					t.Errorf("expected IdleThreshold to be 2m but got %v", cfg.IdleThreshold)
				}
				if cfg.PollInterval != 5*time.Second {
					t.Errorf("expected PollInterval to be 5s but got %v", cfg.PollInterval)
				}
				if cfg.AppName != "Focus" {
					t.Errorf("expected AppName to be Focus but got %s", cfg.AppName)
				}
				if cfg.SoundsDir != "/opt/idlewatch/sounds" {
					t.Errorf("expected SoundsDir to be /opt/idlewatch/sounds but got %s", cfg.SoundsDir)
				}
				if !cfg.Quiet {
					t.Error("expected Quiet to be true")
				}
				if !cfg.Mute {
					t.Error("expected Mute to be true")
				}
			},
		},
		{
			name: "empty listen address disables server",
			envVars: map[string]string{
				"IDLEWATCH_LISTEN_ADDR": "",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.ListenAddr != "" {
					t.Errorf("expected ListenAddr to be empty but got %q", cfg.ListenAddr)
				}
			},
		},
		{
			name: "invalid threshold",
			envVars: map[string]string{
				"IDLEWATCH_IDLE_THRESHOLD": "soon",
			},
			wantErr: true,
		},
		{
			name: "zero interval rejected",
			envVars: map[string]string{
				"IDLEWATCH_POLL_INTERVAL": "0s",
			},
			wantErr: true,
		},
		{
			name: "invalid quiet value",
			envVars: map[string]string{
				"IDLEWATCH_QUIET": "maybe",
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			envVars: map[string]string{
				"IDLEWATCH_LOG_LEVEL": "chatty",
			},
			wantErr: true,
		},
		{
			name: "invalid listen address",
			envVars: map[string]string{
				"IDLEWATCH_LISTEN_ADDR": "not an address",
			},
			wantErr: true,
		},
		{
			name: "boolean variations",
			envVars: map[string]string{
				"IDLEWATCH_MUTE": "yes",
			},
			checkFunc: func(t *testing.T, cfg *Config) {
				if !cfg.Mute {
					t.Error("expected Mute to be true for 'yes'")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.envVars {
				_ = os.Setenv(k, v)
			}

			// Point at a non-existent file to avoid loading the user's config
			cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.yaml"))

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name      string
		content   string
		checkFunc func(*testing.T, *Config)
		wantErr   bool
	}{
		{
			name: "valid config file",
			content: `
idle_threshold: 2m
poll_interval: 15s
app_name: "Desk Tracker"
sounds_dir: "/usr/share/idlewatch/sounds"
listen_addr: "localhost:9000"
quiet: true
status_line: false
rate_limit:
  window: 30s
  max_messages: 3
log:
  level: debug
  format: json
`,
			checkFunc: func(t *testing.T, cfg *Config) {
				if cfg.IdleThreshold != 2*time.Minute {
					t.Errorf("expected IdleThreshold to be 2m but got %v", cfg.IdleThreshold)
				}
				if cfg.PollInterval != 15*time.Second {
					t.Errorf("expected PollInterval to be 15s but got %v", cfg.PollInterval)
				}
				if cfg.AppName != "Desk Tracker" {
					t.Errorf("expected AppName to be Desk Tracker but got %s", cfg.AppName)
				}
				if cfg.ListenAddr != "localhost:9000" {
					t.Errorf("expected ListenAddr to be localhost:9000 but got %s", cfg.ListenAddr)
				}
				if !cfg.Quiet {
					t.Error("expected Quiet to be true")
				}
				if cfg.StatusLine {
					t.Error("expected StatusLine to be false")
				}
				if cfg.RateLimit.MaxMessages != 3 || cfg.RateLimit.Window != 30*time.Second {
					t.Errorf("unexpected rate limit %+v", cfg.RateLimit)
				}
				if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
					t.Errorf("unexpected log config %+v", cfg.Log)
				}
			},
		},
		{
			name:    "partial file keeps defaults",
			content: "mute: true\n",
			checkFunc: func(t *testing.T, cfg *Config) {
				if !cfg.Mute {
					t.Error("expected Mute to be true")
				}
				if cfg.IdleThreshold != DefaultIdleThreshold {
					t.Errorf("expected default threshold but got %v", cfg.IdleThreshold)
				}
			},
		},
		{
			name:    "invalid yaml",
			content: "invalid: yaml: content:\n  bad indentation",
			wantErr: true,
		},
		{
			name:    "rate limit without window",
			content: "rate_limit:\n  window: 0s\n  max_messages: 2\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)

			configPath := filepath.Join(tmpDir, "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0600); err != nil {
				t.Fatalf("failed to write config file: %v", err)
			}

			cfg, err := LoadFrom(configPath)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.checkFunc != nil {
				tt.checkFunc(t, cfg)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		errorMsg string
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:     "zero threshold",
			mutate:   func(c *Config) { c.IdleThreshold = 0 },
			wantErr:  true,
			errorMsg: "idle_threshold must be positive",
		},
		{
			name:     "negative window",
			mutate:   func(c *Config) { c.RateLimit.Window = -time.Second },
			wantErr:  true,
			errorMsg: "must be non-negative",
		},
		{
			name:     "missing app name",
			mutate:   func(c *Config) { c.AppName = "" },
			wantErr:  true,
			errorMsg: "AppName",
		},
		{
			name:     "negative max messages",
			mutate:   func(c *Config) { c.RateLimit.MaxMessages = -1 },
			wantErr:  true,
			errorMsg: "MaxMessages",
		},
		{
			name:     "bad log format",
			mutate:   func(c *Config) { c.Log.Format = "xml" },
			wantErr:  true,
			errorMsg: "Format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)

			err := Validate(cfg)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error but got none")
				} else if tt.errorMsg != "" && !strings.Contains(err.Error(), tt.errorMsg) {
					t.Errorf("expected error containing %q but got %q", tt.errorMsg, err.Error())
				}
			} else if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestGetConfigPath(t *testing.T) {
	tests := []struct {
		name        string
		envVars     map[string]string
		wantContain string
	}{
		{
			name: "explicit config path",
			envVars: map[string]string{
				"IDLEWATCH_CONFIG": "/custom/path/config.yaml",
			},
			wantContain: "/custom/path/config.yaml",
		},
		{
			name: "XDG config path",
			envVars: map[string]string{
				"XDG_CONFIG_HOME": "/xdg/config",
			},
			wantContain: filepath.Join("/xdg/config", "idlewatch", "config.yaml"),
		},
		{
			name: "home directory fallback",
			envVars: map[string]string{
				"HOME": "/home/tester",
			},
			wantContain: filepath.Join(".config", "idlewatch", "config.yaml"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("XDG_CONFIG_HOME", "")
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			got := getConfigPath()
			if !strings.Contains(got, tt.wantContain) {
				t.Errorf("getConfigPath() = %q, want it to contain %q", got, tt.wantContain)
			}
		})
	}
}
