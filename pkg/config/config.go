package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for idlewatch
type Config struct {
	// Idle monitoring
	IdleThreshold time.Duration `yaml:"idle_threshold" env:"IDLEWATCH_IDLE_THRESHOLD"`
	PollInterval  time.Duration `yaml:"poll_interval" env:"IDLEWATCH_POLL_INTERVAL"`

	// Notification presentation
	AppName   string `yaml:"app_name" env:"IDLEWATCH_APP_NAME" validate:"required,max=64"`
	SoundsDir string `yaml:"sounds_dir" env:"IDLEWATCH_SOUNDS_DIR"`

	// Event sink server; empty disables it
	ListenAddr string `yaml:"listen_addr" env:"IDLEWATCH_LISTEN_ADDR" validate:"omitempty,hostname_port"`

	// Behavior flags
	Quiet      bool `yaml:"quiet" env:"IDLEWATCH_QUIET"`
	Mute       bool `yaml:"mute" env:"IDLEWATCH_MUTE"`
	StatusLine bool `yaml:"status_line"`

	// Rate limiting of direct native notifications
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	Log LogConfig `yaml:"log"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Window      time.Duration `yaml:"window"`
	MaxMessages int           `yaml:"max_messages" validate:"gte=0"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level" env:"IDLEWATCH_LOG_LEVEL" validate:"omitempty,oneof=debug info warn warning error"`
	Format string `yaml:"format" validate:"omitempty,oneof=text json"`
}

// Idle defaults. The threshold is the literal sampled value; deployments that
// want a longer one set idle_threshold.
const (
	DefaultIdleThreshold = 3 * time.Second
	DefaultPollInterval  = 10 * time.Second
	DefaultListenAddr    = "127.0.0.1:7474"
	DefaultAppName       = "Time Tracker"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IdleThreshold: DefaultIdleThreshold,
		PollInterval:  DefaultPollInterval,
		AppName:       DefaultAppName,
		ListenAddr:    DefaultListenAddr,
		StatusLine:    true,
		RateLimit: RateLimitConfig{
			Window:      1 * time.Minute,
			MaxMessages: 0,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load loads configuration from the default file location and environment
func Load() (*Config, error) {
	return LoadFrom(getConfigPath())
}

// LoadFrom loads configuration from path and environment.
// A missing file is not an error.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// getConfigPath returns the config file path
func getConfigPath() string {
	// Check for explicit config path
	if path := os.Getenv("IDLEWATCH_CONFIG"); path != "" {
		return path
	}

	// Check XDG config directory
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, "idlewatch", "config.yaml")
	}

	// Fall back to home directory
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "idlewatch", "config.yaml")
	}

	return ""
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(cfg *Config, path string) error {
	// #nosec G304 - The config file path comes from trusted sources (flag, env var or standard locations)
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return yaml.Unmarshal(data, cfg)
}

// loadFromEnv loads configuration from environment variables
func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("IDLEWATCH_IDLE_THRESHOLD"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IDLEWATCH_IDLE_THRESHOLD: %w", err)
		}
		cfg.IdleThreshold = d
	}

	if v := os.Getenv("IDLEWATCH_POLL_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid IDLEWATCH_POLL_INTERVAL: %w", err)
		}
		cfg.PollInterval = d
	}

	if v := os.Getenv("IDLEWATCH_APP_NAME"); v != "" {
		cfg.AppName = v
	}

	if v := os.Getenv("IDLEWATCH_SOUNDS_DIR"); v != "" {
		cfg.SoundsDir = v
	}

	// An explicitly empty value is meaningful here: it disables the server.
	if v, ok := os.LookupEnv("IDLEWATCH_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}

	if v := os.Getenv("IDLEWATCH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if err := envBool("IDLEWATCH_QUIET", &cfg.Quiet); err != nil {
		return err
	}

	return envBool("IDLEWATCH_MUTE", &cfg.Mute)
}

// envBool parses a boolean environment variable into dst if it is set
func envBool(name string, dst *bool) error {
	v := os.Getenv(name)
	if v == "" {
		return nil
	}

	switch v {
	case "true", "1", "yes":
		*dst = true
	case "false", "0", "no":
		*dst = false
	default:
		return fmt.Errorf("invalid %s value: %q (use true/false)", name, v)
	}
	return nil
}

// Validate validates the configuration
func Validate(cfg *Config) error {
	if cfg.IdleThreshold <= 0 {
		return fmt.Errorf("idle_threshold must be positive")
	}

	if cfg.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}

	if cfg.RateLimit.Window < 0 {
		return fmt.Errorf("rate_limit.window must be non-negative")
	}

	if cfg.RateLimit.MaxMessages > 0 && cfg.RateLimit.Window == 0 {
		return fmt.Errorf("rate_limit.window is required when rate_limit.max_messages is set")
	}

	return validate.Struct(cfg)
}
