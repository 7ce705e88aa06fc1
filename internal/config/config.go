package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all effectsolutions configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Task controller defaults
	Effect EffectConfig `yaml:"effect"`

	// In-page terminal demo
	Terminal TerminalConfig `yaml:"terminal"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// EffectConfig configures task controllers built by the demo catalog.
type EffectConfig struct {
	ShowTimer            bool   `yaml:"show_timer"`
	NotificationDuration string `yaml:"notification_duration"`
	DebugDefects         bool   `yaml:"debug_defects"` // log defects when a task dies
}

// TerminalConfig configures the toy task-list CLI.
type TerminalConfig struct {
	DatabasePath   string `yaml:"database_path"` // empty = in-memory store
	StorageKey     string `yaml:"storage_key"`
	InitializedKey string `yaml:"initialized_key"`
}

// UIConfig configures the interactive view.
type UIConfig struct {
	WordWrap        int    `yaml:"word_wrap"`
	RefreshInterval string `yaml:"refresh_interval"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "effectsolutions",
		Version: "0.4.0",

		Effect: EffectConfig{
			ShowTimer:            true,
			NotificationDuration: "2s",
			DebugDefects:         false,
		},

		Terminal: TerminalConfig{
			DatabasePath:   "",
			StorageKey:     "effect-solutions-tasks-demo",
			InitializedKey: "effect-solutions-tasks-initialized",
		},

		UI: UIConfig{
			WordWrap:        80,
			RefreshInterval: "100ms",
		},

		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. A .env file next to the config is loaded before env overrides
// are applied; variables already set in the environment win.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := loadDotEnv(filepath.Join(filepath.Dir(path), ".env")); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EFFECT_DEBUG"); v != "" {
		if on, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = on
			c.Effect.DebugDefects = on
		}
	}
	if path := os.Getenv("EFFECT_TERMINAL_DB"); path != "" {
		c.Terminal.DatabasePath = path
	}
	if d := os.Getenv("EFFECT_NOTIFY_DURATION"); d != "" {
		c.Effect.NotificationDuration = d
	}
	if level := os.Getenv("EFFECT_LOG_LEVEL"); level != "" {
		c.Logging.Level = level
	}
}

// GetNotificationDuration returns the default notification lifetime.
func (c *Config) GetNotificationDuration() time.Duration {
	d, err := time.ParseDuration(c.Effect.NotificationDuration)
	if err != nil {
		return 2 * time.Second
	}
	return d
}

// GetRefreshInterval returns how often the UI redraws a running timer.
func (c *Config) GetRefreshInterval() time.Duration {
	d, err := time.ParseDuration(c.UI.RefreshInterval)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}
