package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const DefaultTimerStartedTemplate = `⏱️ Started tracking "{{activity_name}}"{{#note}} ({{note}}){{/note}} at {{started_at}}.`

const DefaultTimerStoppedTemplate = `⏹️ Stopped "{{activity_name}}" after {{duration}}.{{#note}} Note: {{note}}{{/note}}`

const DefaultTimeout = 30 * time.Second

type Config struct {
	APIKey    string
	APISecret string
	BaseURL   string
	Timeout   time.Duration

	TimerStartedTemplate string
	TimerStoppedTemplate string
}

type tomlConfig struct {
	BaseURL        string `toml:"base_url"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Load reads config from ~/.config/early-mcp/ and the environment.
// Environment variables win over the TOML file; credentials come from the
// environment only, never from a file on disk.
func Load() (*Config, error) {
	cfg := &Config{
		Timeout:              DefaultTimeout,
		TimerStartedTemplate: DefaultTimerStartedTemplate,
		TimerStoppedTemplate: DefaultTimerStoppedTemplate,
	}

	if home, err := os.UserHomeDir(); err == nil {
		configDir := filepath.Join(home, ".config", "early-mcp")
		tomlPath := filepath.Join(configDir, "config.toml")
		startedPath := filepath.Join(configDir, "timer_started.mustache")
		stoppedPath := filepath.Join(configDir, "timer_stopped.mustache")

		if _, err := os.Stat(tomlPath); err == nil {
			var tc tomlConfig
			if _, err := toml.DecodeFile(tomlPath, &tc); err == nil {
				cfg.BaseURL = tc.BaseURL
				if tc.TimeoutSeconds > 0 {
					cfg.Timeout = time.Duration(tc.TimeoutSeconds) * time.Second
				}
			}
		}

		// Custom templates replace the defaults wholesale.
		if data, err := os.ReadFile(startedPath); err == nil {
			cfg.TimerStartedTemplate = strings.TrimSpace(string(data))
		}
		if data, err := os.ReadFile(stoppedPath); err == nil {
			cfg.TimerStoppedTemplate = strings.TrimSpace(string(data))
		}
	}

	cfg.APIKey = os.Getenv("EARLY_API_KEY")
	cfg.APISecret = os.Getenv("EARLY_API_SECRET")
	if v := os.Getenv("EARLY_BASE_URL"); v != "" {
		cfg.BaseURL = v
	}

	return cfg, nil
}

// HasCredentials reports whether both halves of the API credential pair are
// set. The server still starts without them; tool calls report the gap.
func (c *Config) HasCredentials() bool {
	return c.APIKey != "" && c.APISecret != ""
}

// Validate checks that the config is usable for talking to the API.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return errors.New("EARLY_API_KEY is not set")
	}
	if c.APISecret == "" {
		return errors.New("EARLY_API_SECRET is not set")
	}
	return nil
}
