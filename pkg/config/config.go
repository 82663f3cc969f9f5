// Package config loads and validates the daemon configuration from YAML
// with environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ServerConfig configures the HTTP front-end. Timeouts are whole seconds;
// YAML has no native duration type.
type ServerConfig struct {
	Port               int `yaml:"port"`
	ReadTimeoutSec     int `yaml:"read_timeout_sec"`
	WriteTimeoutSec    int `yaml:"write_timeout_sec"`
	ShutdownTimeoutSec int `yaml:"shutdown_timeout_sec"`
}

func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSec) * time.Second
}

func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSec) * time.Second
}

func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSec) * time.Second
}

// TranslateConfig configures the remote translation (LLM) collaborator.
type TranslateConfig struct {
	Endpoint string `yaml:"endpoint"`
	Model    string `yaml:"model"`
	// APIKeyEnv names the environment variable holding the bearer token;
	// the token itself never lives in the config file.
	APIKeyEnv  string `yaml:"api_key_env"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

func (t TranslateConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSec) * time.Second
}

// PlaybackConfig configures playback defaults for new sessions.
type PlaybackConfig struct {
	SpeedMs int `yaml:"speed_ms"`
}

// Speed returns the auto-play interval.
func (p PlaybackConfig) Speed() time.Duration {
	return time.Duration(p.SpeedMs) * time.Millisecond
}

// CanvasConfig configures the layout canvas.
type CanvasConfig struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	Padding float64 `yaml:"padding"`
}

// Config is the full daemon configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Translate TranslateConfig `yaml:"translate"`
	Playback  PlaybackConfig  `yaml:"playback"`
	Canvas    CanvasConfig    `yaml:"canvas"`
	LogLevel  string          `yaml:"log_level"`
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:               8080,
			ReadTimeoutSec:     15,
			WriteTimeoutSec:    30,
			ShutdownTimeoutSec: 30,
		},
		Translate: TranslateConfig{
			Endpoint:   "http://localhost:11434/api/algorithm",
			Model:      "default",
			APIKeyEnv:  "ALGOVIZ_API_KEY",
			TimeoutSec: 60,
		},
		Playback: PlaybackConfig{SpeedMs: 1500},
		Canvas:   CanvasConfig{Width: 800, Height: 420, Padding: 40},
		LogLevel: "info",
	}
}

// Load reads the config file at path (optional, "" for defaults), applies
// environment overrides, and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("ALGOVIZ_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("ALGOVIZ_TRANSLATE_ENDPOINT"); v != "" {
		c.Translate.Endpoint = v
	}
	if v := os.Getenv("ALGOVIZ_TRANSLATE_MODEL"); v != "" {
		c.Translate.Model = v
	}
	if v := os.Getenv("ALGOVIZ_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
}

// APIKey resolves the translation bearer token from the environment, or ""
// when the endpoint needs none.
func (c *Config) APIKey() string {
	if c.Translate.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(c.Translate.APIKeyEnv)
}

// Validate checks the configuration, collecting every violation.
func (c *Config) Validate() error {
	v := NewValidator("config")
	v.RangeInt("server.port", c.Server.Port, 1, 65535)
	v.PositiveInt("server.read_timeout_sec", c.Server.ReadTimeoutSec)
	v.PositiveInt("server.write_timeout_sec", c.Server.WriteTimeoutSec)
	v.PositiveInt("server.shutdown_timeout_sec", c.Server.ShutdownTimeoutSec)
	v.Required("translate.endpoint", c.Translate.Endpoint)
	v.PositiveInt("translate.timeout_sec", c.Translate.TimeoutSec)
	v.PositiveInt("playback.speed_ms", c.Playback.SpeedMs)
	v.PositiveFloat("canvas.width", c.Canvas.Width)
	v.PositiveFloat("canvas.height", c.Canvas.Height)
	v.PositiveFloat("canvas.padding", c.Canvas.Padding)
	return v.Err()
}
