// Package config loads labrex configuration from YAML with environment
// variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration for the server and the CLI.
type Config struct {
	Log    LogConfig    `yaml:"log"`
	Server ServerConfig `yaml:"server"`
	OCR    OCRConfig    `yaml:"ocr"`
	Batch  BatchConfig  `yaml:"batch"`
	Watch  WatchConfig  `yaml:"watch"`
}

// LogConfig controls logging behaviour.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
	Output string `yaml:"output"` // stdout, stderr, or a file path
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr        string `yaml:"addr"`
	MaxUploadMB int    `yaml:"max_upload_mb"`
}

// OCRConfig controls the recognition engine.
type OCRConfig struct {
	Language string `yaml:"language"`
}

// BatchConfig controls directory processing.
type BatchConfig struct {
	Workers       int    `yaml:"workers"`
	ProcessedDir  string `yaml:"processed_dir"`
	MoveProcessed bool   `yaml:"move_processed"`
}

// WatchConfig controls the directory watcher.
type WatchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// DefaultConfig returns the built-in defaults. Workers defaults to 1, which
// processes batch inputs strictly in order and stops at the first failure.
func DefaultConfig() Config {
	return Config{
		Log: LogConfig{
			Level:  "info",
			Format: "console",
			Output: "stderr",
		},
		Server: ServerConfig{
			Addr:        ":8080",
			MaxUploadMB: 10,
		},
		OCR: OCRConfig{
			Language: "eng",
		},
		Batch: BatchConfig{
			Workers:      1,
			ProcessedDir: "processed",
		},
		Watch: WatchConfig{
			DebounceMS: 300,
		},
	}
}

// Load reads the YAML file at path over the defaults, then applies
// environment overrides and validates. An empty path skips the file and
// uses defaults plus environment only.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("LABREX_LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv("LABREX_LOG_FORMAT"); v != "" {
		c.Log.Format = v
	}
	if v := os.Getenv("LABREX_SERVER_ADDR"); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv("LABREX_OCR_LANG"); v != "" {
		c.OCR.Language = v
	}
	if v := os.Getenv("LABREX_BATCH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Batch.Workers = n
		}
	}
}

// Validate checks the configuration for values that would break startup.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "panic", "":
	default:
		return fmt.Errorf("config: unknown log level %q", c.Log.Level)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("config: server.addr must not be empty")
	}
	if c.Server.MaxUploadMB < 1 {
		return fmt.Errorf("config: server.max_upload_mb must be >= 1, got %d", c.Server.MaxUploadMB)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("config: batch.workers must be >= 1, got %d", c.Batch.Workers)
	}
	return nil
}
