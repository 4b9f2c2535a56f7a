// Package config loads service configuration from an optional TOML file,
// with environment overrides for credentials.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	toml "github.com/pelletier/go-toml/v2"
)

// Environment variable overriding the configured DeepL auth key.
const envDeepLAuthKey = "SUBGEN_DEEPL_AUTH_KEY"

// DeepLConfig configures the translation service client.
type DeepLConfig struct {
	AuthKey string `toml:"auth_key"`
	BaseURL string `toml:"base_url"`
}

// WhisperConfig configures the transcription engine.
type WhisperConfig struct {
	Bin string `toml:"bin"`
	// DefaultLanguage is the source language the weaker model sizes are
	// optimized for; any other source language upgrades a request to the
	// strongest model.
	DefaultLanguage string `toml:"default_language"`
}

// FFmpegConfig configures the muxing tool.
type FFmpegConfig struct {
	Bin string `toml:"bin"`
}

// Config holds the full service configuration.
type Config struct {
	Addr      string        `toml:"addr"`
	WorkDir   string        `toml:"work_dir"`
	Workers   int           `toml:"workers"`
	QueueSize int           `toml:"queue_size"`
	LogLevel  string        `toml:"log_level"`
	DeepL     DeepLConfig   `toml:"deepl"`
	Whisper   WhisperConfig `toml:"whisper"`
	FFmpeg    FFmpegConfig  `toml:"ffmpeg"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:      ":8080",
		WorkDir:   "./work",
		Workers:   2,
		QueueSize: 16,
		LogLevel:  "info",
		DeepL: DeepLConfig{
			BaseURL: "https://api-free.deepl.com",
		},
		Whisper: WhisperConfig{
			Bin:             "whisper",
			DefaultLanguage: "EN",
		},
		FFmpeg: FFmpegConfig{
			Bin: "ffmpeg",
		},
	}
}

// Load reads the TOML file at path over the defaults. A missing file is not
// an error; the defaults plus environment overrides apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if key := os.Getenv(envDeepLAuthKey); key != "" {
		cfg.DeepL.AuthKey = key
	}
	return cfg, nil
}

// UploadDir is where per-run media copies live before the pipeline consumes
// them.
func (c *Config) UploadDir() string {
	return c.WorkDir + "/uploads"
}

// ArtifactDir is where finished subtitle and video artifacts are written.
func (c *Config) ArtifactDir() string {
	return c.WorkDir + "/artifacts"
}
