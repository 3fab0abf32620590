package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lixenwraith/scenekit/parameter"
)

// Config is the runtime configuration for a scenekit session
type Config struct {
	ContentDir    string        `yaml:"content_dir"`
	StartRoom     int           `yaml:"start_room"`
	FrameInterval time.Duration `yaml:"frame_interval"`
	Headless      bool          `yaml:"headless"`

	Log   LogConfig   `yaml:"log"`
	Audio AudioConfig `yaml:"audio"`
	Save  SaveConfig  `yaml:"save"`
	Feed  FeedConfig  `yaml:"feed"`
}

// LogConfig configures the rotated file logger
type LogConfig struct {
	File       string `yaml:"file"`
	Level      string `yaml:"level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	JSON       bool   `yaml:"json"`
}

// AudioConfig configures the synthesized audio player
type AudioConfig struct {
	Enabled      bool    `yaml:"enabled"`
	MasterVolume float64 `yaml:"master_volume"`
	SFXVolume    float64 `yaml:"sfx_volume"`
	MusicVolume  float64 `yaml:"music_volume"`
	SampleRate   int     `yaml:"sample_rate"`
}

// SaveConfig locates the sqlite save database
type SaveConfig struct {
	Path string `yaml:"path"`
}

// FeedConfig configures the websocket observer feed, empty Addr disables it
type FeedConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the built-in configuration
func Default() *Config {
	return &Config{
		StartRoom:     1,
		FrameInterval: parameter.FrameInterval,
		Log: LogConfig{
			Level: "info",
		},
		Audio: AudioConfig{
			Enabled:      true,
			MasterVolume: 1.0,
			SFXVolume:    parameter.DefaultSFXVolume,
			MusicVolume:  parameter.DefaultMusicVolume,
			SampleRate:   parameter.AudioSampleRate,
		},
		Save: SaveConfig{
			Path: "scenekit.db",
		},
	}
}

// Load reads a YAML file over the defaults and applies environment overrides
// A missing file is not an error when path is empty
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	ApplyEnv(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from SCENEKIT_* environment variables
// Malformed values are ignored
func ApplyEnv(cfg *Config) {
	if v := os.Getenv("SCENEKIT_CONTENT_DIR"); v != "" {
		cfg.ContentDir = v
	}
	if v := os.Getenv("SCENEKIT_START_ROOM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.StartRoom = n
		}
	}
	if v := os.Getenv("SCENEKIT_FRAME_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.FrameInterval = d
		}
	}
	if v := os.Getenv("SCENEKIT_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SCENEKIT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SCENEKIT_AUDIO_ENABLED"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Audio.Enabled = b
		}
	}

	// Master volume 0-100 converted to 0.0-1.0
	if v := os.Getenv("SCENEKIT_MASTER_VOLUME"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Audio.MasterVolume = clampUnit(float64(n) / 100.0)
		}
	}
	if v := os.Getenv("SCENEKIT_SAVE_PATH"); v != "" {
		cfg.Save.Path = v
	}
	if v := os.Getenv("SCENEKIT_FEED_ADDR"); v != "" {
		cfg.Feed.Addr = v
	}
}

// Validate rejects configurations the runtime cannot start with
func (c *Config) Validate() error {
	var errs []error
	if c.FrameInterval <= 0 {
		errs = append(errs, fmt.Errorf("frame_interval must be positive, got %v", c.FrameInterval))
	}
	if c.StartRoom <= 0 {
		errs = append(errs, fmt.Errorf("start_room must be positive, got %d", c.StartRoom))
	}
	if c.Audio.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.sample_rate must be positive, got %d", c.Audio.SampleRate))
	}
	return errors.Join(errs...)
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
