// Package config defines the WaveCut configuration format and helpers for
// loading or saving it to disk.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const (
	// AppID is the stable application identifier used for config storage.
	AppID = "wavecut"
	// AppConfigSubdir is the OS-specific directory that holds the config file.
	AppConfigSubdir = "WaveCut"
	// AppConfigName is the JSON file stored on disk.
	AppConfigName = "config.json"

	// DefaultWidth is the preferred window width when no persisted value exists.
	DefaultWidth = 960
	// DefaultHeight is the preferred window height.
	DefaultHeight = 420
	// DefaultVolume sets the safe initial playback level (0-100).
	DefaultVolume = 70
	// DefaultRate is the normal playback speed.
	DefaultRate = 1.0
	// DefaultZoom is the initial horizontal zoom factor.
	DefaultZoom = 1
	// MinZoom and MaxZoom bound the persisted zoom factor.
	MinZoom = 1
	MaxZoom = 8
	// MinWindowWidth keeps the toolbar controls visible even on first launch.
	MinWindowWidth = 720
)

// Config aggregates every user-facing preference persisted between sessions.
// Cut points are deliberately not part of it.
type Config struct {
	LastFile string  `json:"lastFile,omitempty"`
	Volume   int     `json:"volume"`
	Rate     float64 `json:"rate"`
	Zoom     int     `json:"zoom"`
	WindowW  int     `json:"windowW"`
	WindowH  int     `json:"windowH"`
}

// ConfigDir resolves the writable directory that should contain the config file.
func ConfigDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppConfigSubdir), nil
}

// ConfigPath is a helper that returns the full path to config.json.
func ConfigPath() (string, error) {
	d, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, AppConfigName), nil
}

// Load reads the config from disk, applying defaults when the file is absent
// or carries out-of-range values.
func Load() (*Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := newDefaultConfig()
			// Try saving an initial config, but still return defaults even if it fails.
			_ = cfg.Save()
			return cfg, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("config parse error: %w", err)
	}
	cfg.applyRuntimeDefaults()
	return cfg, nil
}

// Save persists the configuration to disk, creating directories as needed.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// newDefaultConfig builds an in-memory config populated with safe defaults.
func newDefaultConfig() *Config {
	cfg := &Config{
		Volume:  DefaultVolume,
		Rate:    DefaultRate,
		Zoom:    DefaultZoom,
		WindowW: DefaultWidth,
		WindowH: DefaultHeight,
	}
	cfg.applyRuntimeDefaults()
	return cfg
}

// applyRuntimeDefaults normalizes config values after a load or when defaults
// are constructed, ensuring the UI always receives sane inputs.
func (c *Config) applyRuntimeDefaults() {
	if c.WindowW == 0 {
		c.WindowW = DefaultWidth
	}
	if c.WindowW < MinWindowWidth {
		c.WindowW = MinWindowWidth
	}
	if c.WindowH <= 0 {
		c.WindowH = DefaultHeight
	}
	if c.Volume < 0 || c.Volume > 100 {
		c.Volume = DefaultVolume
	}
	if c.Rate <= 0 {
		c.Rate = DefaultRate
	}
	if c.Zoom < MinZoom || c.Zoom > MaxZoom {
		c.Zoom = DefaultZoom
	}
}
