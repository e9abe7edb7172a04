package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLoadDefaultConfig(t *testing.T) {
	tempDir := t.TempDir()
	restore := overrideConfigEnv(tempDir)
	defer restore()

	path, err := ConfigPath()
	if err != nil {
		t.Fatalf("ConfigPath error: %v", err)
	}
	_ = os.Remove(path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg == nil {
		t.Fatal("Load returned nil config")
	}
	if cfg.Volume != DefaultVolume {
		t.Errorf("Volume = %d, want %d", cfg.Volume, DefaultVolume)
	}
	if cfg.Rate != DefaultRate {
		t.Errorf("Rate = %v, want %v", cfg.Rate, DefaultRate)
	}
	if cfg.Zoom != DefaultZoom {
		t.Errorf("Zoom = %d, want %d", cfg.Zoom, DefaultZoom)
	}
	if cfg.WindowW != DefaultWidth {
		t.Errorf("WindowW = %d, want %d", cfg.WindowW, DefaultWidth)
	}
	if cfg.WindowH != DefaultHeight {
		t.Errorf("WindowH = %d, want %d", cfg.WindowH, DefaultHeight)
	}
	if cfg.LastFile != "" {
		t.Errorf("LastFile = %q, want empty", cfg.LastFile)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected config file at %s, got error: %v", path, err)
	}
}

func TestApplyRuntimeDefaults(t *testing.T) {
	tests := []struct {
		name  string
		in    Config
		check func(t *testing.T, c *Config)
	}{
		{
			name: "zoom above range",
			in:   Config{Zoom: 12, Rate: 1, Volume: 50, WindowW: 800, WindowH: 400},
			check: func(t *testing.T, c *Config) {
				if c.Zoom != DefaultZoom {
					t.Errorf("Zoom = %d, want %d", c.Zoom, DefaultZoom)
				}
			},
		},
		{
			name: "negative rate",
			in:   Config{Zoom: 2, Rate: -1, Volume: 50, WindowW: 800, WindowH: 400},
			check: func(t *testing.T, c *Config) {
				if c.Rate != DefaultRate {
					t.Errorf("Rate = %v, want %v", c.Rate, DefaultRate)
				}
			},
		},
		{
			name: "volume out of range",
			in:   Config{Zoom: 2, Rate: 1, Volume: 150, WindowW: 800, WindowH: 400},
			check: func(t *testing.T, c *Config) {
				if c.Volume != DefaultVolume {
					t.Errorf("Volume = %d, want %d", c.Volume, DefaultVolume)
				}
			},
		},
		{
			name: "narrow window widened",
			in:   Config{Zoom: 2, Rate: 1, Volume: 50, WindowW: 100, WindowH: 400},
			check: func(t *testing.T, c *Config) {
				if c.WindowW != MinWindowWidth {
					t.Errorf("WindowW = %d, want %d", c.WindowW, MinWindowWidth)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := tt.in
			c.applyRuntimeDefaults()
			tt.check(t, &c)
		})
	}
}

func overrideConfigEnv(tempDir string) func() {
	originals := map[string]string{
		"APPDATA":         os.Getenv("APPDATA"),
		"LOCALAPPDATA":    os.Getenv("LOCALAPPDATA"),
		"USERPROFILE":     os.Getenv("USERPROFILE"),
		"XDG_CONFIG_HOME": os.Getenv("XDG_CONFIG_HOME"),
		"HOME":            os.Getenv("HOME"),
	}

	if runtime.GOOS == "windows" {
		os.Setenv("APPDATA", tempDir)
		os.Setenv("LOCALAPPDATA", tempDir)
		os.Setenv("USERPROFILE", tempDir)
	} else {
		xdg := filepath.Join(tempDir, "xdg")
		_ = os.MkdirAll(xdg, 0o755)
		os.Setenv("XDG_CONFIG_HOME", xdg)
		os.Setenv("HOME", tempDir)
	}

	return func() {
		for k, v := range originals {
			if v == "" {
				os.Unsetenv(k)
			} else {
				os.Setenv(k, v)
			}
		}
	}
}
