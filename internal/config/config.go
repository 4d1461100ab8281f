package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "pixelterm"

// Config carries every tunable the session reads. Zero values are
// filled with defaults in Load, so a missing or partial config file
// always yields a usable configuration.
type Config struct {
	Navigation NavigationConfig `koanf:"navigation"`
	Preload    PreloadConfig    `koanf:"preload"`
	Render     RenderConfig     `koanf:"render"`
	Scan       ScanConfig       `koanf:"scan"`
	Input      InputConfig      `koanf:"input"`
	Log        LogConfig        `koanf:"log"`
}

type NavigationConfig struct {
	WrapAround *bool `koanf:"wrap_around"` // cyclic next/previous (default: true)
}

type PreloadConfig struct {
	Enabled *bool `koanf:"enabled"` // background neighbor rendering (default: true)
	Window  int   `koanf:"window"`  // neighbors per side to keep rendered (default: 1)
}

type RenderConfig struct {
	ReservedStatusRows int    `koanf:"reserved_status_rows"` // terminal rows kept for the status line (default: 2)
	Protocol           string `koanf:"protocol"`             // force a protocol instead of detecting one
	Backend            string `koanf:"backend"`              // "builtin" or "chafa"
}

type ScanConfig struct {
	Pattern string `koanf:"pattern"` // glob narrowing the directory listing by file name
}

type InputConfig struct {
	EscapeTimeoutMs int `koanf:"escape_timeout_ms"` // inter-byte wait before a lone ESC is dropped (default: 50)
}

type LogConfig struct {
	File  string `koanf:"file"`  // empty disables logging
	Level string `koanf:"level"` // zerolog level name (default: "info")
}

// Load reads the configuration. An explicit path must exist; otherwise
// the first existing candidate from SearchPaths is used, and none at
// all means pure defaults.
func Load(explicit string) (*Config, error) {
	k := koanf.New(".")

	path := explicit
	if path == "" {
		for _, candidate := range SearchPaths() {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
	}

	if path != "" {
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// SearchPaths lists the config file candidates in priority order: the
// XDG config directory first, then the dotted home fallback.
func SearchPaths() []string {
	var paths []string
	if p, err := xdg.SearchConfigFile(filepath.Join(appName, "config.toml")); err == nil {
		paths = append(paths, p)
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, "."+appName, "config.toml"))
	}
	return paths
}

func (c *Config) applyDefaults() {
	if c.Preload.Window <= 0 {
		c.Preload.Window = 1
	}
	if c.Render.ReservedStatusRows <= 0 {
		c.Render.ReservedStatusRows = 2
	}
	if c.Input.EscapeTimeoutMs <= 0 {
		c.Input.EscapeTimeoutMs = 50
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Wrap reports whether navigation wraps at the list ends.
func (c *Config) Wrap() bool {
	return c.Navigation.WrapAround == nil || *c.Navigation.WrapAround
}

// PreloadEnabled reports whether neighbors are rendered in the background.
func (c *Config) PreloadEnabled() bool {
	return c.Preload.Enabled == nil || *c.Preload.Enabled
}

// EscapeTimeout returns the decoder's inter-byte timeout.
func (c *Config) EscapeTimeout() time.Duration {
	return time.Duration(c.Input.EscapeTimeoutMs) * time.Millisecond
}
