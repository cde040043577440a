// Package config reads the process configuration from GRIDSHEET_*
// environment variables. Flags override env values, env values override the
// built-in defaults.
package config

import (
	"os"
	"strconv"

	"github.com/kozaktomas/gridsheet/internal/settings"
)

// Config is the process configuration.
type Config struct {
	SettingsPath string // path of the grid settings JSON file
	Web          WebConfig
	Thumbs       ThumbsConfig
}

// WebConfig configures the web panel.
type WebConfig struct {
	Host string
	Port int
}

// ThumbsConfig configures the preview thumbnail pipeline.
type ThumbsConfig struct {
	CacheSize int // LRU entries kept for preview thumbnails
}

// Load reads the configuration from the environment.
func Load() *Config {
	return &Config{
		SettingsPath: envStr("GRIDSHEET_SETTINGS", settings.DefaultFileName),
		Web: WebConfig{
			Host: envStr("GRIDSHEET_WEB_HOST", "0.0.0.0"),
			Port: envInt("GRIDSHEET_WEB_PORT", 8080),
		},
		Thumbs: ThumbsConfig{
			CacheSize: envInt("GRIDSHEET_THUMB_CACHE_SIZE", 256),
		},
	}
}

// envStr reads an environment variable. Returns the default value if the
// env var is unset or empty.
func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

// envInt reads an environment variable and parses it as a positive integer.
// Returns the default value if the env var is unset, empty, or invalid.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	if n, err := strconv.Atoi(s); err == nil && n > 0 {
		return n
	}
	return defaultVal
}
