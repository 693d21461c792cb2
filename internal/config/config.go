// Package config holds server configuration and its environment overlay.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// ServerConfig holds configuration for the wfstage server.
type ServerConfig struct {
	Addr      string // Listen address (default ":8080")
	LogLevel  string // Log level: debug, info, warn, error
	LogFormat string // Log format: text, json
	DBPath    string // SQLite database path (default ~/.wfstage/wfstage.db, ":memory:" for testing)
	MaxDepth  int    // Parameter nesting ceiling (0 uses the validator default)
}

// DefaultServerConfig returns sensible defaults.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		Addr:      ":8080",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// FromEnv overlays WFSTAGE_* environment variables on top of the
// defaults. A .env file in the working directory is loaded first when
// present; real environment variables win over it.
func FromEnv() ServerConfig {
	_ = godotenv.Load()

	cfg := DefaultServerConfig()
	if v := os.Getenv("WFSTAGE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("WFSTAGE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("WFSTAGE_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("WFSTAGE_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("WFSTAGE_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxDepth = n
		}
	}
	return cfg
}
