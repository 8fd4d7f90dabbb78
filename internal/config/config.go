// Package config loads server configuration from the environment and an
// optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds server settings.
type Config struct {
	Port               string
	DataDir            string   // Directory holding VSOP87D.<abbr> files.
	GridDir            string   // Directory holding <abbr>.nc ephemeris grids; empty disables grids.
	CatalogPath        string   // YAML body catalog; empty uses the built-in catalog.
	CORSAllowedOrigins []string // Empty allows all origins.
	LogLevel           string
	Preload            bool // Parse every available body at start-up.
}

// Keys, also read from the upper-cased environment variable of the same name.
const (
	KeyPort               = "port"
	KeyDataDir            = "data_dir"
	KeyGridDir            = "grid_dir"
	KeyCatalogPath        = "catalog_path"
	KeyCORSAllowedOrigins = "cors_allowed_origins"
	KeyLogLevel           = "log_level"
	KeyPreload            = "preload"
)

// New returns a viper instance with defaults and environment binding applied.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(KeyPort, "8080")
	v.SetDefault(KeyDataDir, "./data/vsop87")
	v.SetDefault(KeyGridDir, "")
	v.SetDefault(KeyCatalogPath, "")
	v.SetDefault(KeyCORSAllowedOrigins, "")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyPreload, true)
	v.AutomaticEnv()
	return v
}

// Load reads configuration. If path is non-empty the file is read first;
// environment variables take precedence over it.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return FromViper(v)
}

// FromViper decodes and validates a Config from v.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Port:               strings.TrimSpace(v.GetString(KeyPort)),
		DataDir:            v.GetString(KeyDataDir),
		GridDir:            v.GetString(KeyGridDir),
		CatalogPath:        v.GetString(KeyCatalogPath),
		CORSAllowedOrigins: splitList(v.GetString(KeyCORSAllowedOrigins)),
		LogLevel:           v.GetString(KeyLogLevel),
		Preload:            v.GetBool(KeyPreload),
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyPort)
	}
	if cfg.DataDir == "" {
		return nil, fmt.Errorf("%s must not be empty", KeyDataDir)
	}
	return cfg, nil
}

// splitList splits a comma separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
