// Package config loads the JSON configuration file named after the
// running service, in the same DefaultConfig/LoadConfig/SaveConfig
// shape the original service configuration used, generalized to the
// options spec.md §6 names.
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// APIConfig holds the HTTP listener options.
type APIConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// PostgresConfig holds the options consumed by src/pgpool when db is
// "pg".
type PostgresConfig struct {
	Database string `json:"database"`
	User     string `json:"user"`
	Password string `json:"password"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	MinSize  int32  `json:"minsize"`
	MaxSize  int32  `json:"maxsize"`
}

// Config represents the application configuration.
type Config struct {
	DB       string         `json:"db"`
	API      APIConfig      `json:"api"`
	Postgres PostgresConfig `json:"postgres"`
}

// DefaultConfig returns the default configuration: an in-memory store
// listening on 0.0.0.0:8080.
func DefaultConfig() *Config {
	return &Config{
		DB: "mem",
		API: APIConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Postgres: PostgresConfig{
			Database: "graph",
			User:     "graph",
			Host:     "localhost",
			Port:     5432,
			MinSize:  1,
			MaxSize:  10,
		},
	}
}

// Path returns the config file location for a given service name.
func Path(service string) string {
	return fmt.Sprintf("config/%s.json", service)
}

// LoadConfig loads configuration from a JSON file. A missing file is
// not an error: it yields DefaultConfig so a fresh checkout can run
// with sane in-memory defaults.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// SaveConfig saves configuration to a JSON file.
func SaveConfig(cfg *Config, path string) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}
