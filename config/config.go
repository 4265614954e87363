// Package config loads the tradebook configuration from a YAML or JSON
// file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the complete tradebook configuration.
type Config struct {
	DataDir string        `json:"data_dir" yaml:"data_dir"`
	Risk    RiskConfig    `json:"risk" yaml:"risk"`
	Archive ArchiveConfig `json:"archive" yaml:"archive"`
}

// RiskConfig contains the advisory risk thresholds shown at trade
// entry. They warn; they never block a submission.
type RiskConfig struct {
	WarnPct float64 `json:"warn_pct" yaml:"warn_pct"`
}

// ArchiveConfig contains the closed-trade export parameters.
type ArchiveConfig struct {
	Type    string `json:"type" yaml:"type"` // "csv" or "sqlite"
	CSVFile string `json:"csv_file,omitempty" yaml:"csv_file,omitempty"`
	DBPath  string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
}

// LoadFromFile loads configuration from a file (YAML or JSON).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}

	// Try YAML first, fall back to JSON
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on
// extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if c.Risk.WarnPct < 0 || c.Risk.WarnPct > 100 {
		return fmt.Errorf("risk.warn_pct must be between 0 and 100")
	}
	if c.Archive.Type != "csv" && c.Archive.Type != "sqlite" {
		return fmt.Errorf("archive.type must be 'csv' or 'sqlite'")
	}
	if c.Archive.Type == "csv" && c.Archive.CSVFile == "" {
		return fmt.Errorf("archive csv_file required for CSV type")
	}
	if c.Archive.Type == "sqlite" && c.Archive.DBPath == "" {
		return fmt.Errorf("archive db_path required for SQLite type")
	}
	return nil
}

// Default returns a configuration with sensible defaults, rooted in the
// user's home directory.
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	base := filepath.Join(home, ".tradebook")
	return &Config{
		DataDir: filepath.Join(base, "data"),
		Risk: RiskConfig{
			WarnPct: 3.0,
		},
		Archive: ArchiveConfig{
			Type:    "csv",
			CSVFile: filepath.Join(base, "trades_export.csv"),
		},
	}
}
