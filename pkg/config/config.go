// Package config loads and saves the robopong configuration file.
package config

import (
	"encoding/json"
	"os"
	"time"
)

const DefaultConfigFile = "robopong.json"

// Defaults for a fresh setup.
const (
	DefaultGatewayURL  = "https://api.interactions.ics.unisg.ch/cherrybot2"
	DefaultDetectorURL = "http://127.0.0.1:5001"
)

// Config holds the robot and detector configuration
type Config struct {
	Gateway  GatewayConfig  `json:"gateway"`
	Detector DetectorConfig `json:"detector"`

	Speed           int    `json:"speed,omitempty"`            // move speed, engine default when 0
	CalibrationFile string `json:"calibration_file,omitempty"` // YAML shot-profile overrides
	HistoryFile     string `json:"history_file,omitempty"`     // SQLite shot log, disabled when empty
}

// GatewayConfig points at the robot controller API and identifies the
// operator.
type GatewayConfig struct {
	BaseURL string `json:"base_url"`
	Name    string `json:"name"`
	Email   string `json:"email"`
}

// DetectorConfig points at the vision server.
type DetectorConfig struct {
	BaseURL string        `json:"base_url"`
	Timeout time.Duration `json:"timeout,omitempty"`
}

// IsConfigured returns true if the gateway has an operator identity
func (c *Config) IsConfigured() bool {
	return c.Gateway.BaseURL != "" && c.Gateway.Name != ""
}

// Load loads configuration from the default config file
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigFile)
}

// LoadFrom loads configuration from a specific file
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save saves configuration to the default config file
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigFile)
}

// SaveTo saves configuration to a specific file
func (c *Config) SaveTo(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Exists returns true if the default config file exists
func Exists() bool {
	_, err := os.Stat(DefaultConfigFile)
	return err == nil
}
