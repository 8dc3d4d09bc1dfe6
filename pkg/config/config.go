// Package config provides configuration loading and management for the
// residue pipeline. It handles loading configuration from YAML files and
// provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// Sigma is the standard deviation of the gaussian kernel used to
		// smooth both inputs before computing the filtered residue.
		// Zero disables the filtered residue output entirely.
		Sigma float64 `yaml:"sigma"`

		// RotationDegrees rotates the residue counter-clockwise before it
		// is written. Must be a multiple of 90.
		RotationDegrees int `yaml:"rotationDegrees"`

		// RequireDistinctPosition aborts validation when both inputs carry
		// an identical ImagePositionPatient, which usually means the same
		// acquisition was supplied twice.
		RequireDistinctPosition bool `yaml:"requireDistinctPosition"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// DirName is the subfolder of the input folder that receives the
		// residue files
		DirName string `yaml:"dirName"`

		// Overwrite replaces existing residue outputs so that reruns are
		// idempotent. When false an existing output fails the run.
		Overwrite bool `yaml:"overwrite"`

		// RedactPatientTags blanks PatientName and PatientID in the output
		RedactPatientTags bool `yaml:"redactPatientTags"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	// Smoothing defaults match the original acquisition-comparison
	// workflow: sigma 3, no rotation.
	cfg.Processing.Sigma = 3.0
	cfg.Processing.RotationDegrees = 0
	cfg.Processing.RequireDistinctPosition = false

	cfg.Output.DirName = "residues"
	cfg.Output.Overwrite = true
	cfg.Output.RedactPatientTags = false
	cfg.Output.Verbose = true

	return cfg
}

// Validate reports configuration values no pipeline run can honor.
func (cfg *Config) Validate() error {
	if cfg.Processing.RotationDegrees%90 != 0 {
		return fmt.Errorf("rotationDegrees %d is not a multiple of 90", cfg.Processing.RotationDegrees)
	}
	if cfg.Processing.Sigma < 0 {
		return fmt.Errorf("sigma must not be negative, got %v", cfg.Processing.Sigma)
	}
	if cfg.Output.DirName == "" {
		return fmt.Errorf("output dirName must not be empty")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}
