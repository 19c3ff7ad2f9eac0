package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileConfig represents the structure of ~/.pttcrawl/config.yaml. Durations
// are strings in time.ParseDuration format.
type FileConfig struct {
	Crawl struct {
		Origin   string `yaml:"origin"`
		Board    string `yaml:"board"`
		Pages    int    `yaml:"pages"`
		Source   string `yaml:"source"`
		Timeout  string `yaml:"timeout"`
		MinDelay string `yaml:"min_delay"`
		MaxDelay string `yaml:"max_delay"`
	} `yaml:"crawl"`
	Storage struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"storage"`
	Export struct {
		Path string `yaml:"path"`
	} `yaml:"export"`
	Log struct {
		File  string `yaml:"file"`
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// DefaultConfigPath returns ~/.pttcrawl/config.yaml.
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	return filepath.Join(homeDir, ".pttcrawl", "config.yaml"), nil
}

// LoadConfigFile loads configuration from path. Returns nil if the file
// doesn't exist (not an error). Returns error if the file exists but cannot be
// parsed.
func LoadConfigFile(path string) (*FileConfig, error) {
	// Check if file exists
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil // File doesn't exist -- not an error
	}

	// Read file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg FileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &cfg, nil
}
