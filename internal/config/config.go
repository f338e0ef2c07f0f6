// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Inputs
	Challenge string `json:"challenge,omitempty"` // Path to a challenge manifest JSON file
	PageURL   string `json:"page_url,omitempty"`  // URL of a live challenge page to capture

	// Behavior
	APIKey      string `json:"api_key,omitempty"`      // Gemini API key for the unknown-rule fallback
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL for run persistence
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information

	// Vision pipeline tunables
	Vision Vision `json:"vision,omitempty"`
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	// Validate mutually exclusive fields
	if c.Challenge != "" && c.PageURL != "" {
		return fmt.Errorf("config error: 'challenge' and 'page_url' are mutually exclusive")
	}

	// Validate manifest path exists (if specified)
	if c.Challenge != "" {
		if _, err := os.Stat(c.Challenge); os.IsNotExist(err) {
			return fmt.Errorf("config error: challenge manifest not found: %s", c.Challenge)
		}
	}

	return c.Vision.Normalize()
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Challenge == "" {
		result.Challenge = defaults.Challenge
	}
	if result.PageURL == "" {
		result.PageURL = defaults.PageURL
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Vision tunables: zero-valued fields fall back to the other config,
	// then Normalize fills whatever remains from the built-in defaults.
	if result.Vision == (Vision{}) {
		result.Vision = defaults.Vision
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
