// Package config provides configuration loading and validation for the CLI and server.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config represents an extraction run that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Source
	Domain string `json:"domain,omitempty"` // resume, company or school
	URL    string `json:"url,omitempty"`    // Web page to fetch (organizations)
	File   string `json:"file,omitempty"`   // Path to a PDF document

	// Generation
	Provider string `json:"provider,omitempty"` // gemini or openai
	Contract string `json:"contract,omitempty"` // marker or json
	APIKey   string `json:"api_key,omitempty"`  // Provider API key
	NoAI     bool   `json:"no_ai,omitempty"`    // Skip the generation stage

	// Behavior
	UseBrowser  bool   `json:"use_browser,omitempty"`  // Use headless browser for SPA sites
	Verbose     bool   `json:"verbose,omitempty"`      // Print detailed debug information
	Output      string `json:"output,omitempty"`       // Write the profile JSON here instead of stdout
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL connection URL
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

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
// Required fields are checked by the CLI after merging with flags.
func (c *Config) Validate() error {
	if c.URL != "" && c.File != "" {
		return fmt.Errorf("config error: 'url' and 'file' are mutually exclusive")
	}

	switch c.Domain {
	case "", "resume", "company", "school":
	default:
		return fmt.Errorf("config error: unknown domain %q", c.Domain)
	}
	if c.Domain == "resume" && c.URL != "" {
		return fmt.Errorf("config error: resume extraction requires 'file'")
	}

	switch c.Provider {
	case "", "gemini", "openai":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	switch c.Contract {
	case "", "marker", "json":
	default:
		return fmt.Errorf("config error: unknown contract %q", c.Contract)
	}

	if c.File != "" {
		if _, err := os.Stat(c.File); os.IsNotExist(err) {
			return fmt.Errorf("config error: document not found: %s", c.File)
		}
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty string fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Domain == "" {
		result.Domain = defaults.Domain
	}
	if result.URL == "" && result.File == "" {
		result.URL = defaults.URL
		result.File = defaults.File
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Contract == "" {
		result.Contract = defaults.Contract
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}

	// Bools cannot distinguish unset from false, so flags always win.

	return result
}
