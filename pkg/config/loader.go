package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load loads configuration from a layered set of sources.
//
// The loading order is:
//  1. Built-in defaults
//  2. YAML config file (explicit path, IRI_CONFIG env, ./config.yaml, /etc/iri/config.yaml)
//  3. Environment variable overrides
//  4. Validation
func Load(configPath string) (*Config, error) {
	// Start with defaults.
	cfg := Defaults()

	// Discover and load YAML config file.
	filePath := discoverConfigFile(configPath)
	if filePath != "" {
		if err := loadYAMLFile(filePath, &cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", filePath, err)
		}
	}

	// Apply environment variable overrides.
	applyEnvOverrides(&cfg, os.Environ())

	// Validate.
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return &cfg, nil
}

// discoverConfigFile finds the config file path using the discovery order:
// 1. Explicit configPath argument
// 2. IRI_CONFIG environment variable
// 3. ./config.yaml in the current directory
// 4. /etc/iri/config.yaml
//
// Returns empty string if no config file is found.
func discoverConfigFile(configPath string) string {
	// Explicit path takes priority.
	if configPath != "" {
		return configPath
	}

	// Check IRI_CONFIG env var.
	if envPath := os.Getenv("IRI_CONFIG"); envPath != "" {
		return envPath
	}

	// Check common locations.
	candidates := []string{
		"config.yaml",
		"/etc/iri/config.yaml",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// loadYAMLFile reads and parses a YAML file into the Config struct.
// Fields not present in the YAML retain their current (default) values.
func loadYAMLFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides maps environment variables to config fields. The
// environ slice has the os.Environ "KEY=value" shape; it is a parameter
// so loading stays testable without mutating the process environment.
//
// Per-group adapter locators come from IRI_API_ADAPTER_<GROUPNAME>
// variables and override any YAML-configured locator for the same group.
// IRI_API_SHOW_MISSING_ROUTES is matched case-sensitively against the
// truthy set {"true", "1", "on", "yes"}; any other value is ignored and
// the flag keeps its current value. Both lenient behaviors are
// deliberate: a missing or garbled value hides routes, never breaks
// startup.
func applyEnvOverrides(cfg *Config, environ []string) {
	if cfg.Adapters == nil {
		cfg.Adapters = make(map[string]string)
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}

		switch {
		case key == showMissingKey:
			if truthy[value] {
				cfg.ShowMissingRoutes = true
			}
		case strings.HasPrefix(key, adapterKeyPrefix):
			name := strings.TrimPrefix(key, adapterKeyPrefix)
			if name != "" && value != "" {
				cfg.Adapters[name] = value
			}
		}
	}
}
