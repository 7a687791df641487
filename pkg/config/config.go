// Package config provides unified configuration for the IRI gateway.
//
// Configuration is loaded once at process start with a layered approach:
//  1. Built-in defaults
//  2. YAML config file (discovered or explicitly specified)
//  3. Environment variable overrides (IRI_ prefix)
//  4. Validation
//
// The resulting Config is treated as immutable and passed explicitly to
// each route group's construction; no binding logic reads the environment
// directly.
package config

import (
	"strings"
	"time"
)

// adapterKeyPrefix is the per-group environment key prefix; the full key
// is IRI_API_ADAPTER_<GROUPNAME> with the group name uppercased.
const adapterKeyPrefix = "IRI_API_ADAPTER_"

// showMissingKey toggles whether route groups without a configured
// adapter stay visible and fall back to the default adapter.
const showMissingKey = "IRI_API_SHOW_MISSING_ROUTES"

// truthy is the closed set of accepted "enabled" spellings for
// IRI_API_SHOW_MISSING_ROUTES, matched case-sensitively. Anything else,
// including unset or malformed values, silently means false.
var truthy = map[string]bool{"true": true, "1": true, "on": true, "yes": true}

// Config holds all configuration for the IRI gateway.
type Config struct {
	Server        ServerConfig        `yaml:"server"`
	Routers       []RouterConfig      `yaml:"routers"`
	Observability ObservabilityConfig `yaml:"observability"`
	Logging       LoggingConfig       `yaml:"logging"`

	// Adapters maps uppercased group names to adapter locators of the
	// form "<module.path>.<SymbolName>".
	Adapters map[string]string `yaml:"adapters"`

	// ShowMissingRoutes keeps unconfigured route groups visible, bound
	// to the default adapter.
	ShowMissingRoutes bool `yaml:"show_missing_routes"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         int           `yaml:"port"`          // default: 8080
	ReadTimeout  time.Duration `yaml:"read_timeout"`  // default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"` // default: 60s
}

// RouterConfig describes a single route group to mount.
type RouterConfig struct {
	// Prefix is the URL prefix of the facility, e.g. "/spark". The group
	// name is derived from it by stripping path separators.
	Prefix string `yaml:"prefix"`
}

// LoggingConfig holds log level and debug category settings. Both can be
// overridden by the IRI_LOG_LEVEL and IRI_DEBUG environment variables.
type LoggingConfig struct {
	Level string `yaml:"level"` // default: "INFO"
	Debug string `yaml:"debug"` // comma-separated debug categories
}

// ObservabilityConfig holds monitoring settings.
type ObservabilityConfig struct {
	Metrics MetricsConfig `yaml:"metrics"`
}

// MetricsConfig holds Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"` // default: true
	Path    string `yaml:"path"`    // default: "/metrics"
}

// Defaults returns a Config with all default values filled in.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 60 * time.Second,
		},
		Adapters: make(map[string]string),
		Observability: ObservabilityConfig{
			Metrics: MetricsConfig{
				Enabled: true,
				Path:    "/metrics",
			},
		},
	}
}

// AdapterKey returns the configuration key consulted for the named group.
// Exposed so the binder can log which key it looked at.
func AdapterKey(name string) string {
	return adapterKeyPrefix + strings.ToUpper(name)
}

// AdapterLocator returns the adapter locator configured for the named
// group, and whether one was configured at all.
func (c *Config) AdapterLocator(name string) (string, bool) {
	locator, ok := c.Adapters[strings.ToUpper(name)]
	return locator, ok
}
