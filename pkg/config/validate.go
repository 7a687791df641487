package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks the configuration for required fields and valid values.
// Returns an error with a descriptive field path on failure. It also
// normalizes adapter map keys to their uppercased form so YAML-configured
// entries and environment overrides address the same group.
func (c *Config) Validate() error {
	var errs []error

	// server.port must be positive.
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be in 1..65535, got %d", c.Server.Port))
	}

	// routers[*].prefix must produce a non-empty group name.
	for i, rt := range c.Routers {
		name := strings.TrimSpace(strings.ReplaceAll(rt.Prefix, "/", ""))
		if name == "" {
			errs = append(errs, fmt.Errorf("routers[%d].prefix %q yields an empty group name", i, rt.Prefix))
		}
	}

	// Normalize adapter keys and check locator shape. The locator must
	// carry at least one dot separating module path from symbol.
	normalized := make(map[string]string, len(c.Adapters))
	for name, locator := range c.Adapters {
		if !strings.Contains(locator, ".") {
			errs = append(errs, fmt.Errorf("adapters[%s]: locator %q is not of the form <module.path>.<SymbolName>", name, locator))
			continue
		}
		normalized[strings.ToUpper(name)] = locator
	}
	c.Adapters = normalized

	if c.Observability.Metrics.Enabled && c.Observability.Metrics.Path == "" {
		errs = append(errs, fmt.Errorf("observability.metrics.path is required when metrics are enabled"))
	}

	return errors.Join(errs...)
}
