package router

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/iri-project/iri-gateway/pkg/config"
	"github.com/iri-project/iri-gateway/pkg/debug"
	"github.com/iri-project/iri-gateway/pkg/facility"
)

// Group is a route group bound to one backend facility. Name, visibility
// and the adapter binding are fixed at construction for the process
// lifetime.
type Group struct {
	// Name identifies the facility, derived from the URL prefix with
	// path separators stripped.
	Name string

	// Prefix is the URL prefix the group is mounted under.
	Prefix string

	// Visible controls whether the group appears in the public route
	// listing. A hidden group is still constructible and mountable;
	// visibility is a presentation concern, not a hard disable.
	Visible bool

	// Adapter is the bound facility adapter. Nil when the group is
	// hidden; never changes once resolved.
	Adapter facility.Adapter

	logger *slog.Logger
}

// Option configures a Group.
type Option func(*Group)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(g *Group) { g.logger = l }
}

// New constructs a route group for the given URL prefix and resolves its
// adapter binding.
//
// If no adapter is configured for the group and the show-missing-routes
// flag is off, the group is hidden and no adapter is bound. Otherwise the
// configured locator (or the default demo locator) is resolved through
// the registry and probed against the facility.Adapter contract. An
// unknown locator or a failed probe is a fatal construction error: the
// process must not start serving a misconfigured visible group.
func New(cfg *config.Config, reg *facility.Registry, prefix string, opts ...Option) (*Group, error) {
	g := &Group{
		Name:   strings.TrimSpace(strings.ReplaceAll(prefix, "/", "")),
		Prefix: prefix,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}

	key := config.AdapterKey(g.Name)
	g.logger.Info("loading adapter", "key", key)

	locator, configured := cfg.AdapterLocator(g.Name)
	if !configured && !cfg.ShowMissingRoutes {
		g.logger.Info("hiding route", "router", g.Name)
		return g, nil
	}
	if !configured {
		locator = facility.DefaultLocator
	}
	g.logger.Info("using adapter", "router", g.Name, "adapter", locator)

	debug.Log("router", "resolving locator", "router", g.Name, "locator", locator, "configured", configured)

	inst, err := reg.New(locator)
	if err != nil {
		return nil, fmt.Errorf("router %s: %w", g.Name, err)
	}

	adapter, ok := inst.(facility.Adapter)
	if !ok {
		return nil, fmt.Errorf("router %s: %s should implement facility.Adapter", g.Name, locator)
	}

	g.logger.Info("successfully loaded adapter", "router", g.Name)
	g.Adapter = adapter
	g.Visible = true
	return g, nil
}
