// Command gateway runs the IRI multi-facility API gateway.
//
// Configuration via environment variables:
//
//	IRI_CONFIG                   - Path to the YAML config file (optional)
//	IRI_API_ADAPTER_<GROUPNAME>  - Adapter locator for a route group,
//	                               e.g. IRI_API_ADAPTER_SPARK=jwt.JWTAdapter
//	IRI_API_SHOW_MISSING_ROUTES  - "true"/"1"/"on"/"yes" keeps unconfigured
//	                               groups visible with the demo adapter
//	IRI_API_PARAMS               - Adapter-specific settings (JSON)
//	IRI_LOG_LEVEL                - Log level (ERROR, WARN, INFO, DEBUG)
//	IRI_DEBUG                    - Comma-separated debug categories
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/iri-project/iri-gateway/pkg/config"
	"github.com/iri-project/iri-gateway/pkg/debug"
	"github.com/iri-project/iri-gateway/pkg/facility"
	"github.com/iri-project/iri-gateway/pkg/facility/apikey"
	"github.com/iri-project/iri-gateway/pkg/facility/demo"
	facilityjwt "github.com/iri-project/iri-gateway/pkg/facility/jwt"
	facilitypg "github.com/iri-project/iri-gateway/pkg/facility/postgres"
	"github.com/iri-project/iri-gateway/pkg/router"
	transporthttp "github.com/iri-project/iri-gateway/pkg/transport/http"
)

func main() {
	if err := run(); err != nil {
		slog.Error("gateway failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file (default: discovered)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	debug.Init(cfg.Logging.Debug, cfg.Logging.Level)

	// Built-in adapter implementations. Registration is explicit and
	// happens before any route group is constructed.
	reg := facility.NewRegistry()
	demo.Register(reg)
	apikey.Register(reg)
	facilityjwt.Register(reg)
	facilitypg.Register(reg)

	// Bind every configured route group. Binding is sequential and any
	// failure aborts startup: the process must not serve a misconfigured
	// visible route group.
	groups := make([]*router.Group, 0, len(cfg.Routers))
	for _, rt := range cfg.Routers {
		g, err := router.New(cfg, reg, rt.Prefix)
		if err != nil {
			return fmt.Errorf("binding route group %q: %w", rt.Prefix, err)
		}
		groups = append(groups, g)
	}

	srv := transporthttp.NewServer(groups,
		transporthttp.WithAddr(fmt.Sprintf(":%d", cfg.Server.Port)),
		transporthttp.WithTimeouts(cfg.Server.ReadTimeout, cfg.Server.WriteTimeout),
		transporthttp.WithMetrics(cfg.Observability.Metrics.Enabled, cfg.Observability.Metrics.Path),
	)

	return srv.ListenAndServe()
}
