package http

import (
	"encoding/json"
	"net/http"

	"github.com/iri-project/iri-gateway/pkg/observability"
	"github.com/iri-project/iri-gateway/pkg/router"
)

// routeInfo is one entry of the public discovery listing.
type routeInfo struct {
	Name   string `json:"name"`
	Prefix string `json:"prefix"`
}

// handleRoutes serves the public route listing. Hidden groups are
// excluded; they remain mounted and reachable for callers that know
// them.
func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	routes := make([]routeInfo, 0, len(s.groups))
	for _, g := range s.groups {
		if !g.Visible {
			continue
		}
		routes = append(routes, routeInfo{Name: g.Name, Prefix: g.Prefix})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]routeInfo{"routes": routes})
}

// handleMe returns the authenticated caller's profile, fetched through
// the group's adapter with the identity and credential the
// authentication middleware attached to the request context.
func (s *Server) handleMe(g *router.Group) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := router.IdentityFromContext(r.Context())
		if id == nil {
			// Only reachable if the handler is mounted without the
			// Authenticate middleware.
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			w.Write([]byte(`{"detail":"Unauthorized access"}`))
			return
		}

		user, err := g.Adapter.GetUser(r.Context(), id.UserID, id.Credential)
		if err != nil {
			s.logger.Error("profile fetch failed", "router", g.Name, "error", err)
			observability.ProfileFetchesTotal.WithLabelValues(g.Name, "error").Inc()
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"detail":"Unable to retrieve user"}`))
			return
		}

		observability.ProfileFetchesTotal.WithLabelValues(g.Name, "ok").Inc()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(user)
	}
}
