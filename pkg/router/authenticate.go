package router

import (
	"net/http"
	"time"

	"github.com/iri-project/iri-gateway/pkg/observability"
)

// unauthorizedBody is the uniform rejection payload. Deliberately
// generic: no adapter-internal detail ever reaches the caller.
const unauthorizedBody = `{"detail":"Unauthorized access"}`

// Authenticate returns middleware that authenticates every request with
// the group's bound adapter.
//
// The credential is the raw Authorization header value and the client
// address follows the RealIP precedence. Exactly one resolution attempt
// is made per request; the adapter call inherits the request context, so
// client disconnects propagate as cancellation. Any adapter error or
// empty identity token rejects the request with 403 before the next
// handler runs. On success the identity token and raw credential are
// attached to the request context.
func (g *Group) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		if g.Adapter == nil {
			// Hidden groups carry no adapter binding. Fail closed.
			g.reject(w, r, start, "no adapter bound")
			return
		}

		credential := r.Header.Get("Authorization")
		if credential == "" {
			g.reject(w, r, start, "missing credential")
			return
		}

		userID, err := g.Adapter.ResolveIdentity(r.Context(), credential, RealIP(r))
		if err != nil {
			// Fail closed: a broken adapter denies access to its
			// facility rather than granting it.
			g.logger.Error("identity resolution failed", "router", g.Name, "error", err)
			g.reject(w, r, start, "adapter error")
			return
		}
		if userID == "" {
			g.reject(w, r, start, "no identity")
			return
		}

		observability.AuthAttemptsTotal.WithLabelValues(g.Name, "allowed").Inc()
		observability.AuthDuration.WithLabelValues(g.Name).Observe(time.Since(start).Seconds())

		ctx := SetIdentity(r.Context(), &Identity{UserID: userID, Credential: credential})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// reject writes the uniform 403 response. The reason is recorded in logs
// and metrics only.
func (g *Group) reject(w http.ResponseWriter, r *http.Request, start time.Time, reason string) {
	g.logger.Warn("rejecting request",
		"router", g.Name,
		"path", r.URL.Path,
		"reason", reason,
	)
	observability.AuthAttemptsTotal.WithLabelValues(g.Name, "rejected").Inc()
	observability.AuthDuration.WithLabelValues(g.Name).Observe(time.Since(start).Seconds())

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	w.Write([]byte(unauthorizedBody))
}
