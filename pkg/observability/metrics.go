// Package observability provides Prometheus metrics for the IRI gateway.
package observability

import "github.com/prometheus/client_golang/prometheus"

// AuthBuckets defines histogram buckets suited for authentication
// latencies, from sub-millisecond local checks to multi-second
// token-introspection round trips.
var AuthBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 2, 5}

var (
	// AuthAttemptsTotal counts authentication attempts by facility and
	// outcome ("allowed" or "rejected").
	AuthAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iri_auth_attempts_total",
			Help: "Authentication attempts",
		},
		[]string{"facility", "outcome"},
	)

	// AuthDuration records identity-resolution duration in seconds by facility.
	AuthDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "iri_auth_duration_seconds",
			Help:    "Identity resolution duration",
			Buckets: AuthBuckets,
		},
		[]string{"facility"},
	)

	// RoutesVisible tracks how many configured route groups are visible
	// in the public route listing.
	RoutesVisible = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "iri_routes_visible",
			Help: "Visible route groups",
		},
	)

	// ProfileFetchesTotal counts user-profile retrievals by facility and outcome.
	ProfileFetchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "iri_profile_fetches_total",
			Help: "User profile fetches",
		},
		[]string{"facility", "status"},
	)
)

func init() {
	prometheus.MustRegister(
		AuthAttemptsTotal,
		AuthDuration,
		RoutesVisible,
		ProfileFetchesTotal,
	)
}
