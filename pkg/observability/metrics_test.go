package observability

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// TestMetricsRegistered verifies that all metrics are registered in the
// default registry without panicking.
func TestMetricsRegistered(t *testing.T) {
	// If registration failed in init(), this test would never run
	// (MustRegister panics); verify gathering works cleanly.
	if _, err := prometheus.DefaultGatherer.Gather(); err != nil {
		t.Fatalf("unexpected gather error: %v", err)
	}
}

func TestAuthAttemptsTotal(t *testing.T) {
	AuthAttemptsTotal.WithLabelValues("spark", "allowed").Inc()
	AuthAttemptsTotal.WithLabelValues("spark", "rejected").Add(2)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	var found *dto.MetricFamily
	for _, mf := range families {
		if mf.GetName() == "iri_auth_attempts_total" {
			found = mf
			break
		}
	}
	if found == nil {
		t.Fatal("iri_auth_attempts_total not gathered")
	}

	var rejected float64
	for _, m := range found.GetMetric() {
		for _, lp := range m.GetLabel() {
			if lp.GetName() == "outcome" && lp.GetValue() == "rejected" {
				rejected = m.GetCounter().GetValue()
			}
		}
	}
	if rejected < 2 {
		t.Errorf("rejected counter = %v, want >= 2", rejected)
	}
}

func TestAuthDurationBuckets(t *testing.T) {
	AuthDuration.WithLabelValues("spark").Observe(0.002)

	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}

	for _, mf := range families {
		if mf.GetName() == "iri_auth_duration_seconds" {
			return
		}
	}
	t.Error("iri_auth_duration_seconds not gathered")
}
