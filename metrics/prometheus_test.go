package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountOutcomes(t *testing.T) {
	m := NewMetrics("test", prometheus.NewRegistry())

	m.ObserveSubmission("success")
	m.ObserveSubmission("success")
	m.ObserveSubmission("failed")
	m.ObserveDegradedAllocation()

	if got := testutil.ToFloat64(m.SubmissionsTotal.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.DegradedAllocations); got != 1 {
		t.Fatalf("expected 1 fallback, got %v", got)
	}
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveSubmission("success")
	m.ObserveListing("error")
	m.ObserveComposition(0.1)
	m.ObserveDegradedAllocation()
	m.ObserveEmailFailure()
}
