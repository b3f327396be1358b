package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	SubmissionsTotal     *prometheus.CounterVec
	DegradedAllocations  prometheus.Counter
	CompositionTime      prometheus.Histogram
	ListingQueriesTotal  *prometheus.CounterVec
	InvoiceEmailsFailure prometheus.Counter
}

// NewMetrics registers the service metrics on reg. A nil reg registers on the
// default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_submissions_total",
			Help:      "Booking submissions by outcome",
		}, []string{"outcome"}),
		DegradedAllocations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_number_fallbacks_total",
			Help:      "Booking numbers taken from the clock because the counter was unavailable",
		}),
		CompositionTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "invoice_composition_seconds",
			Help:      "Time taken to compose an invoice PDF",
			Buckets:   prometheus.DefBuckets,
		}),
		ListingQueriesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_listing_queries_total",
			Help:      "Invoice listing queries by outcome",
		}, []string{"outcome"}),
		InvoiceEmailsFailure: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoice_email_failures_total",
			Help:      "Invoice emails that could not be sent",
		}),
	}
}

// The helpers below accept a nil receiver so use cases can run without metrics.

func (m *Metrics) ObserveSubmission(outcome string) {
	if m == nil {
		return
	}
	m.SubmissionsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveDegradedAllocation() {
	if m == nil {
		return
	}
	m.DegradedAllocations.Inc()
}

func (m *Metrics) ObserveComposition(seconds float64) {
	if m == nil {
		return
	}
	m.CompositionTime.Observe(seconds)
}

func (m *Metrics) ObserveListing(outcome string) {
	if m == nil {
		return
	}
	m.ListingQueriesTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveEmailFailure() {
	if m == nil {
		return
	}
	m.InvoiceEmailsFailure.Inc()
}
