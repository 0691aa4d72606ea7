package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	RecipientOperator     = "operator"
	RecipientConfirmation = "confirmation"
)

// RelayMetrics records quote relay deliveries.
type RelayMetrics struct {
	duration  *prometheus.HistogramVec
	delivered *prometheus.CounterVec
	failed    *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// NewRelayMetrics registers the relay metrics on the provided registerer. A nil
// registerer yields a no-op recorder.
func NewRelayMetrics(reg prometheus.Registerer) *RelayMetrics {
	if reg == nil {
		return &RelayMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "quote_relay_duration_seconds",
		Help:    "Time spent delivering quote emails.",
		Buckets: prometheus.DefBuckets,
	}, []string{"recipient"})
	delivered := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_relay_delivered_total",
		Help: "Quote emails delivered.",
	}, []string{"recipient"})
	failed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_relay_failed_total",
		Help: "Quote emails that failed to deliver.",
	}, []string{"recipient"})
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "quote_requests_total",
		Help: "Quote requests handled by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(duration, delivered, failed, requests)
	return &RelayMetrics{
		duration:  duration,
		delivered: delivered,
		failed:    failed,
		requests:  requests,
	}
}

// ObserveDuration records how long one delivery took.
func (m *RelayMetrics) ObserveDuration(recipient string, d time.Duration) {
	if m == nil || m.duration == nil {
		return
	}
	m.duration.WithLabelValues(normalizeLabel(recipient)).Observe(d.Seconds())
}

func (m *RelayMetrics) IncDelivered(recipient string) {
	if m == nil || m.delivered == nil {
		return
	}
	m.delivered.WithLabelValues(normalizeLabel(recipient)).Inc()
}

func (m *RelayMetrics) IncFailed(recipient string) {
	if m == nil || m.failed == nil {
		return
	}
	m.failed.WithLabelValues(normalizeLabel(recipient)).Inc()
}

// IncRequest counts a send-order request by outcome: delivered, partial, failed,
// invalid or rate_limited.
func (m *RelayMetrics) IncRequest(outcome string) {
	if m == nil || m.requests == nil {
		return
	}
	m.requests.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
