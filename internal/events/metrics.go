package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for event publication.
type Metrics struct {
	Published       prometheus.Counter
	PublishFailures prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Published: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patient_events_published_total",
			Help: "Patient events acknowledged by the broker.",
		}),
		PublishFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patient_events_publish_failures_total",
			Help: "Patient events that failed delivery; they are logged and dropped.",
		}),
	}
}
