package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the gateway.
type Metrics struct {
	Forwarded prometheus.Counter
	Rejected  prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Forwarded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gateway_requests_forwarded_total",
			Help: "Requests that passed the auth filter and were proxied downstream.",
		}),
		Rejected: promauto.NewCounter(prometheus.CounterOpts{
			Name: "gateway_requests_rejected_total",
			Help: "Requests rejected with 401 by the auth filter.",
		}),
	}
}
