package analytics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	Consumed prometheus.Counter
	Dropped  prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		Consumed: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_events_consumed_total",
			Help: "Patient events decoded and tallied.",
		}),
		Dropped: promauto.NewCounter(prometheus.CounterOpts{
			Name: "analytics_events_dropped_total",
			Help: "Records dropped because the payload did not decode.",
		}),
	}
}
