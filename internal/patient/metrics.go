package patient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus counters for the patient service.
type Metrics struct {
	PatientsCreated prometheus.Counter
	OrphanedRecords prometheus.Counter
}

func NewMetrics() *Metrics {
	return &Metrics{
		PatientsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patients_created_total",
			Help: "Patients created with a billing account opened.",
		}),
		OrphanedRecords: promauto.NewCounter(prometheus.CounterOpts{
			Name: "patients_orphaned_records_total",
			Help: "Persisted patients whose billing call failed; need manual reconciliation.",
		}),
	}
}
