package analytics

import (
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"careline/internal/events"
)

// Stats is the in-memory tally of consumed patient events. It is the whole
// analytics data model for now; downstream aggregation hangs off Record.
type Stats struct {
	mu            sync.Mutex
	received      uint64
	dropped       uint64
	lastPatientID string
	lastSeen      time.Time
}

func NewStats() *Stats {
	return &Stats{}
}

func (s *Stats) Record(ev events.PatientEvent, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.received++
	s.lastPatientID = ev.PatientID
	s.lastSeen = at
}

func (s *Stats) RecordDrop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dropped++
}

// Snapshot is the JSON shape served at /stats.
type Snapshot struct {
	Received      uint64 `json:"received"`
	Dropped       uint64 `json:"dropped"`
	LastPatientID string `json:"lastPatientId,omitempty"`
	LastSeen      string `json:"lastSeen,omitempty"`
}

func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{
		Received:      s.received,
		Dropped:       s.dropped,
		LastPatientID: s.lastPatientID,
	}
	if !s.lastSeen.IsZero() {
		snap.LastSeen = s.lastSeen.UTC().Format(time.RFC3339)
	}
	return snap
}

func (s *Stats) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.Snapshot())
	})
	return r
}
