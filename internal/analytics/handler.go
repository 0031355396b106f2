package analytics

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"careline/internal/events"
)

// Handler processes one raw record payload at a time. Undecodable payloads
// are logged and dropped permanently; there is no retry path and no
// dead-letter topic, so a poison record can never wedge the group.
type Handler struct {
	stats   *Stats
	logger  *slog.Logger
	metrics *Metrics
	now     func() time.Time
}

func NewHandler(stats *Stats, logger *slog.Logger, metrics *Metrics) *Handler {
	return &Handler{stats: stats, logger: logger, metrics: metrics, now: time.Now}
}

func (h *Handler) Handle(payload []byte) {
	ev, err := events.Decode(payload)
	if err != nil {
		if h.metrics != nil {
			h.metrics.Dropped.Inc()
		}
		h.stats.RecordDrop()
		h.logger.Warn("dropping undecodable patient event", "bytes", len(payload), "error", err)
		return
	}

	if h.metrics != nil {
		h.metrics.Consumed.Inc()
	}
	h.stats.Record(ev, h.now())
	h.logger.Info("patient event received",
		"patient_id", ev.PatientID, "name", ev.Name, "email", ev.Email)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
