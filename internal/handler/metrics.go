package handler

import (
	"fmt"
	"net/http"

	"github.com/chatboard/chatboard/internal/metrics"
)

// MetricsHandler exposes in-memory metrics.
type MetricsHandler struct {
	snapshotter metrics.Snapshotter
}

// NewMetricsHandler creates a new MetricsHandler.
func NewMetricsHandler(snapshotter metrics.Snapshotter) *MetricsHandler {
	return &MetricsHandler{snapshotter: snapshotter}
}

// Metrics returns metrics in Prometheus exposition format.
//
// GET /metrics
func (h *MetricsHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if h.snapshotter == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}

	snap := h.snapshotter.Snapshot()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")

	writeMetric(w, "chatboard_users_created_total %d\n", snap.UsersCreated)
	writeMetric(w, "chatboard_users_deleted_total %d\n", snap.UsersDeleted)
	writeMetric(w, "chatboard_messages_created_total %d\n", snap.MessagesCreated)
	writeMetric(w, "chatboard_validation_failures_total %d\n", snap.ValidationFailures)

	writeMetric(w, "chatboard_store_errors_total %d\n", snap.StoreErrors)
	writeMetric(w, "chatboard_store_duration_seconds_count %d\n", snap.StoreDurationCount)
	writeMetric(w, "chatboard_store_duration_seconds_sum %.6f\n", float64(snap.StoreDurationTotalNs)/1e9)

	writeMetric(w, "chatboard_rate_limited_total %d\n", snap.RateLimited)
}

func writeMetric(w http.ResponseWriter, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
