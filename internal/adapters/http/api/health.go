package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/admitwise/josaa/pkg/metrics"
)

// ReadinessDependencies reports whether the dataset has been published.
type ReadinessDependencies interface {
	Ready() bool
}

// HealthHandler handles liveness and readiness probes.
type HealthHandler struct {
	deps ReadinessDependencies
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(deps ReadinessDependencies) *HealthHandler {
	return &HealthHandler{deps: deps}
}

// HandleLiveness handles GET /healthz requests.
func (h *HealthHandler) HandleLiveness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// HandleReadiness handles GET /readyz requests. It reports 503 until the
// historical dataset has been loaded and published.
func (h *HealthHandler) HandleReadiness(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	if !h.deps.Ready() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "loading"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// MetricsHandler serves the custom Prometheus registry.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
