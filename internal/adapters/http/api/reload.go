package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/admitwise/josaa/internal/adapters/dataset"
	"github.com/admitwise/josaa/internal/app"
)

// ReloadDependencies defines the interface for dataset reloads.
type ReloadDependencies interface {
	Reload(ctx context.Context) error
}

// ReloadHandler handles dataset reload requests.
type ReloadHandler struct {
	deps ReloadDependencies
}

// NewReloadHandler creates a new reload handler.
func NewReloadHandler(deps ReloadDependencies) *ReloadHandler {
	return &ReloadHandler{deps: deps}
}

// HandleReload handles POST /reload requests. Reloads are serialized: a
// second request while one is running gets 409. A failed reload keeps the
// previous table published and reports 500.
func (h *ReloadHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	err := h.deps.Reload(r.Context())
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
	case errors.Is(err, app.ErrReloadInFlight):
		writeError(w, http.StatusConflict, "reload_in_flight", err)
	case dataset.IsSchemaError(err):
		writeError(w, http.StatusInternalServerError, "schema_error", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
