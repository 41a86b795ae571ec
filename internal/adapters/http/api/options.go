package api

import (
	"net/http"

	"github.com/admitwise/josaa/internal/app"
)

// OptionsDependencies defines the interface for selection value lookups.
type OptionsDependencies interface {
	Branches() ([]string, error)
	Options() (app.OptionValues, error)
}

// OptionsHandler serves the distinct dataset values that populate the
// client's selection controls.
type OptionsHandler struct {
	deps OptionsDependencies
}

// NewOptionsHandler creates a new options handler.
func NewOptionsHandler(deps OptionsDependencies) *OptionsHandler {
	return &OptionsHandler{deps: deps}
}

// HandleBranches handles GET /branches requests.
func (h *OptionsHandler) HandleBranches(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	branches, err := h.deps.Branches()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	writeJSON(w, http.StatusOK, branches)
}

// HandleOptions handles GET /options requests.
func (h *OptionsHandler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	opts, err := h.deps.Options()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "not_ready", err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
