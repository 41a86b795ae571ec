// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/admitwise/josaa/internal/app"
	"github.com/admitwise/josaa/internal/domain/model"
	"github.com/admitwise/josaa/internal/engine"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Predict(ctx context.Context, raw engine.RawQuery) ([]model.PredictionResult, engine.Summary, error)
	Branches() ([]string, error)
	Options() (app.OptionValues, error)
	Reload(ctx context.Context) error
	Ready() bool
	Stats(ctx context.Context) map[string]any
}

// Server wires HTTP routes for the business API.
type Server struct {
	predictHandler *PredictHandler
	optionsHandler *OptionsHandler
	healthHandler  *HealthHandler
	statsHandler   *StatsHandler
	reloadHandler  *ReloadHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		predictHandler: NewPredictHandler(deps),
		optionsHandler: NewOptionsHandler(deps),
		healthHandler:  NewHealthHandler(deps),
		statsHandler:   NewStatsHandler(deps),
		reloadHandler:  NewReloadHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/predict", withMiddleware(s.predictHandler.HandlePredict, "predict"))
	mux.HandleFunc("/branches", withMiddleware(s.optionsHandler.HandleBranches, "branches"))
	mux.HandleFunc("/options", withMiddleware(s.optionsHandler.HandleOptions, "options"))
	mux.HandleFunc("/healthz", withMiddleware(s.healthHandler.HandleLiveness, "healthz"))
	mux.HandleFunc("/readyz", withMiddleware(s.healthHandler.HandleReadiness, "readyz"))
	mux.HandleFunc("/stats", withMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/reload", withMiddleware(s.reloadHandler.HandleReload, "reload"))
	mux.Handle("/metrics", MetricsHandler())
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
