package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"creditrisk/internal/training"
)

// ModelInfo reports the model being served.
type ModelInfo interface {
	Model() training.Metadata
}

// HealthHandler serves liveness and readiness probes over HTTP.
type HealthHandler struct {
	model  ModelInfo
	logger *slog.Logger
}

// NewHealthHandler creates a health check HTTP handler. model may be nil
// until an artifact is loaded.
func NewHealthHandler(model ModelInfo, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{model: model, logger: logger}
}

// RegisterRoutes attaches health-check routes to the given mux.
func (h *HealthHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.liveness)
	mux.HandleFunc("GET /readyz", h.readiness)
}

func (h *HealthHandler) liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "creditrisk",
	})
}

func (h *HealthHandler) readiness(w http.ResponseWriter, _ *http.Request) {
	if h.model == nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status":  "no model loaded",
			"service": "creditrisk",
		})
		return
	}
	meta := h.model.Model()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ready",
		"service":    "creditrisk",
		"run_id":     meta.RunID,
		"model_kind": meta.ModelKind,
		"auc":        meta.AUC,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v) //nolint:errcheck
}
