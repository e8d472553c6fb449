package rest

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"

	"creditrisk/internal/domain"
)

const maxRequestBytes = 1 << 20

// Predictor scores one feature record.
type Predictor interface {
	Predict(ctx context.Context, record map[string]any) (domain.Prediction, error)
}

// PredictHandler serves POST /predict.
type PredictHandler struct {
	predictor Predictor
	logger    *slog.Logger
}

// NewPredictHandler creates the prediction handler.
func NewPredictHandler(predictor Predictor, logger *slog.Logger) *PredictHandler {
	return &PredictHandler{predictor: predictor, logger: logger}
}

// RegisterRoutes attaches the prediction route to the given mux.
func (h *PredictHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /predict", h.predict)
}

type errorResponse struct {
	Error   string   `json:"error"`
	Missing []string `json:"missing,omitempty"`
	Invalid []string `json:"invalid,omitempty"`
}

func (h *PredictHandler) predict(w http.ResponseWriter, r *http.Request) {
	var record map[string]any
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object: " + err.Error()})
		return
	}
	if record == nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "request body must be a JSON object"})
		return
	}

	p, err := h.predictor.Predict(r.Context(), record)
	if err != nil {
		var inputErr *domain.InputError
		switch {
		case errors.As(err, &inputErr):
			writeJSON(w, http.StatusBadRequest, errorResponse{
				Error:   inputErr.Error(),
				Missing: inputErr.Missing,
				Invalid: inputErr.Invalid,
			})
		case errors.Is(err, domain.ErrInvalidInput):
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		default:
			h.logger.Error("prediction failed", slog.String("error", err.Error()))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
		}
		return
	}
	writeJSON(w, http.StatusOK, p)
}
